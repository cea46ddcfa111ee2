package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const dateFormat = time.DateOnly

// Cursor marks the last item of a page ordered by date then id.
type Cursor struct {
	Date time.Time
	ID   int
}

// Follows reports whether an item with the given date and id comes after the cursor.
func (c Cursor) Follows(date time.Time, id int) bool {
	if !date.Equal(c.Date) {
		return date.After(c.Date)
	}
	return id > c.ID
}

// EncodeToken creates a base64 encoded token from a date and an id.
func EncodeToken(date time.Time, id int) string {
	tokenStr := fmt.Sprintf("%s|%d", date.Format(dateFormat), id)
	return base64.RawURLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeToken parses the base64 encoded token back into a Cursor.
func DecodeToken(token string) (Cursor, error) {
	decodedBytes, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 2)
	if len(parts) != 2 {
		return Cursor{}, fmt.Errorf("invalid pagination token format (split)")
	}

	date, err := time.Parse(dateFormat, parts[0])
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (date parse): %w", err)
	}
	id, err := strconv.Atoi(parts[1])
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (id parse): %w", err)
	}
	return Cursor{Date: date, ID: id}, nil
}
