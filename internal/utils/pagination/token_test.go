package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeToken(t *testing.T) {
	date := time.Date(2023, 5, 15, 0, 0, 0, 0, time.UTC)

	token := EncodeToken(date, 42)
	assert.NotEmpty(t, token, "Token should not be empty")

	cursor, err := DecodeToken(token)
	require.NoError(t, err)
	assert.Equal(t, date, cursor.Date)
	assert.Equal(t, 42, cursor.ID)
}

func TestDecodeTokenError(t *testing.T) {
	_, err := DecodeToken("this is not base64!")
	assert.ErrorContains(t, err, "base64 decode")

	encode := func(s string) string { return base64.RawURLEncoding.EncodeToString([]byte(s)) }

	_, err = DecodeToken(encode("2023-05-15"))
	assert.ErrorContains(t, err, "split")

	_, err = DecodeToken(encode("notadate|3"))
	assert.ErrorContains(t, err, "date parse")

	_, err = DecodeToken(encode("2023-05-15|x"))
	assert.ErrorContains(t, err, "id parse")
}

func TestCursorFollows(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2023, 1, d, 0, 0, 0, 0, time.UTC) }
	c := Cursor{Date: day(10), ID: 5}

	assert.True(t, c.Follows(day(11), 1), "later date")
	assert.True(t, c.Follows(day(10), 6), "same date, higher id")
	assert.False(t, c.Follows(day(10), 5), "the cursor itself")
	assert.False(t, c.Follows(day(10), 4))
	assert.False(t, c.Follows(day(9), 99))
}
