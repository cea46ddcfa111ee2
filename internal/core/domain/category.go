package domain

import (
	"fmt"
	"strings"

	"github.com/SscSPs/money_ledger/internal/apperrors"
)

// Category is a user label attachable to movements and transactions.
// Categories are identified and ordered by id.
type Category struct {
	id          int
	name        string
	description string
}

// NewCategory creates a category. The name is mandatory, the description may be empty.
func NewCategory(id int, name, description string) (*Category, error) {
	if id < 0 {
		return nil, fmt.Errorf("%w: negative category id %d", apperrors.ErrValidation, id)
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: category name", apperrors.ErrNullField)
	}
	return &Category{id: id, name: name, description: description}, nil
}

func (c *Category) ID() int             { return c.id }
func (c *Category) Name() string        { return c.name }
func (c *Category) Description() string { return c.description }

// SetName renames the category.
func (c *Category) SetName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: category name", apperrors.ErrNullField)
	}
	c.name = name
	return nil
}

func (c *Category) SetDescription(description string) {
	c.description = description
}

func (c *Category) String() string {
	return fmt.Sprintf("Category{%d %s}", c.id, c.name)
}
