package dto

import "github.com/SscSPs/money_ledger/internal/core/domain"

// CreateCategoryRequest defines the data needed to create a category.
type CreateCategoryRequest struct {
	ID          *int   `json:"id" binding:"omitempty,min=0"`
	Name        string `json:"name" binding:"required,ledger_field"`
	Description string `json:"description" binding:"ledger_field"`
}

// UpdateCategoryRequest defines the data allowed for updating a category.
type UpdateCategoryRequest struct {
	Name        *string `json:"name" binding:"omitempty,ledger_field"`
	Description *string `json:"description" binding:"omitempty,ledger_field"`
}

type CategoryResponse struct {
	CategoryID  int    `json:"categoryID"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func ToCategoryResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{
		CategoryID:  c.ID(),
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func ToListCategoryResponse(categories []*domain.Category) []CategoryResponse {
	res := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		res[i] = ToCategoryResponse(c)
	}
	return res
}

func categoryIDs(categories []*domain.Category) []int {
	ids := make([]int, len(categories))
	for i, c := range categories {
		ids[i] = c.ID()
	}
	return ids
}

// ListCategoriesResponse wraps the list of categories.
type ListCategoriesResponse struct {
	Categories []CategoryResponse `json:"categories"`
}
