package mapping

import (
	"github.com/SscSPs/money_ledger/internal/core/domain"
	"github.com/SscSPs/money_ledger/internal/models"
)

func ToModelCategory(d *domain.Category) models.Category {
	return models.Category{
		CategoryID:  d.ID(),
		Name:        d.Name(),
		Description: d.Description(),
	}
}

func ToModelCategorySlice(ds []*domain.Category) []models.Category {
	ms := make([]models.Category, len(ds))
	for i, d := range ds {
		ms[i] = ToModelCategory(d)
	}
	return ms
}
