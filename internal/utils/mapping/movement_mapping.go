package mapping

import (
	"github.com/SscSPs/money_ledger/internal/core/domain"
	"github.com/SscSPs/money_ledger/internal/models"
)

// ToModelMovement converts a live movement to its row, categories included.
// Deleted movements have no owners and must be filtered out by the caller.
func ToModelMovement(d *domain.Movement) models.Movement {
	categories := d.Categories()
	ids := make([]int32, len(categories))
	for i, c := range categories {
		ids[i] = int32(c.ID())
	}
	return models.Movement{
		MovementID:    d.ID(),
		MovementType:  models.MovementType(d.Type()),
		Amount:        d.Amount(),
		MovementDate:  d.Date(),
		Description:   d.Description(),
		TransactionID: d.Transaction().ID(),
		AccountID:     d.Account().ID(),
		CategoryIDs:   ids,
	}
}

func ToDomainMovementType(t models.MovementType) (domain.MovementType, error) {
	return domain.ParseMovementType(string(t))
}

// ToModelTransactionCategories flattens the category tags of every transaction.
func ToModelTransactionCategories(txs []*domain.Transaction) []models.TransactionCategory {
	var rows []models.TransactionCategory
	for _, tx := range txs {
		for _, c := range tx.Categories() {
			rows = append(rows, models.TransactionCategory{TransactionID: tx.ID(), CategoryID: c.ID()})
		}
	}
	return rows
}
