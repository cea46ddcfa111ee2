package mapping

import (
	"github.com/SscSPs/money_ledger/internal/core/domain"
	"github.com/SscSPs/money_ledger/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d *domain.Account) models.Account {
	return models.Account{
		AccountID:      d.ID(),
		AccountType:    models.AccountType(d.Type()),
		Name:           d.Name(),
		Description:    d.Description(),
		OpeningBalance: d.OpeningBalance(),
	}
}

// ToModelAccountSlice converts a slice of domain Accounts to model Accounts
func ToModelAccountSlice(ds []*domain.Account) []models.Account {
	ms := make([]models.Account, len(ds))
	for i, d := range ds {
		ms[i] = ToModelAccount(d)
	}
	return ms
}

// ToDomainAccountType validates a stored account type.
func ToDomainAccountType(t models.AccountType) (domain.AccountType, error) {
	return domain.ParseAccountType(string(t))
}
