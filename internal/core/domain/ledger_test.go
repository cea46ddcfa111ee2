package domain_test

import (
	"testing"

	"github.com/SscSPs/money_ledger/internal/apperrors"
	"github.com/SscSPs/money_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type LedgerTestSuite struct {
	suite.Suite
	ledger  *domain.Ledger
	wallet  *domain.Account
	savings *domain.Account
	food    *domain.Category
}

func (s *LedgerTestSuite) SetupTest() {
	s.ledger = domain.NewLedger()

	var err error
	s.wallet, err = s.ledger.AddAccount(domain.Assets, "Wallet", "cash", decimal.Zero)
	s.Require().NoError(err)
	s.savings, err = s.ledger.AddAccount(domain.Assets, "Savings", "", dec(1000))
	s.Require().NoError(err)
	s.food, err = s.ledger.AddCategory("Food", "groceries")
	s.Require().NoError(err)
}

// register creates a transaction with one movement per account and adds it to the ledger.
func (s *LedgerTestSuite) register(txID int, firstMovementID int, accounts ...*domain.Account) *domain.Transaction {
	tx := domain.NewTransaction(txID)
	for i, a := range accounts {
		_, err := domain.NewMovement(firstMovementID+i, domain.Credits, dec(10), pastDate(), "", tx, a)
		s.Require().NoError(err)
	}
	s.Require().NoError(s.ledger.AddTransaction(tx))
	return tx
}

func (s *LedgerTestSuite) TestAddAccount_AutoIDs() {
	s.Equal(1, s.wallet.ID())
	s.Equal(2, s.savings.ID())

	a, err := s.ledger.AddAccountWithID(domain.Liabilities, "Loan", "", 10, decimal.Zero)
	s.Require().NoError(err)
	s.Equal(10, a.ID())

	next, err := s.ledger.AddAccount(domain.Assets, "Next", "", decimal.Zero)
	s.Require().NoError(err)
	s.Equal(11, next.ID(), "explicit ids push the counter forward")
}

func (s *LedgerTestSuite) TestAddAccountWithID_Duplicate() {
	_, err := s.ledger.AddAccountWithID(domain.Assets, "Clash", "", 1, decimal.Zero)
	s.ErrorIs(err, apperrors.ErrDuplicateID)
	s.Len(s.ledger.Accounts(), 2)
}

func (s *LedgerTestSuite) TestAddAccountWithID_LowIDKeepsOrderAndCounter() {
	ledger := domain.NewLedger()
	_, err := ledger.AddAccountWithID(domain.Assets, "B", "", 5, decimal.Zero)
	s.Require().NoError(err)
	_, err = ledger.AddAccountWithID(domain.Assets, "A", "", 3, decimal.Zero)
	s.Require().NoError(err)
	next, err := ledger.AddAccount(domain.Assets, "C", "", decimal.Zero)
	s.Require().NoError(err)

	s.Equal(6, next.ID())
	ids := []int{}
	for _, a := range ledger.Accounts() {
		ids = append(ids, a.ID())
	}
	s.Equal([]int{3, 5, 6}, ids)
}

func (s *LedgerTestSuite) TestAddCategoryWithID() {
	_, err := s.ledger.AddCategoryWithID("Rent", "", 1)
	s.ErrorIs(err, apperrors.ErrDuplicateID)

	c, err := s.ledger.AddCategoryWithID("Rent", "", 4)
	s.Require().NoError(err)
	s.Equal(4, c.ID())

	next, err := s.ledger.AddCategory("Fun", "")
	s.Require().NoError(err)
	s.Equal(5, next.ID())
}

func (s *LedgerTestSuite) TestExplicitIDs_ZeroAllowedNegativeRejected() {
	ledger := domain.NewLedger()
	a, err := ledger.AddAccountWithID(domain.Assets, "Checking", "", 0, decimal.Zero)
	s.Require().NoError(err)
	s.Equal(0, a.ID())
	c, err := ledger.AddCategoryWithID("Food", "", 0)
	s.Require().NoError(err)
	s.Equal(0, c.ID())

	_, err = ledger.AddAccountWithID(domain.Assets, "Below", "", -1, decimal.Zero)
	s.ErrorIs(err, apperrors.ErrValidation)
	_, err = ledger.AddCategoryWithID("Below", "", -1)
	s.ErrorIs(err, apperrors.ErrValidation)
	_, err = domain.NewMovement(-1, domain.Credits, dec(1), pastDate(), "", domain.NewTransaction(0), a)
	s.ErrorIs(err, apperrors.ErrInvalidMovement)
	s.Empty(a.Movements())

	next, err := ledger.AddAccount(domain.Assets, "Next", "", decimal.Zero)
	s.Require().NoError(err)
	s.Equal(1, next.ID())
	s.Len(ledger.Accounts(), 2)
}

func (s *LedgerTestSuite) TestAddTransaction_Orphan() {
	outsider, err := domain.NewAccount(99, domain.Assets, "Outsider", "", decimal.Zero)
	s.Require().NoError(err)

	tx := domain.NewTransaction(1)
	s.ErrorIs(s.ledger.AddTransaction(tx), apperrors.ErrOrphanTransaction)

	_, err = domain.NewMovement(1, domain.Credits, dec(5), pastDate(), "", tx, outsider)
	s.Require().NoError(err)
	s.ErrorIs(s.ledger.AddTransaction(tx), apperrors.ErrOrphanTransaction)

	_, err = domain.NewMovement(2, domain.Credits, dec(5), pastDate(), "", tx, s.wallet)
	s.Require().NoError(err)
	s.NoError(s.ledger.AddTransaction(tx))
	s.ErrorIs(s.ledger.AddTransaction(tx), apperrors.ErrAlreadyRegistered)
}

func (s *LedgerTestSuite) TestRemoveAccount_CascadesAndPurges() {
	onlyWallet := s.register(1, 1, s.wallet)
	shared := s.register(2, 2, s.wallet, s.savings)

	s.True(s.ledger.RemoveAccount(s.wallet))
	s.False(s.ledger.RemoveAccount(s.wallet))

	s.Empty(s.wallet.Movements())
	_, found := s.ledger.Transaction(onlyWallet.ID())
	s.False(found, "transaction left without movements is purged")

	remaining, found := s.ledger.Transaction(shared.ID())
	s.Require().True(found)
	s.Require().Len(remaining.Movements(), 1)
	s.Equal(s.savings, remaining.Movements()[0].Account())
	for _, tx := range s.ledger.Transactions() {
		s.NotEmpty(tx.Movements())
	}
}

func (s *LedgerTestSuite) TestRemoveCategory_LedgerWide() {
	tx := s.register(1, 1, s.wallet, s.savings)
	other := s.register(2, 3, s.savings)
	s.True(tx.AddCategory(s.food))
	s.True(other.Movements()[0].AddCategory(s.food))

	s.True(s.ledger.RemoveCategory(s.food))
	s.False(s.ledger.RemoveCategory(s.food))

	s.False(tx.HasCategory(s.food))
	for _, m := range s.ledger.Movements() {
		s.False(m.HasCategory(s.food))
	}
	_, found := s.ledger.Category(s.food.ID())
	s.False(found)
}

func (s *LedgerTestSuite) TestRemoveTransaction() {
	tx := s.register(1, 1, s.wallet, s.savings)
	movements := tx.Movements()

	s.True(s.ledger.RemoveTransaction(tx))
	s.False(s.ledger.RemoveTransaction(tx))

	s.Empty(tx.Movements())
	s.Empty(s.wallet.Movements())
	s.Empty(s.savings.Movements())
	for _, m := range movements {
		s.True(m.IsDeleted())
	}
}

func (s *LedgerTestSuite) TestRemoveMovement() {
	tx := s.register(1, 1, s.wallet, s.savings)
	first := tx.Movements()[0]

	s.True(s.ledger.RemoveMovement(first))
	s.True(first.IsDeleted())
	s.Len(tx.Movements(), 1)
	_, found := s.ledger.Transaction(1)
	s.True(found)

	last := tx.Movements()[0]
	s.True(s.ledger.RemoveMovement(last))
	_, found = s.ledger.Transaction(1)
	s.False(found, "removing the last movement removes the transaction")

	s.False(s.ledger.RemoveMovement(last))
}

func (s *LedgerTestSuite) TestLookups() {
	tx := s.register(3, 7, s.savings)

	m, ok := s.ledger.Movement(7)
	s.True(ok)
	s.Equal(tx, m.Transaction())
	s.True(s.ledger.HasMovement(m))

	_, ok = s.ledger.Movement(8)
	s.False(ok)

	found := s.ledger.TransactionsWhere(func(t *domain.Transaction) bool { return t.ID() == 3 })
	s.Len(found, 1)
}

func (s *LedgerTestSuite) TestReadOnlyViews() {
	accounts := s.ledger.Accounts()
	accounts[0] = nil
	s.NotNil(s.ledger.Accounts()[0])
}

func TestLedger(t *testing.T) {
	suite.Run(t, new(LedgerTestSuite))
}

func TestDiscardMovement(t *testing.T) {
	a := newTestAccount(t, 1)
	tx := domain.NewTransaction(1)
	m, err := domain.NewMovement(1, domain.Credits, dec(1), pastDate(), "", tx, a)
	require.NoError(t, err)

	domain.DiscardMovement(m)
	assert.Empty(t, a.Movements())
	assert.Empty(t, tx.Movements())
	assert.True(t, m.IsDeleted())
}
