package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/money_ledger/internal/adapters/filestore"
	portsrepo "github.com/SscSPs/money_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/money_ledger/internal/core/ports/services"
	"github.com/SscSPs/money_ledger/internal/core/services"
	"github.com/SscSPs/money_ledger/internal/dto"
	"github.com/SscSPs/money_ledger/internal/handlers"
	"github.com/SscSPs/money_ledger/internal/middleware"
	"github.com/SscSPs/money_ledger/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

const (
	pastDate   = "2020-03-01"
	futureDate = "2999-01-01"
)

type LedgerAPITestSuite struct {
	suite.Suite
	router    *gin.Engine
	container *portssvc.ServiceContainer
	dataDir   string
	jwtSecret string
}

func TestLedgerAPI(t *testing.T) {
	suite.Run(t, new(LedgerAPITestSuite))
}

// generateTestToken creates a signed JWT for the given subject.
func (suite *LedgerAPITestSuite) generateTestToken(subject string) string {
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(suite.jwtSecret))
	suite.Require().NoError(err)
	return signed
}

func (suite *LedgerAPITestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.dataDir = suite.T().TempDir()

	suite.container = services.NewServiceContainer(portsrepo.RepositoryProvider{
		SnapshotRepo: filestore.NewTxtStore(suite.dataDir),
	})
	cfg := &config.Config{JWTSecret: suite.jwtSecret, IsProduction: true}

	suite.router = gin.New()
	suite.router.Use(middleware.StructuredLoggingMiddleware(slog.New(slog.DiscardHandler)))
	suite.Require().NoError(handlers.RegisterRoutes(suite.router, cfg, suite.container, &sync.RWMutex{}))
}

func (suite *LedgerAPITestSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, "/api/v1"+path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken("tester"))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *LedgerAPITestSuite) decode(w *httptest.ResponseRecorder, into any) {
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), into), w.Body.String())
}

func (suite *LedgerAPITestSuite) createAccount(name, accountType string) int {
	w := suite.do(http.MethodPost, "/accounts", gin.H{"name": name, "accountType": accountType})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var res dto.AccountResponse
	suite.decode(w, &res)
	return res.AccountID
}

func (suite *LedgerAPITestSuite) createCategory(name string) int {
	w := suite.do(http.MethodPost, "/categories", gin.H{"name": name})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var res dto.CategoryResponse
	suite.decode(w, &res)
	return res.CategoryID
}

func (suite *LedgerAPITestSuite) openTransaction(accountID int, movementType, amount, date string) dto.TransactionResponse {
	w := suite.do(http.MethodPost, "/transactions", gin.H{
		"accountID": accountID, "movementType": movementType, "amount": amount, "date": date,
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var res dto.TransactionResponse
	suite.decode(w, &res)
	return res
}

func (suite *LedgerAPITestSuite) TestHealthIsPublic() {
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *LedgerAPITestSuite) TestRequiresToken() {
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil))
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *LedgerAPITestSuite) TestCheckingBalance() {
	checking := suite.createAccount("Checking", "ASSETS")
	suite.openTransaction(checking, "CREDITS", "10", pastDate)
	suite.openTransaction(checking, "DEBITS", "100", pastDate)
	suite.openTransaction(checking, "DEBITS", "50", futureDate)

	w := suite.do(http.MethodGet, fmt.Sprintf("/accounts/%d/balance", checking), nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var balance dto.AccountBalanceResponse
	suite.decode(w, &balance)
	suite.True(decimal.NewFromInt(-90).Equal(balance.Balance), "got %s", balance.Balance)

	w = suite.do(http.MethodGet, fmt.Sprintf("/accounts/%d/balance?asOf=%s", checking, futureDate), nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.decode(w, &balance)
	suite.True(decimal.NewFromInt(-140).Equal(balance.Balance), "got %s", balance.Balance)
	suite.Equal(futureDate, balance.AsOf)
}

func (suite *LedgerAPITestSuite) TestCreateAccountErrors() {
	tests := []struct {
		name   string
		body   gin.H
		status int
	}{
		{name: "missing name", body: gin.H{"accountType": "ASSETS"}, status: http.StatusBadRequest},
		{name: "unknown type", body: gin.H{"name": "X", "accountType": "EQUITY"}, status: http.StatusBadRequest},
		{name: "separator in name", body: gin.H{"name": "a;b", "accountType": "ASSETS"}, status: http.StatusBadRequest},
		{name: "explicit id", body: gin.H{"id": 7, "name": "Seven", "accountType": "ASSETS"}, status: http.StatusCreated},
		{name: "duplicate id", body: gin.H{"id": 7, "name": "Again", "accountType": "ASSETS"}, status: http.StatusConflict},
	}
	for _, tt := range tests {
		w := suite.do(http.MethodPost, "/accounts", tt.body)
		suite.Equal(tt.status, w.Code, "%s: %s", tt.name, w.Body.String())
	}
}

func (suite *LedgerAPITestSuite) TestMovementValidation() {
	account := suite.createAccount("Wallet", "ASSETS")
	tests := []struct {
		name   string
		body   gin.H
		status int
	}{
		{name: "negative amount", body: gin.H{"accountID": account, "movementType": "DEBITS", "amount": "-1", "date": pastDate}, status: http.StatusBadRequest},
		{name: "bad date", body: gin.H{"accountID": account, "movementType": "DEBITS", "amount": "1", "date": "01/02/2020"}, status: http.StatusBadRequest},
		{name: "bad type", body: gin.H{"accountID": account, "movementType": "SIDEWAYS", "amount": "1", "date": pastDate}, status: http.StatusBadRequest},
		{name: "unknown account", body: gin.H{"accountID": account + 100, "movementType": "DEBITS", "amount": "1", "date": pastDate}, status: http.StatusNotFound},
	}
	for _, tt := range tests {
		w := suite.do(http.MethodPost, "/transactions", tt.body)
		suite.Equal(tt.status, w.Code, "%s: %s", tt.name, w.Body.String())
	}
	suite.Empty(suite.container.Ledger.ListTransactions(suite.T().Context()), "rejected movements leave no transaction behind")
}

func (suite *LedgerAPITestSuite) TestTransactionLifecycle() {
	cash := suite.createAccount("Cash", "ASSETS")
	card := suite.createAccount("Card", "LIABILITIES")
	food := suite.createCategory("Food")

	tx := suite.openTransaction(cash, "DEBITS", "25.50", pastDate)
	w := suite.do(http.MethodPost, fmt.Sprintf("/transactions/%d/movements", tx.TransactionID), gin.H{
		"accountID": card, "movementType": "CREDITS", "amount": "25.50", "date": pastDate,
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w = suite.do(http.MethodPut, fmt.Sprintf("/transactions/%d/categories/%d", tx.TransactionID, food), nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var tagged dto.TransactionResponse
	suite.decode(w, &tagged)
	suite.Equal([]int{food}, tagged.CategoryIDs)
	suite.Require().Len(tagged.Movements, 2)
	for _, m := range tagged.Movements {
		suite.Equal([]int{food}, m.CategoryIDs, "tags propagate to movements")
	}

	movementID := tagged.Movements[0].MovementID
	w = suite.do(http.MethodPatch, fmt.Sprintf("/movements/%d", movementID), gin.H{"amount": "-3"})
	suite.Equal(http.StatusBadRequest, w.Code)
	w = suite.do(http.MethodPatch, fmt.Sprintf("/movements/%d", movementID), gin.H{"description": "lunch"})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = suite.do(http.MethodDelete, fmt.Sprintf("/movements/%d/categories/%d", movementID, food), nil)
	suite.Equal(http.StatusNoContent, w.Code)
	w = suite.do(http.MethodDelete, fmt.Sprintf("/movements/%d/categories/%d", movementID, food), nil)
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.do(http.MethodDelete, fmt.Sprintf("/accounts/%d", cash), nil)
	suite.Require().Equal(http.StatusNoContent, w.Code)
	w = suite.do(http.MethodGet, fmt.Sprintf("/movements/%d", movementID), nil)
	suite.Equal(http.StatusNotFound, w.Code, "account removal cascades to its movements")
	w = suite.do(http.MethodGet, fmt.Sprintf("/transactions/%d", tx.TransactionID), nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var remaining dto.TransactionResponse
	suite.decode(w, &remaining)
	suite.Len(remaining.Movements, 1)

	w = suite.do(http.MethodDelete, fmt.Sprintf("/movements/%d", remaining.Movements[0].MovementID), nil)
	suite.Require().Equal(http.StatusNoContent, w.Code)
	w = suite.do(http.MethodGet, fmt.Sprintf("/transactions/%d", tx.TransactionID), nil)
	suite.Equal(http.StatusNotFound, w.Code, "an emptied transaction is dropped")
}

func (suite *LedgerAPITestSuite) TestAccountMovementsPagination() {
	account := suite.createAccount("Wallet", "ASSETS")
	for _, date := range []string{"2021-01-03", "2021-01-01", "2021-01-02"} {
		suite.openTransaction(account, "CREDITS", "1", date)
	}

	w := suite.do(http.MethodGet, fmt.Sprintf("/accounts/%d/movements?limit=2", account), nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var page dto.ListMovementsResponse
	suite.decode(w, &page)
	suite.Require().Len(page.Movements, 2)
	suite.Equal("2021-01-01", page.Movements[0].Date)
	suite.Equal("2021-01-02", page.Movements[1].Date)
	suite.Require().NotNil(page.NextToken)

	w = suite.do(http.MethodGet, fmt.Sprintf("/accounts/%d/movements?limit=2&nextToken=%s", account, *page.NextToken), nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var next dto.ListMovementsResponse
	suite.decode(w, &next)
	suite.Require().Len(next.Movements, 1)
	suite.Equal("2021-01-03", next.Movements[0].Date)
	suite.Nil(next.NextToken)

	w = suite.do(http.MethodGet, fmt.Sprintf("/accounts/%d/movements?limit=0", account), nil)
	suite.Equal(http.StatusBadRequest, w.Code)
	w = suite.do(http.MethodGet, fmt.Sprintf("/accounts/%d/movements?nextToken=%%21%%21", account), nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *LedgerAPITestSuite) TestStatistics() {
	account := suite.createAccount("Checking", "ASSETS")
	catA := suite.createCategory("catA")
	catB := suite.createCategory("catB")
	tag := func(tx dto.TransactionResponse, categories ...int) {
		for _, c := range categories {
			w := suite.do(http.MethodPut, fmt.Sprintf("/movements/%d/categories/%d", tx.Movements[0].MovementID, c), nil)
			suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
		}
	}
	tag(suite.openTransaction(account, "CREDITS", "10", pastDate), catA)
	tag(suite.openTransaction(account, "CREDITS", "20", pastDate), catA)
	tag(suite.openTransaction(account, "CREDITS", "10", pastDate), catA, catB)

	w := suite.do(http.MethodGet, fmt.Sprintf("/accounts/%d/statistics/categories", account), nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var totals []dto.CategoryTotalResponse
	suite.decode(w, &totals)
	suite.Require().Len(totals, 2)
	suite.Equal(catA, totals[0].CategoryID)
	suite.True(decimal.NewFromInt(40).Equal(totals[0].Total))
	suite.True(decimal.NewFromInt(10).Equal(totals[1].Total))

	w = suite.do(http.MethodGet, fmt.Sprintf("/accounts/%d/statistics/max-credit", account), nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var maxCredit dto.MovementResponse
	suite.decode(w, &maxCredit)
	suite.True(decimal.NewFromInt(20).Equal(maxCredit.Amount))

	w = suite.do(http.MethodGet, fmt.Sprintf("/accounts/%d/statistics/min-debit", account), nil)
	suite.Equal(http.StatusNotFound, w.Code, "no debits")
	w = suite.do(http.MethodGet, fmt.Sprintf("/accounts/%d/statistics/median", account), nil)
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.do(http.MethodGet, fmt.Sprintf("/accounts/%d/statistics", account), nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var summary dto.AccountSummaryResponse
	suite.decode(w, &summary)
	suite.True(decimal.NewFromInt(40).Equal(summary.Balance))
	suite.NotNil(summary.MinCredit)
	suite.Nil(summary.MaxDebit)
}

func (suite *LedgerAPITestSuite) TestSnapshotRoundTrip() {
	account := suite.createAccount("Wallet", "ASSETS")
	suite.openTransaction(account, "CREDITS", "12.5", pastDate)

	w := suite.do(http.MethodPost, "/snapshot/export", nil)
	suite.Require().Equal(http.StatusNoContent, w.Code, w.Body.String())
	suite.FileExists(filepath.Join(suite.dataDir, filestore.MovementFile))

	w = suite.do(http.MethodDelete, fmt.Sprintf("/accounts/%d", account), nil)
	suite.Require().Equal(http.StatusNoContent, w.Code)

	w = suite.do(http.MethodPost, "/snapshot/import", nil)
	suite.Require().Equal(http.StatusNoContent, w.Code, w.Body.String())
	w = suite.do(http.MethodGet, fmt.Sprintf("/accounts/%d/balance", account), nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var balance dto.AccountBalanceResponse
	suite.decode(w, &balance)
	suite.True(decimal.RequireFromString("12.5").Equal(balance.Balance))
}

func (suite *LedgerAPITestSuite) TestSnapshotImportErrors() {
	w := suite.do(http.MethodPost, "/snapshot/import", nil)
	suite.Equal(http.StatusInternalServerError, w.Code, "missing files are an I/O failure")

	for name, content := range map[string]string{
		filestore.AccountFile:     "1;ASSETS;Wallet;;zero\n",
		filestore.CategoryFile:    "",
		filestore.MovementFile:    "",
		filestore.TransactionFile: "",
	} {
		suite.Require().NoError(os.WriteFile(filepath.Join(suite.dataDir, name), []byte(content), 0o644))
	}
	existing := suite.createAccount("Kept", "ASSETS")

	w = suite.do(http.MethodPost, "/snapshot/import", nil)
	suite.Equal(http.StatusUnprocessableEntity, w.Code, w.Body.String())
	w = suite.do(http.MethodGet, fmt.Sprintf("/accounts/%d", existing), nil)
	suite.Equal(http.StatusOK, w.Code, "a failed import keeps the current ledger")
}

func (suite *LedgerAPITestSuite) TestInvalidPathID() {
	w := suite.do(http.MethodGet, "/accounts/abc", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
	w = suite.do(http.MethodGet, "/categories/-1", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *LedgerAPITestSuite) TestZeroBasedLedgerIsReachable() {
	for name, content := range map[string]string{
		filestore.AccountFile:     "0;ASSETS;Checking;main;0.0\n",
		filestore.CategoryFile:    "0;groceries;Food\n",
		filestore.MovementFile:    "0;CREDITS;15.0;2020-01-01;salary;0;0;0-\n",
		filestore.TransactionFile: "0;0-\n",
	} {
		suite.Require().NoError(os.WriteFile(filepath.Join(suite.dataDir, name), []byte(content), 0o644))
	}
	w := suite.do(http.MethodPost, "/snapshot/import", nil)
	suite.Require().Equal(http.StatusNoContent, w.Code, w.Body.String())

	for _, path := range []string{"/accounts/0", "/categories/0", "/transactions/0", "/movements/0", "/accounts/0/statistics", "/accounts/0/balance"} {
		w = suite.do(http.MethodGet, path, nil)
		suite.Equal(http.StatusOK, w.Code, "%s: %s", path, w.Body.String())
	}

	w = suite.do(http.MethodPost, "/transactions/0/movements", gin.H{
		"accountID": 0, "movementType": "DEBITS", "amount": "5", "date": pastDate,
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var m dto.MovementResponse
	suite.decode(w, &m)
	suite.Equal(0, m.AccountID)
	suite.Equal(1, m.MovementID)

	w = suite.do(http.MethodPost, "/accounts", gin.H{"id": 0, "name": "Clash", "accountType": "ASSETS"})
	suite.Equal(http.StatusConflict, w.Code, "id 0 is a real id")

	w = suite.do(http.MethodDelete, "/transactions/0", nil)
	suite.Equal(http.StatusNoContent, w.Code)
	w = suite.do(http.MethodGet, "/movements/0", nil)
	suite.Equal(http.StatusNotFound, w.Code)
}
