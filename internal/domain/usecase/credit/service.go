package credit

import (
	"fmt"

	"github.com/google/uuid"

	coreport "github.com/jasper326-web/artisan-credits/internal/domain/port/core"
	"github.com/jasper326-web/artisan-credits/internal/domain/port/persistence"
	"github.com/jasper326-web/artisan-credits/internal/domain/port/usecase"
)

// Service implements the credit business logic: the recharge operation that
// pairs every ledger mutation with a transaction log entry, plus the
// read-only query surface.
type Service struct {
	accountRepo     persistence.AccountRepository
	transactionRepo persistence.TransactionRepository
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
	initialGrant    int64
	maxRetries      int
}

// NewCreditService creates a new credit service instance
func NewCreditService(
	accountRepo persistence.AccountRepository,
	transactionRepo persistence.TransactionRepository,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
	initialGrant int64,
	maxRetries int,
) usecase.CreditUseCase {
	return &Service{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		timeProvider:    timeProvider,
		logger:          logger,
		initialGrant:    initialGrant,
		maxRetries:      maxRetries,
	}
}

// newTransactionID generates a unique public transaction identifier
func newTransactionID() string {
	return fmt.Sprintf("txn_%s", uuid.NewString())
}
