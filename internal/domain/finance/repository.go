package finance

import (
	"context"
	"time"
)

type Repository interface {
	// ListReconcilable selects the owner's appointments with a paid status
	// and a positive final price.
	ListReconcilable(ctx context.Context, ownerID string) ([]ReconcilableAppointment, error)
	// CreateRecord inserts a ledger row; when the appointment already has
	// one it returns ErrDuplicateLedgerEntry and writes nothing.
	CreateRecord(ctx context.Context, record *PaymentRecord) error
	ListRecords(ctx context.Context, ownerID string) ([]PaymentRecord, error)
	// GetRecordsByIDs fetches the given records regardless of owner, so the
	// service can resolve ownership explicitly.
	GetRecordsByIDs(ctx context.Context, recordIDs []string) ([]PaymentRecord, error)
	// SumAppointments totals finalPrice over the page's appointments in
	// the given statuses.
	SumAppointments(ctx context.Context, pageID string, statuses []string) (float64, error)
	// AvailableBalance sums ledger rows for the page that have matured
	// (availableAt <= asOf) and are not linked to a withdrawal.
	AvailableBalance(ctx context.Context, pageID string, asOf time.Time) (float64, error)
	// AvailableBalanceByOwner is the same sum across all the owner's pages.
	AvailableBalanceByOwner(ctx context.Context, ownerID string, asOf time.Time) (float64, error)
	// LinkWithdrawal sets the withdrawal linkage on the owner's unlinked
	// records, returning how many rows it updated.
	LinkWithdrawal(ctx context.Context, ownerID string, recordIDs []string, withdrawalID string) (int64, error)
}
