package finance

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"lawpages-go/internal/domain/appointment"
	"lawpages-go/internal/domain/collaboration"
)

const DefaultAvailabilityDelay = 30 * 24 * time.Hour

type Config struct {
	// AvailabilityDelay is added to RecordedAt to compute when funds
	// become withdrawable (D+30 by default).
	AvailabilityDelay time.Duration
	SummaryCacheTTL   time.Duration
}

type Service struct {
	repo     Repository
	resolver *collaboration.Resolver
	cfg      Config
	cache    SummaryCache
	now      func() time.Time
}

func NewService(repo Repository, resolver *collaboration.Resolver, cfg Config) *Service {
	if cfg.AvailabilityDelay <= 0 {
		cfg.AvailabilityDelay = DefaultAvailabilityDelay
	}

	var cache SummaryCache = NoopSummaryCache{}
	if cfg.SummaryCacheTTL > 0 {
		cache = NewSummaryCache()
	}

	return &Service{
		repo:     repo,
		resolver: resolver,
		cfg:      cfg,
		cache:    cache,
		now:      time.Now,
	}
}

// Reconcile derives ledger entries from the owner's paid appointments. It
// is idempotent and safe under concurrent invocation: the ledger's
// uniqueness constraint on appointment id is the sole correctness
// mechanism, so a duplicate insert is counted as a skip, never a failure.
// A failed write for one appointment does not abort the rest of the batch.
func (s *Service) Reconcile(ctx context.Context, actorID, ownerID string) (ReconcileResult, error) {
	if err := s.requireOwnerFinancial(ctx, actorID, ownerID); err != nil {
		return ReconcileResult{}, err
	}

	candidates, err := s.repo.ListReconcilable(ctx, ownerID)
	if err != nil {
		return ReconcileResult{}, err
	}

	var result ReconcileResult
	recordedAt := s.now().UTC()

	for _, apt := range candidates {
		record := PaymentRecord{
			ID:            uuid.NewString(),
			AppointmentID: apt.ID,
			OwnerID:       apt.OwnerID,
			PageID:        apt.PageID,
			ClientID:      apt.ClientID,
			ClientEmail:   apt.ClientEmail,
			Amount:        apt.Amount,
			RecordedAt:    recordedAt,
			AvailableAt:   recordedAt.Add(s.cfg.AvailabilityDelay),
		}

		err := s.repo.CreateRecord(ctx, &record)
		switch {
		case err == nil:
			result.Migrated++
			s.cache.Delete(apt.PageID)
		case errors.Is(err, ErrDuplicateLedgerEntry):
			result.Skipped++
		default:
			result.Failed++
		}
	}

	return result, nil
}

// Summary aggregates a page's financials. Callers without the financial
// capability get an explicit denial, never a zeroed response.
func (s *Service) Summary(ctx context.Context, actorID, pageID string) (Summary, error) {
	access, err := s.resolver.Resolve(ctx, actorID, pageID)
	if err != nil {
		return Summary{}, err
	}
	if !access.CanViewFinancial() {
		return Summary{}, collaboration.Denied("financial")
	}

	now := s.now().UTC()
	if cached, ok := s.cache.Get(pageID, now); ok {
		return cached, nil
	}

	totalPaid, err := s.repo.SumAppointments(ctx, pageID, []string{
		string(appointment.StatusPaid),
		string(appointment.StatusConfirmed),
		string(appointment.StatusCompleted),
	})
	if err != nil {
		return Summary{}, err
	}

	pending, err := s.repo.SumAppointments(ctx, pageID, []string{
		string(appointment.StatusAwaitingPayment),
	})
	if err != nil {
		return Summary{}, err
	}

	confirmed, err := s.repo.SumAppointments(ctx, pageID, []string{
		string(appointment.StatusConfirmed),
	})
	if err != nil {
		return Summary{}, err
	}

	available, err := s.repo.AvailableBalance(ctx, pageID, now)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{
		TotalPaid:        totalPaid,
		PendingAmount:    pending,
		ConfirmedAmount:  confirmed,
		AvailableBalance: available,
	}

	if s.cfg.SummaryCacheTTL > 0 {
		s.cache.Set(pageID, summary, now.Add(s.cfg.SummaryCacheTTL))
	}

	return summary, nil
}

func (s *Service) ListRecords(ctx context.Context, actorID, ownerID string) ([]PaymentRecord, error) {
	if err := s.requireOwnerFinancial(ctx, actorID, ownerID); err != nil {
		return nil, err
	}
	return s.repo.ListRecords(ctx, ownerID)
}

func (s *Service) AvailableBalance(ctx context.Context, actorID, ownerID string) (float64, error) {
	if err := s.requireOwnerFinancial(ctx, actorID, ownerID); err != nil {
		return 0, err
	}
	return s.repo.AvailableBalanceByOwner(ctx, ownerID, s.now().UTC())
}

// LinkWithdrawal stamps records with the withdrawal they were paid out in.
// Only the owner moves money; already-linked records are rejected since the
// linkage is written once.
func (s *Service) LinkWithdrawal(ctx context.Context, actorID, withdrawalID string, recordIDs []string) error {
	if strings.TrimSpace(withdrawalID) == "" {
		return validationf("withdrawal id is required")
	}
	if len(recordIDs) == 0 {
		return validationf("at least one record id is required")
	}

	records, err := s.repo.GetRecordsByIDs(ctx, recordIDs)
	if err != nil {
		return err
	}
	if len(records) != len(recordIDs) {
		return ErrRecordNotFound
	}
	for _, record := range records {
		if record.OwnerID != actorID {
			return collaboration.Denied("financial")
		}
		if record.WithdrawalID != nil {
			return ErrAlreadyWithdrawn
		}
	}

	// The owner-scoped unlinked WHERE in the store is the guard against a
	// concurrent linkage racing the checks above.
	linked, err := s.repo.LinkWithdrawal(ctx, actorID, recordIDs, withdrawalID)
	if err != nil {
		return err
	}
	if linked != int64(len(recordIDs)) {
		return ErrAlreadyWithdrawn
	}
	return nil
}

// requireOwnerFinancial authorizes owner-scoped financial operations: the
// owner themselves, or a collaborator whose role grants financial view on
// at least one of the owner's pages. Everyone else is denied explicitly.
func (s *Service) requireOwnerFinancial(ctx context.Context, actorID, ownerID string) error {
	if actorID == "" {
		return collaboration.Denied("financial")
	}
	if actorID == ownerID {
		return nil
	}

	pages, err := s.resolver.FinancialPages(ctx, actorID)
	if err != nil {
		return err
	}
	for _, page := range pages {
		if page.OwnerID == ownerID {
			return nil
		}
	}

	return collaboration.Denied("financial")
}
