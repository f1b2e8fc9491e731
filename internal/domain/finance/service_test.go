package finance

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"lawpages-go/internal/domain/collaboration"
)

const (
	ownerID    = "11111111-1111-1111-1111-111111111111"
	pageID     = "22222222-2222-2222-2222-222222222222"
	internID   = "33333333-3333-3333-3333-333333333333"
	financeID  = "44444444-4444-4444-4444-444444444444"
	strangerID = "55555555-5555-5555-5555-555555555555"
)

type fakeAccessRepo struct {
	pages map[string]*collaboration.PageRef
	roles map[string]collaboration.Role
}

func newFakeAccessRepo() *fakeAccessRepo {
	return &fakeAccessRepo{
		pages: map[string]*collaboration.PageRef{
			pageID: {ID: pageID, OwnerID: ownerID, Name: "Silva Advocacia", Active: true},
		},
		roles: map[string]collaboration.Role{
			internID:  collaboration.RoleIntern,
			financeID: collaboration.RoleFinancial,
		},
	}
}

func (r *fakeAccessRepo) GetPage(ctx context.Context, id string) (*collaboration.PageRef, error) {
	return r.pages[id], nil
}

func (r *fakeAccessRepo) Get(ctx context.Context, pageID, collaboratorID string) (*collaboration.Collaboration, error) {
	role, ok := r.roles[collaboratorID]
	if !ok {
		return nil, collaboration.ErrCollaborationNotFound
	}
	return &collaboration.Collaboration{PageID: pageID, CollaboratorID: collaboratorID, Role: role}, nil
}

func (r *fakeAccessRepo) GetByID(ctx context.Context, collaborationID string) (*collaboration.Collaboration, error) {
	return nil, collaboration.ErrCollaborationNotFound
}

func (r *fakeAccessRepo) ListByPage(ctx context.Context, pageID string) ([]collaboration.Collaboration, error) {
	return nil, nil
}

func (r *fakeAccessRepo) ListByCollaborator(ctx context.Context, collaboratorID string) ([]collaboration.Collaboration, error) {
	return nil, nil
}

func (r *fakeAccessRepo) Create(ctx context.Context, collab *collaboration.Collaboration) error {
	return nil
}

func (r *fakeAccessRepo) UpdateRole(ctx context.Context, collaborationID string, role collaboration.Role) error {
	return nil
}

func (r *fakeAccessRepo) Delete(ctx context.Context, collaborationID string) error {
	return nil
}

func (r *fakeAccessRepo) ListOwnedPages(ctx context.Context, id string) ([]collaboration.PageRef, error) {
	result := make([]collaboration.PageRef, 0)
	for _, page := range r.pages {
		if page.OwnerID == id {
			result = append(result, *page)
		}
	}
	return result, nil
}

func (r *fakeAccessRepo) ListPagesByCollaboratorRoles(ctx context.Context, collaboratorID string, roles []collaboration.Role) ([]collaboration.PageRef, error) {
	role, ok := r.roles[collaboratorID]
	if !ok {
		return nil, nil
	}
	for _, candidate := range roles {
		if role == candidate {
			refs := make([]collaboration.PageRef, 0, len(r.pages))
			for _, page := range r.pages {
				refs = append(refs, *page)
			}
			return refs, nil
		}
	}
	return nil, nil
}

type fakeFinanceRepo struct {
	mu         sync.Mutex
	candidates []ReconcilableAppointment
	records    map[string]*PaymentRecord
	// failing lists appointment ids whose insert errors out.
	failing map[string]bool
	sums    map[string]float64
	balance float64
}

func newFakeFinanceRepo() *fakeFinanceRepo {
	return &fakeFinanceRepo{
		records: make(map[string]*PaymentRecord),
		failing: make(map[string]bool),
		sums:    make(map[string]float64),
	}
}

func (r *fakeFinanceRepo) ListReconcilable(ctx context.Context, ownerID string) ([]ReconcilableAppointment, error) {
	items := make([]ReconcilableAppointment, 0)
	for _, apt := range r.candidates {
		if apt.OwnerID == ownerID {
			items = append(items, apt)
		}
	}
	return items, nil
}

func (r *fakeFinanceRepo) CreateRecord(ctx context.Context, record *PaymentRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failing[record.AppointmentID] {
		return errors.New("insert failed")
	}
	for _, existing := range r.records {
		if existing.AppointmentID == record.AppointmentID {
			return ErrDuplicateLedgerEntry
		}
	}
	copied := *record
	r.records[record.ID] = &copied
	return nil
}

func (r *fakeFinanceRepo) GetRecordsByIDs(ctx context.Context, recordIDs []string) ([]PaymentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := make([]PaymentRecord, 0, len(recordIDs))
	for _, id := range recordIDs {
		if record, ok := r.records[id]; ok {
			items = append(items, *record)
		}
	}
	return items, nil
}

func (r *fakeFinanceRepo) ListRecords(ctx context.Context, ownerID string) ([]PaymentRecord, error) {
	items := make([]PaymentRecord, 0)
	for _, record := range r.records {
		if record.OwnerID == ownerID {
			items = append(items, *record)
		}
	}
	return items, nil
}

func (r *fakeFinanceRepo) SumAppointments(ctx context.Context, pageID string, statuses []string) (float64, error) {
	return r.sums[strings.Join(statuses, ",")], nil
}

func (r *fakeFinanceRepo) AvailableBalance(ctx context.Context, pageID string, asOf time.Time) (float64, error) {
	return r.balance, nil
}

func (r *fakeFinanceRepo) AvailableBalanceByOwner(ctx context.Context, ownerID string, asOf time.Time) (float64, error) {
	return r.balance, nil
}

func (r *fakeFinanceRepo) LinkWithdrawal(ctx context.Context, ownerID string, recordIDs []string, withdrawalID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var linked int64
	for _, id := range recordIDs {
		record, ok := r.records[id]
		if !ok || record.OwnerID != ownerID || record.WithdrawalID != nil {
			continue
		}
		value := withdrawalID
		record.WithdrawalID = &value
		linked++
	}
	return linked, nil
}

func paidCandidate(id string, amount float64) ReconcilableAppointment {
	return ReconcilableAppointment{
		ID:          id,
		PageID:      pageID,
		OwnerID:     ownerID,
		ClientEmail: "maria@example.com",
		Amount:      amount,
	}
}

func newTestService(repo *fakeFinanceRepo, cfg Config) *Service {
	return NewService(repo, collaboration.NewResolver(newFakeAccessRepo()), cfg)
}

func TestReconcileCreatesLedgerEntries(t *testing.T) {
	repo := newFakeFinanceRepo()
	repo.candidates = []ReconcilableAppointment{paidCandidate("apt-1", 150.00)}
	svc := newTestService(repo, Config{AvailabilityDelay: 720 * time.Hour})

	result, err := svc.Reconcile(context.Background(), ownerID, ownerID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Migrated != 1 || result.Skipped != 0 || result.Failed != 0 {
		t.Fatalf("unexpected result %+v", result)
	}
	if len(repo.records) != 1 {
		t.Fatalf("expected 1 ledger entry, got %d", len(repo.records))
	}
	for _, record := range repo.records {
		if record.Amount != 150.00 {
			t.Fatalf("expected amount 150.00, got %v", record.Amount)
		}
		if got := record.AvailableAt.Sub(record.RecordedAt); got != 720*time.Hour {
			t.Fatalf("expected D+30 availability, got %v", got)
		}
	}
}

func TestReconcileIsIdempotent(t *testing.T) {
	repo := newFakeFinanceRepo()
	repo.candidates = []ReconcilableAppointment{
		paidCandidate("apt-1", 150.00),
		paidCandidate("apt-2", 300.00),
	}
	svc := newTestService(repo, Config{})

	first, err := svc.Reconcile(context.Background(), ownerID, ownerID)
	if err != nil {
		t.Fatalf("first sweep: %v", err)
	}
	if first.Migrated != 2 {
		t.Fatalf("expected 2 migrated, got %+v", first)
	}

	second, err := svc.Reconcile(context.Background(), ownerID, ownerID)
	if err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if second.Migrated != 0 || second.Skipped != 2 || second.Failed != 0 {
		t.Fatalf("expected pure skips on rerun, got %+v", second)
	}
	if len(repo.records) != 2 {
		t.Fatalf("rerun duplicated ledger entries: %d", len(repo.records))
	}
}

func TestReconcileConcurrentRunsWriteOneEntry(t *testing.T) {
	repo := newFakeFinanceRepo()
	repo.candidates = []ReconcilableAppointment{paidCandidate("apt-1", 150.00)}
	svc := newTestService(repo, Config{})

	const sweeps = 8
	results := make(chan ReconcileResult, sweeps)
	errs := make(chan error, sweeps)

	var wg sync.WaitGroup
	for i := 0; i < sweeps; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := svc.Reconcile(context.Background(), ownerID, ownerID)
			results <- result
			errs <- err
		}()
	}
	wg.Wait()
	close(results)
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent sweep failed: %v", err)
		}
	}

	var total ReconcileResult
	for result := range results {
		total.Migrated += result.Migrated
		total.Skipped += result.Skipped
		total.Failed += result.Failed
	}
	if total.Migrated != 1 {
		t.Fatalf("expected exactly 1 migration across sweeps, got %+v", total)
	}
	if total.Skipped != sweeps-1 || total.Failed != 0 {
		t.Fatalf("expected the losing sweeps to skip, got %+v", total)
	}
	if len(repo.records) != 1 {
		t.Fatalf("expected 1 ledger entry, got %d", len(repo.records))
	}
}

func TestReconcileFailureDoesNotAbortBatch(t *testing.T) {
	repo := newFakeFinanceRepo()
	repo.candidates = []ReconcilableAppointment{
		paidCandidate("apt-1", 150.00),
		paidCandidate("apt-2", 300.00),
		paidCandidate("apt-3", 450.00),
	}
	repo.failing["apt-2"] = true
	svc := newTestService(repo, Config{})

	result, err := svc.Reconcile(context.Background(), ownerID, ownerID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Migrated != 2 || result.Failed != 1 {
		t.Fatalf("expected 2 migrated 1 failed, got %+v", result)
	}
}

func TestReconcileAuthorization(t *testing.T) {
	repo := newFakeFinanceRepo()
	repo.candidates = []ReconcilableAppointment{paidCandidate("apt-1", 150.00)}
	svc := newTestService(repo, Config{})

	if _, err := svc.Reconcile(context.Background(), internID, ownerID); !errors.Is(err, collaboration.ErrPermissionDenied) {
		t.Fatalf("expected denial for intern, got %v", err)
	}
	if _, err := svc.Reconcile(context.Background(), strangerID, ownerID); !errors.Is(err, collaboration.ErrPermissionDenied) {
		t.Fatalf("expected denial for outsider, got %v", err)
	}
	if _, err := svc.Reconcile(context.Background(), financeID, ownerID); err != nil {
		t.Fatalf("expected financial collaborator to reconcile, got %v", err)
	}
}

func TestSummaryDeniedWithoutFinancialPermission(t *testing.T) {
	svc := newTestService(newFakeFinanceRepo(), Config{})

	_, err := svc.Summary(context.Background(), internID, pageID)
	if !errors.Is(err, collaboration.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}

	var permissionErr *collaboration.PermissionError
	if !errors.As(err, &permissionErr) || permissionErr.Capability != "financial" {
		t.Fatalf("expected financial capability in denial, got %v", err)
	}
}

func TestSummaryAggregates(t *testing.T) {
	repo := newFakeFinanceRepo()
	repo.sums["pago,confirmado,finalizado"] = 600.00
	repo.sums["aguardando_pagamento"] = 150.00
	repo.sums["confirmado"] = 300.00
	repo.balance = 450.00
	svc := newTestService(repo, Config{})

	summary, err := svc.Summary(context.Background(), ownerID, pageID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if summary.TotalPaid != 600.00 || summary.PendingAmount != 150.00 || summary.ConfirmedAmount != 300.00 || summary.AvailableBalance != 450.00 {
		t.Fatalf("unexpected summary %+v", summary)
	}
}

func TestSummaryCaching(t *testing.T) {
	repo := newFakeFinanceRepo()
	repo.sums["pago,confirmado,finalizado"] = 600.00
	svc := newTestService(repo, Config{SummaryCacheTTL: time.Minute})

	first, err := svc.Summary(context.Background(), ownerID, pageID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	repo.sums["pago,confirmado,finalizado"] = 999.00
	second, err := svc.Summary(context.Background(), ownerID, pageID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if second.TotalPaid != first.TotalPaid {
		t.Fatalf("expected cached summary, got %+v", second)
	}
}

func TestLinkWithdrawalRejectsPartialMatch(t *testing.T) {
	repo := newFakeFinanceRepo()
	withdrawn := "w-000"
	repo.records["rec-1"] = &PaymentRecord{ID: "rec-1", AppointmentID: "apt-1", OwnerID: ownerID}
	repo.records["rec-2"] = &PaymentRecord{ID: "rec-2", AppointmentID: "apt-2", OwnerID: ownerID, WithdrawalID: &withdrawn}
	svc := newTestService(repo, Config{})

	err := svc.LinkWithdrawal(context.Background(), ownerID, "w-001", []string{"rec-1", "rec-2"})
	if !errors.Is(err, ErrAlreadyWithdrawn) {
		t.Fatalf("expected ErrAlreadyWithdrawn, got %v", err)
	}
}

func TestLinkWithdrawalStampsRecords(t *testing.T) {
	repo := newFakeFinanceRepo()
	repo.records["rec-1"] = &PaymentRecord{ID: "rec-1", AppointmentID: "apt-1", OwnerID: ownerID}
	svc := newTestService(repo, Config{})

	if err := svc.LinkWithdrawal(context.Background(), ownerID, "w-001", []string{"rec-1"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if repo.records["rec-1"].WithdrawalID == nil || *repo.records["rec-1"].WithdrawalID != "w-001" {
		t.Fatalf("withdrawal linkage not stored")
	}
}

func TestLinkWithdrawalValidatesInput(t *testing.T) {
	svc := newTestService(newFakeFinanceRepo(), Config{})

	if err := svc.LinkWithdrawal(context.Background(), ownerID, "", []string{"rec-1"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for empty withdrawal id, got %v", err)
	}
	if err := svc.LinkWithdrawal(context.Background(), ownerID, "w-001", nil); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for empty record ids, got %v", err)
	}
}

func TestLinkWithdrawalUnknownRecord(t *testing.T) {
	svc := newTestService(newFakeFinanceRepo(), Config{})

	err := svc.LinkWithdrawal(context.Background(), ownerID, "w-001", []string{"rec-missing"})
	if !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestLinkWithdrawalDeniedForNonOwner(t *testing.T) {
	repo := newFakeFinanceRepo()
	repo.records["rec-1"] = &PaymentRecord{ID: "rec-1", AppointmentID: "apt-1", OwnerID: ownerID}
	svc := newTestService(repo, Config{})

	// Even the financial collaborator cannot move the owner's money.
	err := svc.LinkWithdrawal(context.Background(), financeID, "w-001", []string{"rec-1"})
	if !errors.Is(err, collaboration.ErrPermissionDenied) {
		t.Fatalf("expected denial for non-owner, got %v", err)
	}

	var permissionErr *collaboration.PermissionError
	if !errors.As(err, &permissionErr) || permissionErr.Capability != "financial" {
		t.Fatalf("expected financial capability in denial, got %v", err)
	}
	if repo.records["rec-1"].WithdrawalID != nil {
		t.Fatalf("linkage written despite denial")
	}
}

func TestAvailableBalanceOwnerScoped(t *testing.T) {
	repo := newFakeFinanceRepo()
	repo.balance = 450.00
	svc := newTestService(repo, Config{})

	if _, err := svc.AvailableBalance(context.Background(), strangerID, ownerID); !errors.Is(err, collaboration.ErrPermissionDenied) {
		t.Fatalf("expected denial for outsider, got %v", err)
	}

	balance, err := svc.AvailableBalance(context.Background(), ownerID, ownerID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if balance != 450.00 {
		t.Fatalf("expected 450.00, got %v", balance)
	}
}
