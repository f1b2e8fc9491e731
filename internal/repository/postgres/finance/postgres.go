package finance

import (
	"context"
	"errors"
	"strings"
	"time"

	appdb "lawpages-go/internal/db"
	fin "lawpages-go/internal/domain/finance"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListReconcilable(ctx context.Context, ownerID string) ([]fin.ReconcilableAppointment, error) {
	var rows []fin.ReconcilableAppointment
	if err := r.db.WithContext(ctx).
		Table("appointments").
		Select("id, page_id, owner_id, client_id, client_email, final_price AS amount").
		Where("owner_id = ? AND status IN ? AND final_price > 0", ownerID,
			[]string{"pago", "confirmado", "finalizado"}).
		Scan(&rows).Error; err != nil {
		return nil, appdb.Classify(err)
	}
	return rows, nil
}

// CreateRecord leans on the unique index over appointment_id: the insert is
// ON CONFLICT DO NOTHING, and a zero-row outcome (or a raced unique
// violation) surfaces as ErrDuplicateLedgerEntry for the engine to count as
// a skip.
func (r *PostgresRepository) CreateRecord(ctx context.Context, record *fin.PaymentRecord) error {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "appointment_id"}},
			DoNothing: true,
		}).
		Create(record)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return fin.ErrDuplicateLedgerEntry
		}
		return appdb.Classify(result.Error)
	}
	if result.RowsAffected == 0 {
		return fin.ErrDuplicateLedgerEntry
	}
	return nil
}

func (r *PostgresRepository) ListRecords(ctx context.Context, ownerID string) ([]fin.PaymentRecord, error) {
	var records []fin.PaymentRecord
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("recorded_at desc").
		Find(&records).Error; err != nil {
		return nil, appdb.Classify(err)
	}
	return records, nil
}

func (r *PostgresRepository) GetRecordsByIDs(ctx context.Context, recordIDs []string) ([]fin.PaymentRecord, error) {
	var records []fin.PaymentRecord
	if err := r.db.WithContext(ctx).
		Where("id IN ?", recordIDs).
		Find(&records).Error; err != nil {
		return nil, appdb.Classify(err)
	}
	return records, nil
}

func (r *PostgresRepository) SumAppointments(ctx context.Context, pageID string, statuses []string) (float64, error) {
	var total float64
	if err := r.db.WithContext(ctx).
		Table("appointments").
		Select("COALESCE(SUM(final_price), 0)").
		Where("page_id = ? AND status IN ?", pageID, statuses).
		Scan(&total).Error; err != nil {
		return 0, appdb.Classify(err)
	}
	return total, nil
}

func (r *PostgresRepository) AvailableBalance(ctx context.Context, pageID string, asOf time.Time) (float64, error) {
	var total float64
	if err := r.db.WithContext(ctx).
		Table("payment_records").
		Select("COALESCE(SUM(amount), 0)").
		Where("page_id = ? AND available_at <= ? AND withdrawal_id IS NULL", pageID, asOf).
		Scan(&total).Error; err != nil {
		return 0, appdb.Classify(err)
	}
	return total, nil
}

func (r *PostgresRepository) AvailableBalanceByOwner(ctx context.Context, ownerID string, asOf time.Time) (float64, error) {
	var total float64
	if err := r.db.WithContext(ctx).
		Table("payment_records").
		Select("COALESCE(SUM(amount), 0)").
		Where("owner_id = ? AND available_at <= ? AND withdrawal_id IS NULL", ownerID, asOf).
		Scan(&total).Error; err != nil {
		return 0, appdb.Classify(err)
	}
	return total, nil
}

func (r *PostgresRepository) LinkWithdrawal(ctx context.Context, ownerID string, recordIDs []string, withdrawalID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&fin.PaymentRecord{}).
		Where("owner_id = ? AND id IN ? AND withdrawal_id IS NULL", ownerID, recordIDs).
		Update("withdrawal_id", withdrawalID)
	if result.Error != nil {
		return 0, appdb.Classify(result.Error)
	}
	return result.RowsAffected, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "duplicate key") || strings.Contains(message, "unique constraint")
}
