package appointment

import (
	"context"
	"errors"
	"time"

	appdb "lawpages-go/internal/db"
	aptdomain "lawpages-go/internal/domain/appointment"
	pagedomain "lawpages-go/internal/domain/page"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByID(ctx context.Context, appointmentID string) (*aptdomain.Appointment, error) {
	var apt aptdomain.Appointment
	if err := r.db.WithContext(ctx).Where("id = ?", appointmentID).First(&apt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, aptdomain.ErrAppointmentNotFound
		}
		return nil, appdb.Classify(err)
	}
	return &apt, nil
}

func (r *PostgresRepository) List(ctx context.Context, pageID string, filter aptdomain.ListFilter) ([]aptdomain.Appointment, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&aptdomain.Appointment{}).
		Where("page_id = ?", pageID)

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.From != nil {
		query = query.Where("appointment_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("appointment_date <= ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, appdb.Classify(err)
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var appointments []aptdomain.Appointment
	if err := query.Order("appointment_date desc").Find(&appointments).Error; err != nil {
		return nil, 0, appdb.Classify(err)
	}

	return appointments, total, nil
}

func (r *PostgresRepository) Create(ctx context.Context, apt *aptdomain.Appointment) error {
	return appdb.Classify(r.db.WithContext(ctx).Create(apt).Error)
}

// UpdateStatus is the compare-and-set write behind every transition: the
// WHERE clause pins the status that was read, so a concurrent advance makes
// this a zero-row update instead of a lost update.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, appointmentID string, from aptdomain.Status, change aptdomain.StatusChange) (bool, error) {
	updates := map[string]interface{}{
		"status":     change.To,
		"updated_at": time.Now().UTC(),
	}
	if change.FinalPrice != nil {
		updates["final_price"] = *change.FinalPrice
	}
	if change.VideoCallLink != nil {
		updates["video_call_link"] = *change.VideoCallLink
	}
	if change.TransactionID != nil {
		updates["transaction_id"] = *change.TransactionID
	}
	if change.CancelReason != nil {
		updates["cancel_reason"] = *change.CancelReason
	}
	if change.PaidAt != nil {
		updates["paid_at"] = *change.PaidAt
	}
	if change.ConfirmedAt != nil {
		updates["confirmed_at"] = *change.ConfirmedAt
	}

	result := r.db.WithContext(ctx).
		Model(&aptdomain.Appointment{}).
		Where("id = ? AND status = ?", appointmentID, from).
		Updates(updates)
	if result.Error != nil {
		return false, appdb.Classify(result.Error)
	}

	return result.RowsAffected > 0, nil
}

func (r *PostgresRepository) GetPageOwner(ctx context.Context, pageID string) (string, error) {
	var page pagedomain.Page
	if err := r.db.WithContext(ctx).
		Select("id", "owner_id", "active").
		Where("id = ?", pageID).
		First(&page).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", pagedomain.ErrPageNotFound
		}
		return "", appdb.Classify(err)
	}
	if !page.Active {
		return "", pagedomain.ErrPageNotFound
	}
	return page.OwnerID, nil
}

func (r *PostgresRepository) SetClientID(ctx context.Context, appointmentID, clientID string) error {
	return appdb.Classify(r.db.WithContext(ctx).
		Model(&aptdomain.Appointment{}).
		Where("id = ?", appointmentID).
		Update("client_id", clientID).Error)
}
