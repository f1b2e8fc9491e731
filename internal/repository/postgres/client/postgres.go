package client

import (
	"context"
	"errors"

	appdb "lawpages-go/internal/db"
	clientdomain "lawpages-go/internal/domain/client"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByID(ctx context.Context, ownerID, clientID string) (*clientdomain.Client, error) {
	var record clientdomain.Client
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, clientID).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, clientdomain.ErrClientNotFound
		}
		return nil, appdb.Classify(err)
	}
	return &record, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, ownerID, email string) (*clientdomain.Client, error) {
	var record clientdomain.Client
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND email = ?", ownerID, email).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, clientdomain.ErrClientNotFound
		}
		return nil, appdb.Classify(err)
	}
	return &record, nil
}

func (r *PostgresRepository) List(ctx context.Context, ownerID string) ([]clientdomain.Client, error) {
	var records []clientdomain.Client
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("name asc").
		Find(&records).Error; err != nil {
		return nil, appdb.Classify(err)
	}
	return records, nil
}

// Create relies on the (owner_id, email) unique index: a conflicting insert
// does nothing and reports inserted=false.
func (r *PostgresRepository) Create(ctx context.Context, record *clientdomain.Client) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "owner_id"}, {Name: "email"}},
			DoNothing: true,
		}).
		Create(record)
	if result.Error != nil {
		return false, appdb.Classify(result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, ownerID, clientID, status string) error {
	return appdb.Classify(r.db.WithContext(ctx).
		Model(&clientdomain.Client{}).
		Where("owner_id = ? AND id = ?", ownerID, clientID).
		Update("status", status).Error)
}

func (r *PostgresRepository) UpdateAggregates(ctx context.Context, clientID string, aggregates clientdomain.Aggregates) error {
	return appdb.Classify(r.db.WithContext(ctx).
		Model(&clientdomain.Client{}).
		Where("id = ?", clientID).
		Updates(map[string]interface{}{
			"total_appointments": aggregates.TotalAppointments,
			"total_spent":        aggregates.TotalSpent,
			"last_contact":       aggregates.LastContact,
		}).Error)
}

func (r *PostgresRepository) AggregatesFromAppointments(ctx context.Context, ownerID, email string) (clientdomain.Aggregates, error) {
	var result clientdomain.Aggregates

	if err := r.db.WithContext(ctx).
		Table("appointments").
		Select("COUNT(1) AS total_appointments").
		Where("owner_id = ? AND client_email = ? AND status <> 'cancelado'", ownerID, email).
		Scan(&result.TotalAppointments).Error; err != nil {
		return clientdomain.Aggregates{}, appdb.Classify(err)
	}

	if err := r.db.WithContext(ctx).
		Table("appointments").
		Select("COALESCE(SUM(final_price), 0)").
		Where("owner_id = ? AND client_email = ? AND status IN ?", ownerID, email,
			[]string{"pago", "confirmado", "finalizado"}).
		Scan(&result.TotalSpent).Error; err != nil {
		return clientdomain.Aggregates{}, appdb.Classify(err)
	}

	if err := r.db.WithContext(ctx).
		Table("appointments").
		Select("MAX(appointment_date)").
		Where("owner_id = ? AND client_email = ? AND status <> 'cancelado'", ownerID, email).
		Scan(&result.LastContact).Error; err != nil {
		return clientdomain.Aggregates{}, appdb.Classify(err)
	}

	return result, nil
}
