package purchases

import (
	"strings"
	"time"

	"github.com/inkpost/inkpost/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository provides the DB operations used by the purchases service.
type Repository interface {
	CreateEventIfNew(event *models.PurchaseWebhookEvent) (bool, *models.PurchaseWebhookEvent, error)
	MarkEventProcessed(id uint, processingError string) error
	RecordEventError(id uint, processingError string) error
	FindUserBySubscriberID(subscriberID string) (*models.User, error)
	UpsertEntitlement(ent *models.Entitlement) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a purchases repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// CreateEventIfNew attempts an unconditional insert against the unique
// event_id index. A conflict is the dedup signal, not an error: the stored
// row is returned with created=false and the caller decides whether the
// event still needs processing.
func (r *gormRepository) CreateEventIfNew(event *models.PurchaseWebhookEvent) (bool, *models.PurchaseWebhookEvent, error) {
	tx := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}},
		DoNothing: true,
	}).Create(event)
	if tx.Error != nil {
		return false, nil, tx.Error
	}

	created := tx.RowsAffected > 0
	var stored models.PurchaseWebhookEvent
	if err := r.db.Where("event_id = ?", event.EventID).First(&stored).Error; err != nil {
		return false, nil, err
	}
	return created, &stored, nil
}

func (r *gormRepository) MarkEventProcessed(id uint, processingError string) error {
	now := time.Now()
	updates := map[string]interface{}{
		"processed_at":     &now,
		"processing_error": processingError,
	}
	return r.db.Model(&models.PurchaseWebhookEvent{}).Where("id = ?", id).Updates(updates).Error
}

// RecordEventError stores a failure note without marking the event
// processed, leaving it eligible for a full re-run on redelivery.
func (r *gormRepository) RecordEventError(id uint, processingError string) error {
	return r.db.Model(&models.PurchaseWebhookEvent{}).
		Where("id = ?", id).
		Update("processing_error", processingError).Error
}

// FindUserBySubscriberID resolves a provider subscriber id to a local
// user. The OR-match covers the legacy billing_user_id column older
// accounts were linked through.
func (r *gormRepository) FindUserBySubscriberID(subscriberID string) (*models.User, error) {
	id := strings.TrimSpace(subscriberID)
	if id == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var user models.User
	err := r.db.Where("app_user_id = ? OR billing_user_id = ?", id, id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpsertEntitlement overwrites the user's single entitlement row and
// projects the active flag onto users.is_pro in the same transaction, so
// the derived gate flag is never observable out of step with the
// entitlement row.
func (r *gormRepository) UpsertEntitlement(ent *models.Entitlement) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"subscriber_id",
				"active",
				"expires_at",
				"source",
				"last_event_id",
				"last_synced_at",
				"updated_at",
			}),
		}).Create(ent).Error; err != nil {
			return err
		}

		return tx.Model(&models.User{}).
			Where("id = ?", ent.UserID).
			Update("is_pro", ent.Active).Error
	})
}
