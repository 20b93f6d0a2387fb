package notificationrepo

import (
	"context"
	"errors"
	"time"

	"shiptrack/internal/core/domain/model/kernel"
	"shiptrack/internal/core/domain/model/notification"
	"shiptrack/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormNotificationRepository implements NotificationRepository using GORM.
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GORM notification repository.
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// Add persists a new pending notification row.
func (r *GormNotificationRepository) Add(ctx context.Context, log *notification.Log) error {
	if err := log.Validate(); err != nil {
		return err
	}

	dto := fromDomain(log)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Update persists the outcome of a delivery attempt.
func (r *GormNotificationRepository) Update(ctx context.Context, log *notification.Log) error {
	if err := log.Validate(); err != nil {
		return err
	}

	dto := fromDomain(log)
	result := r.db.WithContext(ctx).Model(&NotificationLogDTO{}).
		Where("id = ?", dto.ID).
		Select("*").Omit("id", "created_at").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("notification", log.ID().String())
	}

	return nil
}

// Get retrieves a row by ID.
func (r *GormNotificationRepository) Get(ctx context.Context, id kernel.UUID) (*notification.Log, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto NotificationLogDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("notification", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// ListStale returns pending or failed rows whose last change predates the
// cutoff and whose attempts stay below maxAttempts, oldest first.
func (r *GormNotificationRepository) ListStale(
	ctx context.Context, olderThan time.Time, maxAttempts int,
) ([]*notification.Log, error) {
	var dtos []NotificationLogDTO
	err := r.db.WithContext(ctx).
		Where("status IN ? AND updated_at < ? AND attempts < ?",
			[]int{int(notification.StatusPending), int(notification.StatusFailed)},
			olderThan, maxAttempts).
		Order("updated_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	logs := make([]*notification.Log, 0, len(dtos))
	for _, dto := range dtos {
		log, convErr := toDomain(dto)
		if convErr != nil {
			return nil, convErr
		}
		logs = append(logs, log)
	}

	return logs, nil
}
