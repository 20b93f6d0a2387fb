package podrepo

import (
	"context"
	"errors"
	"fmt"

	"shiptrack/internal/core/domain/model/kernel"
	"shiptrack/internal/core/domain/model/pod"
	"shiptrack/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormPODRepository implements PODRepository using GORM.
type GormPODRepository struct {
	db *gorm.DB
}

// NewGormPODRepository creates a new GORM POD repository.
func NewGormPODRepository(db *gorm.DB) *GormPODRepository {
	return &GormPODRepository{db: db}
}

// Add persists a new record together with its photos. A collision with either
// uniqueness invariant surfaces as ErrDuplicateRecord so callers can resolve
// the replay instead of failing.
func (r *GormPODRepository) Add(ctx context.Context, record *pod.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}

	dto := fromDomain(record)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewDuplicateRecordErrorWithCause("podRecord", err)
		}
		return err
	}

	return nil
}

// FindByShipment returns the shipment's record, or (nil, nil) when none exists.
func (r *GormPODRepository) FindByShipment(
	ctx context.Context, shipmentID kernel.UUID,
) (*pod.Record, error) {
	if err := shipmentID.Validate(); err != nil {
		return nil, err
	}

	var dto PODRecordDTO
	err := r.db.WithContext(ctx).Preload("Photos").
		First(&dto, "shipment_id = ?", shipmentID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return toDomain(dto)
}

// FindByDeviceRecord returns the offline-synced record carrying the given
// idempotency key, or (nil, nil) when none exists.
func (r *GormPODRepository) FindByDeviceRecord(
	ctx context.Context, deviceUUID, localRecordID string,
) (*pod.Record, error) {
	if deviceUUID == "" || localRecordID == "" {
		return nil, errs.NewValueIsInvalidErrorWithCause("deviceRecord",
			fmt.Errorf("both device UUID and local record ID are required"))
	}

	var dto PODRecordDTO
	err := r.db.WithContext(ctx).Preload("Photos").
		First(&dto, "device_uuid = ? AND local_record_id = ?", deviceUUID, localRecordID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return toDomain(dto)
}
