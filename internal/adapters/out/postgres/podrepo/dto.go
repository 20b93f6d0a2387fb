// Package podrepo persists proof-of-delivery records and their photos. The
// table carries the two uniqueness invariants the dedup logic relies on: one
// record per shipment, and one record per (device UUID, local record ID) pair
// among offline-synced rows.
package podrepo

import (
	"time"

	"shiptrack/internal/core/domain/model/kernel"
	"shiptrack/internal/core/domain/model/pod"

	"github.com/google/uuid"
)

// PODRecordDTO represents the database structure for one proof of delivery.
// DeviceUUID and LocalRecordID stay NULL for live captures so the composite
// unique index only bites on offline rows.
type PODRecordDTO struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	ShipmentID        uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	DriverID          uuid.UUID `gorm:"type:uuid;index"`
	Result            int
	SignerName        string
	Notes             string
	RecordedAt        time.Time
	Latitude          *float64
	Longitude         *float64
	SignatureRef      string
	SyncedFromOffline bool
	DeviceUUID        *string `gorm:"size:64;uniqueIndex:idx_pod_device_record"`
	LocalRecordID     *string `gorm:"size:64;uniqueIndex:idx_pod_device_record"`
	CreatedAt         time.Time

	Photos []PODPhotoDTO `gorm:"foreignKey:RecordID;references:ID"`
}

// TableName specifies the database table name for POD records.
func (PODRecordDTO) TableName() string {
	return "pod_records"
}

// PODPhotoDTO represents one picture attached to a proof of delivery.
type PODPhotoDTO struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	RecordID uuid.UUID `gorm:"type:uuid;index"`
	ImageRef string
	Caption  string
	TakenAt  *time.Time
}

// TableName specifies the database table name for POD photos.
func (PODPhotoDTO) TableName() string {
	return "pod_photos"
}

// fromDomain converts a POD record to its database representation.
func fromDomain(record *pod.Record) PODRecordDTO {
	var latitude, longitude *float64
	if geo := record.Geo(); geo != nil {
		lat, lon := geo.Latitude(), geo.Longitude()
		latitude, longitude = &lat, &lon
	}

	var deviceUUID, localRecordID *string
	if record.SyncedFromOffline() {
		device, local := record.DeviceUUID(), record.LocalRecordID()
		deviceUUID, localRecordID = &device, &local
	}

	photos := make([]PODPhotoDTO, 0, len(record.Photos()))
	for _, photo := range record.Photos() {
		photos = append(photos, PODPhotoDTO{
			ID:       photo.ID.Bytes(),
			RecordID: record.ID().Bytes(),
			ImageRef: photo.ImageRef,
			Caption:  photo.Caption,
			TakenAt:  photo.TakenAt,
		})
	}

	return PODRecordDTO{
		ID:                record.ID().Bytes(),
		ShipmentID:        record.ShipmentID().Bytes(),
		DriverID:          record.DriverID().Bytes(),
		Result:            int(record.Result()),
		SignerName:        record.SignerName(),
		Notes:             record.Notes(),
		RecordedAt:        record.RecordedAt(),
		Latitude:          latitude,
		Longitude:         longitude,
		SignatureRef:      record.SignatureRef(),
		SyncedFromOffline: record.SyncedFromOffline(),
		DeviceUUID:        deviceUUID,
		LocalRecordID:     localRecordID,
		Photos:            photos,
	}
}

// toDomain converts a database row to a POD record.
func toDomain(dto PODRecordDTO) (*pod.Record, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	shipmentID, err := kernel.UUIDFromBytes(dto.ShipmentID[:])
	if err != nil {
		return nil, err
	}
	driverID, err := kernel.UUIDFromBytes(dto.DriverID[:])
	if err != nil {
		return nil, err
	}

	var geo *kernel.GeoPoint
	if dto.Latitude != nil && dto.Longitude != nil {
		point, geoErr := kernel.NewGeoPoint(*dto.Latitude, *dto.Longitude)
		if geoErr != nil {
			return nil, geoErr
		}
		geo = &point
	}

	var deviceUUID, localRecordID string
	if dto.DeviceUUID != nil {
		deviceUUID = *dto.DeviceUUID
	}
	if dto.LocalRecordID != nil {
		localRecordID = *dto.LocalRecordID
	}

	photos := make([]pod.Photo, 0, len(dto.Photos))
	for _, photoDTO := range dto.Photos {
		photoID, photoErr := kernel.UUIDFromBytes(photoDTO.ID[:])
		if photoErr != nil {
			return nil, photoErr
		}
		photos = append(photos, pod.Photo{
			ID:       photoID,
			ImageRef: photoDTO.ImageRef,
			Caption:  photoDTO.Caption,
			TakenAt:  photoDTO.TakenAt,
		})
	}

	return pod.RestoreRecord(pod.RestoreParams{
		ID:                id,
		ShipmentID:        shipmentID,
		DriverID:          driverID,
		Result:            pod.DeliveryResult(dto.Result),
		SignerName:        dto.SignerName,
		Notes:             dto.Notes,
		RecordedAt:        dto.RecordedAt,
		Geo:               geo,
		SignatureRef:      dto.SignatureRef,
		SyncedFromOffline: dto.SyncedFromOffline,
		DeviceUUID:        deviceUUID,
		LocalRecordID:     localRecordID,
		Photos:            photos,
	})
}
