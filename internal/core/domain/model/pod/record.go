package pod

import (
	"errors"
	"time"

	"shiptrack/internal/core/domain/model/kernel"
	"shiptrack/internal/pkg/errs"
)

// ErrRecordIsNotConstructed is returned when a Record instance was not
// created through NewRecord or RestoreRecord.
var ErrRecordIsNotConstructed = errors.New("Record must be created via NewRecord or RestoreRecord")

// Record is the proof of delivery captured by a courier, possibly offline on
// a mobile device and synchronized later. At most one Record exists per
// shipment; for offline captures the (deviceUUID, localRecordID) pair is the
// replay-protection idempotency key, both enforced by storage uniqueness.
type Record struct {
	id         kernel.UUID
	shipmentID kernel.UUID
	driverID   kernel.UUID

	result     DeliveryResult
	signerName string
	notes      string

	// recordedAt is the device-captured timestamp, which for offline records
	// predates the server-side sync by an arbitrary amount.
	recordedAt time.Time
	geo        *kernel.GeoPoint

	// signatureRef points at the stored signature image; binary storage is
	// owned by an external collaborator.
	signatureRef string

	syncedFromOffline bool
	deviceUUID        string
	localRecordID     string

	photos []Photo

	isConstructed bool
}

// Photo is an additional picture attached to a proof of delivery. Photos are
// owned by their Record and removed with it.
type Photo struct {
	ID       kernel.UUID
	ImageRef string
	Caption  string
	TakenAt  *time.Time
}

// NewRecord creates a proof of delivery. For offline captures
// (syncedFromOffline true) both deviceUUID and localRecordID are required so
// replays can be detected; for live captures they must be empty.
func NewRecord(
	id kernel.UUID,
	shipmentID kernel.UUID,
	driverID kernel.UUID,
	result DeliveryResult,
	signerName string,
	notes string,
	recordedAt time.Time,
	geo *kernel.GeoPoint,
	signatureRef string,
	syncedFromOffline bool,
	deviceUUID string,
	localRecordID string,
) (*Record, error) {
	if err := errors.Join(
		id.Validate(),
		shipmentID.Validate(),
		driverID.Validate(),
		result.Validate(),
	); err != nil {
		return nil, err
	}
	if recordedAt.IsZero() {
		return nil, errs.NewValueIsRequiredError("recordedAt")
	}
	if geo != nil {
		if err := geo.Validate(); err != nil {
			return nil, err
		}
	}
	if syncedFromOffline {
		if deviceUUID == "" {
			return nil, errs.NewValueIsRequiredError("deviceUUID")
		}
		if localRecordID == "" {
			return nil, errs.NewValueIsRequiredError("localRecordID")
		}
	}

	return &Record{
		id:                id,
		shipmentID:        shipmentID,
		driverID:          driverID,
		result:            result,
		signerName:        signerName,
		notes:             notes,
		recordedAt:        recordedAt,
		geo:               geo,
		signatureRef:      signatureRef,
		syncedFromOffline: syncedFromOffline,
		deviceUUID:        deviceUUID,
		localRecordID:     localRecordID,
		isConstructed:     true,
	}, nil
}

// RestoreParams carries the persisted state needed to rebuild a Record.
type RestoreParams struct {
	ID                kernel.UUID
	ShipmentID        kernel.UUID
	DriverID          kernel.UUID
	Result            DeliveryResult
	SignerName        string
	Notes             string
	RecordedAt        time.Time
	Geo               *kernel.GeoPoint
	SignatureRef      string
	SyncedFromOffline bool
	DeviceUUID        string
	LocalRecordID     string
	Photos            []Photo
}

// RestoreRecord reconstructs a Record from persistence.
func RestoreRecord(p RestoreParams) (*Record, error) {
	if err := errors.Join(p.ID.Validate(), p.ShipmentID.Validate()); err != nil {
		return nil, err
	}

	return &Record{
		id:                p.ID,
		shipmentID:        p.ShipmentID,
		driverID:          p.DriverID,
		result:            p.Result,
		signerName:        p.SignerName,
		notes:             p.Notes,
		recordedAt:        p.RecordedAt,
		geo:               p.Geo,
		signatureRef:      p.SignatureRef,
		syncedFromOffline: p.SyncedFromOffline,
		deviceUUID:        p.DeviceUUID,
		localRecordID:     p.LocalRecordID,
		photos:            p.Photos,
		isConstructed:     true,
	}, nil
}

// Validate ensures the Record was built through a constructor.
func (r *Record) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrRecordIsNotConstructed
	}
	return nil
}

// AddPhoto attaches an additional picture to the proof of delivery.
func (r *Record) AddPhoto(id kernel.UUID, imageRef, caption string, takenAt *time.Time) error {
	if err := id.Validate(); err != nil {
		return err
	}
	if imageRef == "" {
		return errs.NewValueIsRequiredError("imageRef")
	}

	r.photos = append(r.photos, Photo{
		ID:       id,
		ImageRef: imageRef,
		Caption:  caption,
		TakenAt:  takenAt,
	})
	return nil
}

// ID returns the record's unique identifier.
func (r *Record) ID() kernel.UUID { return r.id }

// ShipmentID returns the shipment this proof of delivery belongs to.
func (r *Record) ShipmentID() kernel.UUID { return r.shipmentID }

// DriverID returns the courier who captured the record.
func (r *Record) DriverID() kernel.UUID { return r.driverID }

// Result returns the recorded delivery outcome.
func (r *Record) Result() DeliveryResult { return r.result }

// SignerName returns who signed for the delivery, empty when nobody did.
func (r *Record) SignerName() string { return r.signerName }

// Notes returns the courier's free-text notes.
func (r *Record) Notes() string { return r.notes }

// RecordedAt returns the device-captured timestamp.
func (r *Record) RecordedAt() time.Time { return r.recordedAt }

// Geo returns the capture coordinates, nil when not available.
func (r *Record) Geo() *kernel.GeoPoint { return r.geo }

// SignatureRef returns the reference to the stored signature image.
func (r *Record) SignatureRef() string { return r.signatureRef }

// SyncedFromOffline reports whether the record was captured offline and
// synchronized later.
func (r *Record) SyncedFromOffline() bool { return r.syncedFromOffline }

// DeviceUUID returns the capturing device identifier, empty for live records.
func (r *Record) DeviceUUID() string { return r.deviceUUID }

// LocalRecordID returns the device-local record identifier, empty for live
// records.
func (r *Record) LocalRecordID() string { return r.localRecordID }

// Photos returns the attached pictures.
func (r *Record) Photos() []Photo { return r.photos }
