package commands

import (
	"errors"
	"time"

	"shiptrack/internal/core/domain/model/kernel"
	"shiptrack/internal/core/domain/model/pod"
	"shiptrack/internal/pkg/errs"
	"shiptrack/internal/pkg/guard"
)

var ErrSubmitPODCommandIsNotConstructed = errors.New(
	"SubmitPODCommand must be created via NewSubmitPODCommand constructor",
)

// PODPhotoParams carries one picture to attach to the proof of delivery.
type PODPhotoParams struct {
	ImageRef string
	Caption  string
	TakenAt  *time.Time
}

// SubmitPODParams carries the caller-supplied proof-of-delivery attributes.
// For offline captures (SyncedFromOffline true) DeviceUUID and LocalRecordID
// are required; for live captures they must stay empty.
type SubmitPODParams struct {
	ShipmentID        kernel.UUID
	DriverID          kernel.UUID
	Result            pod.DeliveryResult
	SignerName        string
	Notes             string
	RecordedAt        time.Time
	Geo               *kernel.GeoPoint
	SignatureRef      string
	SyncedFromOffline bool
	DeviceUUID        string
	LocalRecordID     string
	Photos            []PODPhotoParams
}

// SubmitPODCommand represents a courier's proof-of-delivery submission, live
// or synchronized from an offline device.
type SubmitPODCommand struct { //nolint:recvcheck //using for validation
	params SubmitPODParams

	guard guard.ConstructorGuard
}

// NewSubmitPODCommand creates a POD submission request. Validation mirrors
// the Record invariants so malformed submissions are refused before any
// transaction starts.
func NewSubmitPODCommand(params SubmitPODParams) (SubmitPODCommand, error) {
	if err := errors.Join(
		params.ShipmentID.Validate(),
		params.DriverID.Validate(),
		params.Result.Validate(),
	); err != nil {
		return SubmitPODCommand{}, err
	}

	if params.RecordedAt.IsZero() {
		return SubmitPODCommand{}, errs.NewValueIsRequiredError("recordedAt")
	}
	if params.Geo != nil {
		if err := params.Geo.Validate(); err != nil {
			return SubmitPODCommand{}, err
		}
	}
	if params.SyncedFromOffline {
		if err := errors.Join(
			validateRequired("deviceUUID", params.DeviceUUID),
			validateRequired("localRecordID", params.LocalRecordID),
		); err != nil {
			return SubmitPODCommand{}, err
		}
	}
	for _, photo := range params.Photos {
		if photo.ImageRef == "" {
			return SubmitPODCommand{}, errs.NewValueIsRequiredError("imageRef")
		}
	}

	return SubmitPODCommand{
		params: params,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c SubmitPODCommand) Validate() error {
	return c.guard.Validate(ErrSubmitPODCommandIsNotConstructed)
}

// Params returns the validated submission attributes.
func (c SubmitPODCommand) Params() SubmitPODParams {
	return c.params
}
