package shipment

import (
	"errors"
	"time"

	"shiptrack/internal/core/domain/model/kernel"
	"shiptrack/internal/pkg/errs"
)

// ErrShipmentIsNotConstructed is returned when a Shipment instance was not
// created through NewShipment or RestoreShipment.
var ErrShipmentIsNotConstructed = errors.New(
	"Shipment must be created via NewShipment or RestoreShipment")

// Shipment is the aggregate root for a physical shipment moving from creation
// to delivery confirmation. Its status and the derived timestamps
// (pickedUpAt, actualDeliveryDate) change exclusively through TransitionTo,
// which enforces the state machine; contact and parcel details are plain data
// owned by CRUD collaborators.
//
// Invariants:
//   - Must have a valid unique identifier and a non-empty recipient name
//   - Status transitions follow the graph defined on Status
//   - actualDeliveryDate is set iff the shipment reached delivered
//   - pickedUpAt is set iff the shipment passed through picked_up
//   - Can only be created through NewShipment or RestoreShipment
type Shipment struct {
	id           kernel.UUID
	trackingCode string
	reference    string

	senderName  string
	senderEmail string

	recipientName   string
	recipientPhone  string
	recipientEmail  string
	deliveryAddress string

	status       Status
	priority     Priority
	deliveryType DeliveryType

	// driverID is set for internal deliveries, carrierID for external ones.
	driverID               *kernel.UUID
	carrierID              *kernel.UUID
	externalTrackingNumber string

	packagesCount int
	weightKg      float64

	estimatedDeliveryDate *time.Time
	pickedUpAt            *time.Time
	actualDeliveryDate    *time.Time

	publicTrackingToken string

	isConstructed bool
}

// NewShipment creates a Shipment in status created, generating its tracking
// code and public tracking token. Sender e-mail may be empty (no sender
// notifications are then produced); recipient name and delivery address are
// required.
func NewShipment(
	id kernel.UUID,
	senderName, senderEmail string,
	recipientName, recipientPhone, recipientEmail string,
	deliveryAddress string,
	priority Priority,
	deliveryType DeliveryType,
) (*Shipment, error) {
	s := &Shipment{
		trackingCode:        kernel.NewTrackingCode(),
		publicTrackingToken: kernel.NewPublicTrackingToken(),
		status:              Created,
		packagesCount:       1,
		senderName:          senderName,
		senderEmail:         senderEmail,
		recipientPhone:      recipientPhone,
		recipientEmail:      recipientEmail,
		isConstructed:       true,
	}

	if err := errors.Join(
		s.setID(id),
		s.setRecipientName(recipientName),
		s.setDeliveryAddress(deliveryAddress),
		s.setPriority(priority),
		s.setDeliveryType(deliveryType),
	); err != nil {
		return nil, err
	}

	return s, nil
}

// RestoreParams carries the persisted state needed to rebuild a Shipment.
type RestoreParams struct {
	ID                     kernel.UUID
	TrackingCode           string
	Reference              string
	SenderName             string
	SenderEmail            string
	RecipientName          string
	RecipientPhone         string
	RecipientEmail         string
	DeliveryAddress        string
	Status                 Status
	Priority               Priority
	DeliveryType           DeliveryType
	DriverID               *kernel.UUID
	CarrierID              *kernel.UUID
	ExternalTrackingNumber string
	PackagesCount          int
	WeightKg               float64
	EstimatedDeliveryDate  *time.Time
	PickedUpAt             *time.Time
	ActualDeliveryDate     *time.Time
	PublicTrackingToken    string
}

// RestoreShipment reconstructs a Shipment from persistence. It validates the
// identifier and status but trusts the stored field values otherwise.
func RestoreShipment(p RestoreParams) (*Shipment, error) {
	if err := p.ID.Validate(); err != nil {
		return nil, err
	}
	if err := p.Status.Validate(); err != nil {
		return nil, err
	}

	return &Shipment{
		id:                     p.ID,
		trackingCode:           p.TrackingCode,
		reference:              p.Reference,
		senderName:             p.SenderName,
		senderEmail:            p.SenderEmail,
		recipientName:          p.RecipientName,
		recipientPhone:         p.RecipientPhone,
		recipientEmail:         p.RecipientEmail,
		deliveryAddress:        p.DeliveryAddress,
		status:                 p.Status,
		priority:               p.Priority,
		deliveryType:           p.DeliveryType,
		driverID:               p.DriverID,
		carrierID:              p.CarrierID,
		externalTrackingNumber: p.ExternalTrackingNumber,
		packagesCount:          p.PackagesCount,
		weightKg:               p.WeightKg,
		estimatedDeliveryDate:  p.EstimatedDeliveryDate,
		pickedUpAt:             p.PickedUpAt,
		actualDeliveryDate:     p.ActualDeliveryDate,
		publicTrackingToken:    p.PublicTrackingToken,
		isConstructed:          true,
	}, nil
}

// Validate ensures the Shipment was built through a constructor.
func (s *Shipment) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrShipmentIsNotConstructed
	}
	return nil
}

// TransitionTo moves the shipment to target if the state machine allows it,
// updating the derived timestamps: actualDeliveryDate when reaching delivered,
// pickedUpAt when reaching picked_up. The supplied time is the commit-side
// clock so callers control timestamp consistency within a transaction.
//
// Returns *InvalidTransitionError (wrapping ErrInvalidTransition) when the
// move is not in the graph; the shipment is left untouched.
func (s *Shipment) TransitionTo(target Status, now time.Time) error {
	if err := target.Validate(); err != nil {
		return err
	}
	if !s.status.CanTransitionTo(target) {
		return NewInvalidTransitionError(s.status, target)
	}

	s.status = target

	switch target {
	case Delivered:
		s.actualDeliveryDate = &now
	case PickedUp:
		s.pickedUpAt = &now
	}

	return nil
}

// AssignDriver routes the shipment through the internal channel and assigns
// the given driver, clearing any external carrier. Assignment itself is not a
// state-machine edge; callers apply the created -> assigned transition
// separately when applicable.
func (s *Shipment) AssignDriver(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	s.driverID = &driverID
	s.carrierID = nil
	s.externalTrackingNumber = ""
	s.deliveryType = DeliveryTypeInternal
	return nil
}

// AssignCarrier routes the shipment through an external carrier with its
// tracking number, clearing any internal driver.
func (s *Shipment) AssignCarrier(carrierID kernel.UUID, trackingNumber string) error {
	if err := carrierID.Validate(); err != nil {
		return err
	}

	s.carrierID = &carrierID
	s.driverID = nil
	s.externalTrackingNumber = trackingNumber
	s.deliveryType = DeliveryTypeExternal
	return nil
}

// SetReference records the customer order reference.
func (s *Shipment) SetReference(reference string) {
	s.reference = reference
}

// SetParcelDetails records the package count and total weight.
func (s *Shipment) SetParcelDetails(packagesCount int, weightKg float64) error {
	if packagesCount <= 0 {
		return errs.NewValueIsInvalidError("packagesCount")
	}
	if weightKg < 0 {
		return errs.NewValueIsInvalidError("weightKg")
	}

	s.packagesCount = packagesCount
	s.weightKg = weightKg
	return nil
}

// SetEstimatedDeliveryDate records the promised delivery date.
func (s *Shipment) SetEstimatedDeliveryDate(date time.Time) {
	s.estimatedDeliveryDate = &date
}

// IsEqual compares two shipments by identifier.
func (s *Shipment) IsEqual(other *Shipment) bool {
	return other != nil && s.id.IsEqual(other.id)
}

// ID returns the shipment's unique identifier.
func (s *Shipment) ID() kernel.UUID { return s.id }

// TrackingCode returns the human-readable shipment code.
func (s *Shipment) TrackingCode() string { return s.trackingCode }

// Reference returns the customer order reference.
func (s *Shipment) Reference() string { return s.reference }

// SenderName returns the sender's display name.
func (s *Shipment) SenderName() string { return s.senderName }

// SenderEmail returns the sender's contact address, empty when unknown.
func (s *Shipment) SenderEmail() string { return s.senderEmail }

// RecipientName returns the recipient's display name.
func (s *Shipment) RecipientName() string { return s.recipientName }

// RecipientPhone returns the recipient's phone number, empty when unknown.
func (s *Shipment) RecipientPhone() string { return s.recipientPhone }

// RecipientEmail returns the recipient's contact address, empty when unknown.
func (s *Shipment) RecipientEmail() string { return s.recipientEmail }

// DeliveryAddress returns the destination address as free text.
func (s *Shipment) DeliveryAddress() string { return s.deliveryAddress }

// Status returns the current lifecycle status.
func (s *Shipment) Status() Status { return s.status }

// Priority returns the delivery priority.
func (s *Shipment) Priority() Priority { return s.priority }

// DeliveryType returns the delivery channel.
func (s *Shipment) DeliveryType() DeliveryType { return s.deliveryType }

// Driver returns the assigned internal driver's ID, nil if none.
func (s *Shipment) Driver() *kernel.UUID { return s.driverID }

// Carrier returns the assigned external carrier's ID, nil if none.
func (s *Shipment) Carrier() *kernel.UUID { return s.carrierID }

// ExternalTrackingNumber returns the carrier-side tracking number.
func (s *Shipment) ExternalTrackingNumber() string { return s.externalTrackingNumber }

// PackagesCount returns the number of parcels.
func (s *Shipment) PackagesCount() int { return s.packagesCount }

// WeightKg returns the total weight in kilograms, 0 when unknown.
func (s *Shipment) WeightKg() float64 { return s.weightKg }

// EstimatedDeliveryDate returns the promised date, nil when not set.
func (s *Shipment) EstimatedDeliveryDate() *time.Time { return s.estimatedDeliveryDate }

// PickedUpAt returns when the goods were collected, nil before picked_up.
func (s *Shipment) PickedUpAt() *time.Time { return s.pickedUpAt }

// ActualDeliveryDate returns when delivery completed, nil before delivered.
func (s *Shipment) ActualDeliveryDate() *time.Time { return s.actualDeliveryDate }

// PublicTrackingToken returns the opaque token for unauthenticated tracking.
func (s *Shipment) PublicTrackingToken() string { return s.publicTrackingToken }

func (s *Shipment) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	s.id = id
	return nil
}

func (s *Shipment) setRecipientName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("recipientName")
	}
	s.recipientName = name
	return nil
}

func (s *Shipment) setDeliveryAddress(address string) error {
	if address == "" {
		return errs.NewValueIsRequiredError("deliveryAddress")
	}
	s.deliveryAddress = address
	return nil
}

func (s *Shipment) setPriority(priority Priority) error {
	if err := priority.Validate(); err != nil {
		return err
	}
	s.priority = priority
	return nil
}

func (s *Shipment) setDeliveryType(deliveryType DeliveryType) error {
	if err := deliveryType.Validate(); err != nil {
		return err
	}
	s.deliveryType = deliveryType
	return nil
}
