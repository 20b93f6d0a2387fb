// Package shipmentrepo provides data transfer objects and mapping functions
// for shipment persistence. It implements the repository pattern for the
// shipment aggregate, handling the conversion between domain entities and
// database rows.
package shipmentrepo

import (
	"time"

	"shiptrack/internal/core/domain/model/kernel"
	"shiptrack/internal/core/domain/model/shipment"

	"github.com/google/uuid"
)

// ShipmentDTO represents the database structure for persisting shipment
// aggregates. Tracking code and public token carry unique indexes; status is
// indexed for dashboard queries.
type ShipmentDTO struct {
	ID                     uuid.UUID `gorm:"type:uuid;primaryKey"`
	TrackingCode           string    `gorm:"size:32;uniqueIndex"`
	Reference              string    `gorm:"size:64;index"`
	SenderName             string
	SenderEmail            string
	RecipientName          string
	RecipientPhone         string
	RecipientEmail         string
	DeliveryAddress        string
	Status                 int        `gorm:"index"`
	Priority               int
	DeliveryType           int
	DriverID               *uuid.UUID `gorm:"type:uuid;index"`
	CarrierID              *uuid.UUID `gorm:"type:uuid;index"`
	ExternalTrackingNumber string
	PackagesCount          int
	WeightKg               float64
	EstimatedDeliveryDate  *time.Time
	PickedUpAt             *time.Time
	ActualDeliveryDate     *time.Time
	PublicTrackingToken    string `gorm:"size:64;uniqueIndex"`
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// TableName specifies the database table name for shipment rows.
func (ShipmentDTO) TableName() string {
	return "shipments"
}

// fromDomain converts a shipment aggregate to its database representation.
func fromDomain(aggregate *shipment.Shipment) ShipmentDTO {
	var driverID, carrierID *uuid.UUID
	if id := aggregate.Driver(); id != nil {
		raw := id.Bytes()
		driverID = &raw
	}
	if id := aggregate.Carrier(); id != nil {
		raw := id.Bytes()
		carrierID = &raw
	}

	return ShipmentDTO{
		ID:                     aggregate.ID().Bytes(),
		TrackingCode:           aggregate.TrackingCode(),
		Reference:              aggregate.Reference(),
		SenderName:             aggregate.SenderName(),
		SenderEmail:            aggregate.SenderEmail(),
		RecipientName:          aggregate.RecipientName(),
		RecipientPhone:         aggregate.RecipientPhone(),
		RecipientEmail:         aggregate.RecipientEmail(),
		DeliveryAddress:        aggregate.DeliveryAddress(),
		Status:                 int(aggregate.Status()),
		Priority:               int(aggregate.Priority()),
		DeliveryType:           int(aggregate.DeliveryType()),
		DriverID:               driverID,
		CarrierID:              carrierID,
		ExternalTrackingNumber: aggregate.ExternalTrackingNumber(),
		PackagesCount:          aggregate.PackagesCount(),
		WeightKg:               aggregate.WeightKg(),
		EstimatedDeliveryDate:  aggregate.EstimatedDeliveryDate(),
		PickedUpAt:             aggregate.PickedUpAt(),
		ActualDeliveryDate:     aggregate.ActualDeliveryDate(),
		PublicTrackingToken:    aggregate.PublicTrackingToken(),
	}
}

// toDomain converts a database row to a shipment aggregate.
func toDomain(dto ShipmentDTO) (*shipment.Shipment, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var driverID, carrierID *kernel.UUID
	if dto.DriverID != nil {
		dID, dErr := kernel.UUIDFromBytes((*dto.DriverID)[:])
		if dErr != nil {
			return nil, dErr
		}
		driverID = &dID
	}
	if dto.CarrierID != nil {
		cID, cErr := kernel.UUIDFromBytes((*dto.CarrierID)[:])
		if cErr != nil {
			return nil, cErr
		}
		carrierID = &cID
	}

	return shipment.RestoreShipment(shipment.RestoreParams{
		ID:                     id,
		TrackingCode:           dto.TrackingCode,
		Reference:              dto.Reference,
		SenderName:             dto.SenderName,
		SenderEmail:            dto.SenderEmail,
		RecipientName:          dto.RecipientName,
		RecipientPhone:         dto.RecipientPhone,
		RecipientEmail:         dto.RecipientEmail,
		DeliveryAddress:        dto.DeliveryAddress,
		Status:                 shipment.Status(dto.Status),
		Priority:               shipment.Priority(dto.Priority),
		DeliveryType:           shipment.DeliveryType(dto.DeliveryType),
		DriverID:               driverID,
		CarrierID:              carrierID,
		ExternalTrackingNumber: dto.ExternalTrackingNumber,
		PackagesCount:          dto.PackagesCount,
		WeightKg:               dto.WeightKg,
		EstimatedDeliveryDate:  dto.EstimatedDeliveryDate,
		PickedUpAt:             dto.PickedUpAt,
		ActualDeliveryDate:     dto.ActualDeliveryDate,
		PublicTrackingToken:    dto.PublicTrackingToken,
	})
}
