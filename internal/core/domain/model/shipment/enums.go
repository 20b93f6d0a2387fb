package shipment

import (
	"fmt"

	"shiptrack/internal/pkg/errs"
)

// Priority represents how urgently a shipment must be delivered.
type Priority int

const (
	PriorityUnknown Priority = iota
	PriorityLow
	PriorityNormal
	PriorityHigh
	PriorityUrgent
)

func getPriorityStrings() map[Priority]string {
	return map[Priority]string{
		PriorityLow:    "low",
		PriorityNormal: "normal",
		PriorityHigh:   "high",
		PriorityUrgent: "urgent",
	}
}

// PriorityFromString parses the wire representation of a priority.
func PriorityFromString(s string) (Priority, error) {
	for p, str := range getPriorityStrings() {
		if str == s {
			return p, nil
		}
	}
	return PriorityUnknown, errs.NewValueIsInvalidErrorWithCause("priority",
		fmt.Errorf("%q is not a valid priority", s))
}

// String implements fmt.Stringer.
func (p Priority) String() string {
	if str, ok := getPriorityStrings()[p]; ok {
		return str
	}
	return "unknown"
}

// Validate returns an error for PriorityUnknown and any unmapped value.
func (p Priority) Validate() error {
	if _, ok := getPriorityStrings()[p]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("priority",
			fmt.Errorf("%d is not a valid priority", p))
	}
	return nil
}

// DeliveryType distinguishes the two delivery channels: shipments carried by
// the company's own drivers and shipments handed to an external carrier.
type DeliveryType int

const (
	DeliveryTypeUnknown DeliveryType = iota
	DeliveryTypeInternal
	DeliveryTypeExternal
)

func getDeliveryTypeStrings() map[DeliveryType]string {
	return map[DeliveryType]string{
		DeliveryTypeInternal: "internal",
		DeliveryTypeExternal: "external",
	}
}

// DeliveryTypeFromString parses the wire representation of a delivery type.
func DeliveryTypeFromString(s string) (DeliveryType, error) {
	for d, str := range getDeliveryTypeStrings() {
		if str == s {
			return d, nil
		}
	}
	return DeliveryTypeUnknown, errs.NewValueIsInvalidErrorWithCause("deliveryType",
		fmt.Errorf("%q is not a valid delivery type", s))
}

// String implements fmt.Stringer.
func (d DeliveryType) String() string {
	if str, ok := getDeliveryTypeStrings()[d]; ok {
		return str
	}
	return "unknown"
}

// Validate returns an error for DeliveryTypeUnknown and any unmapped value.
func (d DeliveryType) Validate() error {
	if _, ok := getDeliveryTypeStrings()[d]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("deliveryType",
			fmt.Errorf("%d is not a valid delivery type", d))
	}
	return nil
}
