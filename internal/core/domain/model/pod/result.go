package pod

import (
	"fmt"

	"shiptrack/internal/core/domain/model/shipment"
	"shiptrack/internal/pkg/errs"
)

// DeliveryResult is the outcome a courier records on a proof of delivery.
type DeliveryResult int

const (
	ResultUnknown DeliveryResult = iota
	ResultDelivered
	ResultPartial
	ResultRefused
	ResultDamaged
	ResultAbsent
	ResultWrongAddress
	ResultOther
)

func getResultStrings() map[DeliveryResult]string {
	return map[DeliveryResult]string{
		ResultDelivered:    "delivered",
		ResultPartial:      "partial",
		ResultRefused:      "refused",
		ResultDamaged:      "damaged",
		ResultAbsent:       "absent",
		ResultWrongAddress: "wrong_address",
		ResultOther:        "other",
	}
}

// ResultFromString parses the wire representation of a delivery result.
func ResultFromString(s string) (DeliveryResult, error) {
	for r, str := range getResultStrings() {
		if str == s {
			return r, nil
		}
	}
	return ResultUnknown, errs.NewValueIsInvalidErrorWithCause("deliveryResult",
		fmt.Errorf("%q is not a valid delivery result", s))
}

// String implements fmt.Stringer.
func (r DeliveryResult) String() string {
	if str, ok := getResultStrings()[r]; ok {
		return str
	}
	return "unknown"
}

// Validate returns an error for ResultUnknown and any unmapped value.
func (r DeliveryResult) Validate() error {
	if _, ok := getResultStrings()[r]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("deliveryResult",
			fmt.Errorf("%d is not a valid delivery result", r))
	}
	return nil
}

// TargetStatus maps the delivery result to the shipment transition it drives:
// delivered and partial count as delivered, every other outcome as a failed
// attempt.
func (r DeliveryResult) TargetStatus() shipment.Status {
	switch r {
	case ResultDelivered, ResultPartial:
		return shipment.Delivered
	default:
		return shipment.NotDelivered
	}
}
