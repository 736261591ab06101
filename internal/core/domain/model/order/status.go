package order

import (
	"fmt"

	"marketplace/internal/pkg/errs"
)

type Status string

const (
	Pending         Status = "pending"
	Received        Status = "received"
	Packed          Status = "packed"
	PickupRequested Status = "pickup_requested"
	// Processing is kept for orders created before pickup requests existed.
	Processing Status = "processing"
	Shipped    Status = "shipped"
	Delivered  Status = "delivered"
	Cancelled  Status = "cancelled"
)

var displayNames = map[Status]string{
	Pending:         "Pending",
	Received:        "Received",
	Packed:          "Packed",
	PickupRequested: "Pickup Requested",
	Processing:      "Processing",
	Shipped:         "Shipped",
	Delivered:       "Delivered",
	Cancelled:       "Cancelled",
}

// AllStatuses lists the statuses in lifecycle order.
func AllStatuses() []Status {
	return []Status{Pending, Received, Packed, PickupRequested, Processing, Shipped, Delivered, Cancelled}
}

func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if err := status.Validate(); err != nil {
		return "", err
	}
	return status, nil
}

func (s Status) Validate() error {
	if _, ok := displayNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", string(s)))
	}
	return nil
}

func (s Status) String() string {
	return string(s)
}

// DisplayName is the human label shown in status history.
func (s Status) DisplayName() string {
	if name, ok := displayNames[s]; ok {
		return name
	}
	return string(s)
}

func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}
