package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// PaymentStatus represents the settlement state of a sale
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	// PaymentStatusCancelled is only ever set from outside the billing engine.
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

func (s PaymentStatus) String() string {
	return string(s)
}

// Valid reports whether s is one of the known statuses.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusCancelled:
		return true
	}
	return false
}

func (s *PaymentStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	status := PaymentStatus(str)
	if !status.Valid() {
		return fmt.Errorf("unknown payment status %q", str)
	}
	*s = status
	return nil
}

func (s PaymentStatus) Value() (driver.Value, error) {
	return string(s), nil
}

func (s *PaymentStatus) Scan(value interface{}) error {
	if value == nil {
		*s = PaymentStatusPending
		return nil
	}
	switch v := value.(type) {
	case string:
		*s = PaymentStatus(v)
	case []byte:
		*s = PaymentStatus(v)
	default:
		return fmt.Errorf("cannot scan %T into PaymentStatus", value)
	}
	return nil
}
