package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// DiscountType selects how a discount value is applied to the subtotal
type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeAmount     DiscountType = "amount"
)

func (t DiscountType) String() string {
	return string(t)
}

func (t DiscountType) Valid() bool {
	return t == DiscountTypePercentage || t == DiscountTypeAmount
}

func (t *DiscountType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	dt := DiscountType(str)
	if !dt.Valid() {
		return fmt.Errorf("unknown discount type %q", str)
	}
	*t = dt
	return nil
}

func (t DiscountType) Value() (driver.Value, error) {
	return string(t), nil
}

func (t *DiscountType) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*t = DiscountTypePercentage
	case string:
		*t = DiscountType(v)
	case []byte:
		*t = DiscountType(v)
	default:
		return fmt.Errorf("cannot scan %T into DiscountType", value)
	}
	return nil
}
