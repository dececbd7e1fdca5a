package request

// AddItemRequest carries the raw product form fields. Values are parsed by
// the billing engine, which ignores input it cannot use.
type AddItemRequest struct {
	Name     string `json:"name"`
	Price    string `json:"price"`
	Quantity string `json:"quantity"`
}

// UpdateQuantityRequest sets the quantity of one bill line
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// DiscountRequest sets the discount mode and raw value. An unknown type
// keeps the current mode.
type DiscountRequest struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// PaymentRequest sets the raw amount tendered. An empty value clears it.
type PaymentRequest struct {
	Amount string `json:"amount"`
}
