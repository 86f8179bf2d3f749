package models

type PaymentType string

const (
	PaymentCash       PaymentType = "cash"
	PaymentVisa       PaymentType = "visa"
	PaymentMastercard PaymentType = "mastercard"
	PaymentPaypal     PaymentType = "paypal"
)

// PaymentMethod is a stored card. CardNumber holds the last four digits
// only; the full PAN is never persisted. Cash is always available and is
// not represented as a stored row.
type PaymentMethod struct {
	ID         string      `json:"id"`
	Type       PaymentType `json:"type"`
	CardNumber string      `json:"cardNumber,omitempty"`
	CardHolder string      `json:"cardHolder,omitempty"`
	ExpiryDate string      `json:"expiryDate,omitempty"` // MM/YY
}
