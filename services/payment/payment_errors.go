package payment

import "fmt"

var (
	ErrMethodNotFound = fmt.Errorf("payment method not found")
	ErrUnknownKind    = fmt.Errorf("unknown payment method type")
	ErrInvalidDetails = fmt.Errorf("payment method details failed validation")
	ErrNotYours       = fmt.Errorf("payment method belongs to another user")
)
