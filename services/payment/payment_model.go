package payment

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"
)

type Kind string

// The closed set of supported payment rails. Each kind carries its own typed
// payload; there is no free-form detail map.
const (
	KindBankTransfer Kind = "bank_transfer"
	KindPayPal       Kind = "paypal"
	KindCrypto       Kind = "crypto"
	KindMobileMoney  Kind = "mobile_money"
	KindCash         Kind = "cash"
)

func (k Kind) Valid() bool {
	switch k {
	case KindBankTransfer, KindPayPal, KindCrypto, KindMobileMoney, KindCash:
		return true
	}
	return false
}

type BankTransferDetails struct {
	BankName      string `json:"bankName" validate:"required"`
	AccountNumber string `json:"accountNumber" validate:"required"`
	AccountName   string `json:"accountName" validate:"required"`
	RoutingNumber string `json:"routingNumber"`
}

type PayPalDetails struct {
	Email string `json:"email" validate:"required,email"`
}

type CryptoDetails struct {
	Address string `json:"address" validate:"required"`
	Network string `json:"network" validate:"required"`
}

type MobileMoneyDetails struct {
	Provider    string `json:"provider" validate:"required"`
	PhoneNumber string `json:"phoneNumber" validate:"required,e164"`
}

type CashDetails struct {
	Location string `json:"location" validate:"required"`
}

// Method is one saved settlement rail. Details always decodes through the
// variant for its kind, so a stored method is valid by construction.
type Method struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id"`
	Name      string          `json:"name"`
	Kind      Kind            `json:"type"`
	Details   json.RawMessage `json:"details"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

var validate = validator.New()

// DecodeDetails parses and validates a raw payload against the typed variant
// for the kind. Unknown fields are rejected so junk can't ride along.
func DecodeDetails(kind Kind, raw json.RawMessage) (interface{}, error) {
	var details interface{}
	switch kind {
	case KindBankTransfer:
		details = &BankTransferDetails{}
	case KindPayPal:
		details = &PayPalDetails{}
	case KindCrypto:
		details = &CryptoDetails{}
	case KindMobileMoney:
		details = &MobileMoneyDetails{}
	case KindCash:
		details = &CashDetails{}
	default:
		return nil, ErrUnknownKind
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(details); err != nil {
		return nil, ErrInvalidDetails
	}

	if err := validate.Struct(details); err != nil {
		return nil, ErrInvalidDetails
	}

	return details, nil
}
