package ledger

import "fmt"

var (
	ErrWalletNotFound    = fmt.Errorf("wallet not found")
	ErrInsufficientFunds = fmt.Errorf("insufficient funds")
	ErrOverRelease       = fmt.Errorf("release exceeds frozen balance")
	ErrInvalidAmount     = fmt.Errorf("amount must be greater than zero")
	ErrInvalidFee        = fmt.Errorf("fee must be non-negative and less than the settled amount")
)
