package order

import "fmt"

var (
	ErrOrderNotFound     = fmt.Errorf("order not found")
	ErrPairNotFound      = fmt.Errorf("trading pair not found")
	ErrPairInactive      = fmt.Errorf("trading pair is not active")
	ErrInvalidAmount     = fmt.Errorf("amount is outside the trading pair limits")
	ErrInvalidTransition = fmt.Errorf("order state does not allow this transition")
	ErrAlreadyTerminal   = fmt.Errorf("order already settled")
	ErrNotAuthorizedParty = fmt.Errorf("caller is not an authorized party to this order")
	ErrSelfTrade          = fmt.Errorf("cannot take the other side of your own order")
)
