package subscription

import "fmt"

var (
	ErrTierNotFound         = fmt.Errorf("subscription tier not found")
	ErrSubscriptionNotFound = fmt.Errorf("no active subscription")
)
