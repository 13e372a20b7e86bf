package trust

import "fmt"

var (
	ErrKYCRequired        = fmt.Errorf("identity verification required for this order size")
	ErrCeilingExceeded    = fmt.Errorf("amount exceeds the permitted order ceiling")
	ErrDailyLimitExceeded = fmt.Errorf("amount exceeds the remaining daily volume limit")
)
