package referral

import "fmt"

var (
	ErrInvalidCode     = fmt.Errorf("referral code is not valid")
	ErrSelfReferral    = fmt.Errorf("cannot refer yourself")
	ErrAlreadyReferred = fmt.Errorf("user already has a referrer")
)
