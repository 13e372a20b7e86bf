package kyc

import "fmt"

var (
	ErrRecordNotFound   = fmt.Errorf("kyc record not found")
	ErrAlreadyPending   = fmt.Errorf("a kyc submission is already awaiting review")
	ErrAlreadyVerified  = fmt.Errorf("identity is already verified")
	ErrNotReviewable    = fmt.Errorf("kyc record is not awaiting review")
	ErrInvalidLevel     = fmt.Errorf("approval requires a level of at least 1")
	ErrMissingRejection = fmt.Errorf("rejection requires a reason")
)
