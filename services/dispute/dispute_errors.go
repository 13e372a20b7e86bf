package dispute

import "fmt"

var (
	ErrDisputeNotFound    = fmt.Errorf("dispute not found")
	ErrDisputeAlreadyOpen = fmt.Errorf("an active dispute already exists for this order")
	ErrInvalidTransition  = fmt.Errorf("dispute state does not allow this transition")
	ErrNotAuthorizedParty = fmt.Errorf("caller is not authorized to act on this dispute")
	ErrMissingResolution  = fmt.Errorf("resolution text is required")
	ErrInvalidFavor       = fmt.Errorf("favor must be initiator, counterparty or mutual")
)
