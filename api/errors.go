package api

import (
	"errors"
	"net/http"

	basemodels "github.com/PeerTrade/PeerTrade-Backend/models"
	"github.com/PeerTrade/PeerTrade-Backend/services/dispute"
	"github.com/PeerTrade/PeerTrade-Backend/services/kyc"
	"github.com/PeerTrade/PeerTrade-Backend/services/ledger"
	"github.com/PeerTrade/PeerTrade-Backend/services/order"
	"github.com/PeerTrade/PeerTrade-Backend/services/payment"
	"github.com/PeerTrade/PeerTrade-Backend/services/referral"
	"github.com/PeerTrade/PeerTrade-Backend/services/subscription"
	"github.com/PeerTrade/PeerTrade-Backend/services/trust"
	"github.com/gin-gonic/gin"
)

// statusFor maps domain sentinels onto HTTP codes: authorization refusals are
// 403, state machine refusals are 409, ledger integrity refusals are 422 and
// anything unrecognized is a 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, order.ErrPairNotFound),
		errors.Is(err, dispute.ErrDisputeNotFound),
		errors.Is(err, ledger.ErrWalletNotFound),
		errors.Is(err, kyc.ErrRecordNotFound),
		errors.Is(err, subscription.ErrTierNotFound),
		errors.Is(err, subscription.ErrSubscriptionNotFound),
		errors.Is(err, payment.ErrMethodNotFound):
		return http.StatusNotFound

	case errors.Is(err, trust.ErrKYCRequired),
		errors.Is(err, trust.ErrCeilingExceeded),
		errors.Is(err, trust.ErrDailyLimitExceeded),
		errors.Is(err, order.ErrNotAuthorizedParty),
		errors.Is(err, dispute.ErrNotAuthorizedParty),
		errors.Is(err, payment.ErrNotYours):
		return http.StatusForbidden

	case errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, order.ErrAlreadyTerminal),
		errors.Is(err, order.ErrSelfTrade),
		errors.Is(err, dispute.ErrInvalidTransition),
		errors.Is(err, dispute.ErrDisputeAlreadyOpen),
		errors.Is(err, kyc.ErrAlreadyPending),
		errors.Is(err, kyc.ErrAlreadyVerified),
		errors.Is(err, kyc.ErrNotReviewable),
		errors.Is(err, referral.ErrAlreadyReferred):
		return http.StatusConflict

	case errors.Is(err, ledger.ErrInsufficientFunds),
		errors.Is(err, ledger.ErrOverRelease),
		errors.Is(err, ledger.ErrInvalidFee):
		return http.StatusUnprocessableEntity

	case errors.Is(err, order.ErrInvalidAmount),
		errors.Is(err, order.ErrPairInactive),
		errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, dispute.ErrMissingResolution),
		errors.Is(err, dispute.ErrInvalidFavor),
		errors.Is(err, kyc.ErrInvalidLevel),
		errors.Is(err, kyc.ErrMissingRejection),
		errors.Is(err, payment.ErrUnknownKind),
		errors.Is(err, payment.ErrInvalidDetails),
		errors.Is(err, referral.ErrInvalidCode),
		errors.Is(err, referral.ErrSelfReferral):
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

func respondError(ctx *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		ctx.JSON(status, basemodels.NewError("a server error occurred, please try again later"))
		return
	}
	ctx.JSON(status, basemodels.NewError(err.Error()))
}
