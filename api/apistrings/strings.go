package apistrings

const (
	/// Basic User Related Strings
	UserNotFound = "user or account does not exist"
	AdminOnly    = "this resource requires administrator access"

	/// Core Functionality Error
	ServerError = "a server error occurred, please try again later"

	/// Order Related Strings
	InvalidOrderInput   = "check 'pair_id', 'side', 'amount' and 'price' keys, invalid request"
	InvalidOrderID      = "entered order ID is invalid"
	InvalidPairID       = "entered pair ID is invalid"
	InvalidPairInput    = "check 'symbol', 'base_currency_id' and 'quote_currency_id' keys, invalid request"

	/// Dispute Related Strings
	InvalidDisputeInput = "check 'order_id', 'reason' and 'description' keys, invalid request"
	InvalidDisputeID    = "entered dispute ID is invalid"
	InvalidResolution   = "check 'resolution' and 'favor' keys, invalid request"

	/// KYC Related Strings
	InvalidKYCInput    = "check 'document_type', 'country', 'document_front' and 'selfie' keys, invalid request"
	InvalidKYCRecordID = "entered record ID is invalid"
	InvalidReviewInput = "check 'approve', 'level' or 'rejection_reason' keys, invalid request"

	/// Subscription Related Strings
	InvalidTierID = "entered tier ID is invalid"

	/// Payment Method Related Strings
	InvalidMethodInput = "check 'name', 'type' and 'details' keys, invalid request"
	InvalidMethodID    = "entered method ID is invalid"

	/// Referral Related Strings
	InvalidReferralInput = "check 'code' key, invalid request"

	/// Wallet Related Strings
	InvalidDepositInput = "check 'user_id', 'currency' and 'amount' keys, invalid request"
)
