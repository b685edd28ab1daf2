package http

var (
	Failed                        = failed(500, "Request failed")
	RequestParameterParsingFailed = failed(5001, "Request parameter parsing failed")

	// Unauthorized 401
	Unauthorized         = failed(4401, "Unauthorized")
	AuthorizationEmpty   = failed(4404, "Authorization is empty")
	InvalidToken         = failed(4405, "Invalid token")
	TokenExpired         = failed(4407, "Token is expired")
	TokenFormatIncorrect = failed(4408, "Token format is incorrect")

	// BadRequest 400
	BadRequest = failed(4000, "Bad request")
	NotFound   = failed(4004, "Not found")

	// Forbidden 403
	Forbidden = failed(4030, "Forbidden")

	InternalError = failed(5000, "Internal error, please contact the administrator")

	// Claim lifecycle
	ClaimRequestInvalid  = failed(4601, "Invalid claim request")
	ClaimNotFound        = failed(4602, "Claim not found")
	ClaimExpired         = failed(4603, "Claim has expired")
	ClaimAlreadyUsed     = failed(4604, "Claim has already been used")
	ClaimRevoked         = failed(4605, "Claim has been revoked")
	ClaimPasscodeInvalid = failed(4606, "Passcode does not match")
	ClaimTooManyAttempts = failed(4607, "Too many attempts, try again later")
	CredentialRejected   = failed(4608, "Password does not meet the policy")
	DuplicateClaim       = failed(4609, "A live claim already exists for this account")
	DeliveryFailed       = failed(4610, "Invitation could not be delivered")
	PersistenceFailed    = failed(5010, "Claim could not be saved")
)

var (
	Success = success(200, "Request Success")
)

func failed(code int, msg string) *Response {
	return &Response{Code: code, Msg: msg}
}

func success(code int, msg string) *Response {
	return &Response{Code: code, Msg: msg}
}
