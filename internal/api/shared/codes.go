package shared

// Error codes carried in ErrorBody.Code.
const (
	CodeBadRequest       = "BAD REQUEST"
	CodeValidation       = "VALIDATION ERROR"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeTokenExpired     = "TOKEN EXPIRED"
	CodeForbidden        = "FORBIDDEN"
	CodeCSRFMissing      = "CSRF MISSING"
	CodeCSRFInvalid      = "CSRF INVALID"
	CodeNotFound         = "NOT FOUND"
	CodeDuplicate        = "DUPLICATE"
	CodeInvalidOrExpired = "INVALID OR EXPIRED"
	CodeRateLimited      = "RATE LIMITED"
	CodeInternal         = "INTERNAL ERROR"
)
