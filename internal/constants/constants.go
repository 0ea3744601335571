package constants

// Session and context keys
const (
	SessionCookieName = "survey_session"

	SessionKeyUsername  = "username"
	SessionKeyPrincipal = "principal"

	ContextKeyCaller   = "caller"
	ContextKeyEmployee = "employee"
)

// Principal kinds stored in the session
const (
	PrincipalEmployee = "employee"
	PrincipalAdmin    = "admin"
)

// Reserved form field names on the answer submission route. Everything
// else in the form is treated as a question ID.
const (
	FormFieldCSRFToken     = "csrf_token"
	FormFieldSubmitControl = "btn_response"

	SubmitControlFinish = "Finish"
)

// Password rules
const (
	MinPasswordLength  = 8
	TempPasswordLength = 12
)

// Pagination limits
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// MaxAISuggestedQuestions caps how many question drafts a single AI
// suggestion call may return.
const MaxAISuggestedQuestions = 20
