package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenExpired       ErrCode = "TOKEN_EXPIRED"
	ErrLoginRequired      ErrCode = "LOGIN_REQUIRED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden       ErrCode = "FORBIDDEN"
	ErrAdminAccessOnly ErrCode = "ADMIN_ACCESS_ONLY"
	ErrNotFormOwner    ErrCode = "NOT_FORM_OWNER"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound        ErrCode = "NOT_FOUND"
	ErrConflict        ErrCode = "CONFLICT"
	ErrActionForbidden ErrCode = "ACTION_FORBIDDEN"

	// ─── Form-specific ─────────────────────────────────────────────────
	ErrFormNotAvailable    ErrCode = "FORM_NOT_AVAILABLE"
	ErrFormNotDraft        ErrCode = "FORM_NOT_DRAFT"
	ErrFormNotPublished    ErrCode = "FORM_NOT_PUBLISHED"
	ErrNoQuestions         ErrCode = "NO_QUESTIONS"
	ErrQuestionsLocked     ErrCode = "QUESTIONS_LOCKED"
	ErrInvalidInvitation   ErrCode = "INVALID_INVITATION_TOKEN"
	ErrAlreadySubmitted    ErrCode = "ALREADY_SUBMITTED"
	ErrAssignmentExpired   ErrCode = "ASSIGNMENT_EXPIRED"
	ErrRequiredUnanswered  ErrCode = "REQUIRED_QUESTION_UNANSWERED"
	ErrMultipleNotAllowed  ErrCode = "MULTIPLE_RESPONSES_NOT_ALLOWED"
	ErrResponseNotFinished ErrCode = "RESPONSE_NOT_FINISHED"

	// ─── Media ─────────────────────────────────────────────────────────
	ErrFileRequired    ErrCode = "FILE_REQUIRED"
	ErrUnsupportedFile ErrCode = "UNSUPPORTED_FILE_TYPE"
	ErrFileTooLarge    ErrCode = "FILE_TOO_LARGE"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Email or password is incorrect."
	case ErrSessionInvalidated:
		return "Your session has ended. Please sign in again."
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is invalid."
	case ErrTokenExpired:
		return "The authentication token has expired."
	case ErrLoginRequired:
		return "This form requires you to sign in before responding."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "You do not have permission to access this resource."
	case ErrAdminAccessOnly:
		return "This resource is restricted to administrators."
	case ErrNotFormOwner:
		return "You are not the owner of this form."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "The ID format is invalid."
	case ErrInvalidPayload:
		return "The request payload is invalid."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "The resource was not found."
	case ErrConflict:
		return "The resource already exists."
	case ErrActionForbidden:
		return "This action is not allowed."

	// ─── Form-specific ─────────────────────────────────────────────────
	case ErrFormNotAvailable:
		return "This form is not currently available."
	case ErrFormNotDraft:
		return "This form is not in DRAFT status."
	case ErrFormNotPublished:
		return "This form has not been published."
	case ErrNoQuestions:
		return "This form has no questions."
	case ErrQuestionsLocked:
		return "Questions cannot be changed after responses have been submitted."
	case ErrInvalidInvitation:
		return "The invitation token is invalid."
	case ErrAlreadySubmitted:
		return "This response has already been submitted."
	case ErrAssignmentExpired:
		return "This assignment has expired."
	case ErrRequiredUnanswered:
		return "One or more required questions are unanswered."
	case ErrMultipleNotAllowed:
		return "This form does not allow multiple responses."
	case ErrResponseNotFinished:
		return "This response has not been submitted yet."

	// ─── Media ─────────────────────────────────────────────────────────
	case ErrFileRequired:
		return "A file upload is required."
	case ErrUnsupportedFile:
		return "The file type is not supported."
	case ErrFileTooLarge:
		return "The file size exceeds the limit."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
