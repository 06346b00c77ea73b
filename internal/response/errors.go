package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrAccountNotVerified ErrCode = "ACCOUNT_NOT_VERIFIED"
	ErrInvalidOTP         ErrCode = "INVALID_OTP"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden        ErrCode = "FORBIDDEN"
	ErrStudentOnly      ErrCode = "STUDENT_ACCESS_ONLY"
	ErrAdminOnly        ErrCode = "ADMIN_ACCESS_ONLY"
	ErrNotResourceOwner ErrCode = "NOT_RESOURCE_OWNER"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation ErrCode = "VALIDATION_ERROR"
	ErrInvalidID  ErrCode = "INVALID_ID"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// ─── Booking lifecycle ─────────────────────────────────────────────
	ErrPendingBookingExists ErrCode = "PENDING_BOOKING_EXISTS"
	ErrInvalidBookingState  ErrCode = "INVALID_BOOKING_STATE"
	ErrTestNotStarted       ErrCode = "TEST_NOT_STARTED"
	ErrAlreadySubmitted     ErrCode = "ALREADY_SUBMITTED"
	ErrNoTestAttached       ErrCode = "NO_TEST_ATTACHED"

	// ─── Upstream collaborators ────────────────────────────────────────
	ErrGenerationFailed ErrCode = "GENERATION_FAILED"

	// ─── Documents ─────────────────────────────────────────────────────
	ErrFileRequired ErrCode = "FILE_REQUIRED"
	ErrFileTooLarge ErrCode = "FILE_TOO_LARGE"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrInvalidCredentials:
		return "Email or password is incorrect."
	case ErrAccountNotVerified:
		return "Please verify your account first."
	case ErrInvalidOTP:
		return "Invalid or expired OTP."
	case ErrSessionInvalidated:
		return "Your session has ended. Please log in again."
	case ErrTokenRequired:
		return "Authentication token is required."
	case ErrTokenInvalid:
		return "Authentication token is invalid."
	case ErrForbidden:
		return "You do not have permission to access this resource."
	case ErrStudentOnly:
		return "This resource is restricted to students."
	case ErrAdminOnly:
		return "This resource is restricted to administrators."
	case ErrNotResourceOwner:
		return "You do not own this resource."
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrNotFound:
		return "Resource not found."
	case ErrConflict:
		return "Resource already exists."
	case ErrPendingBookingExists:
		return "You already have a pending test request."
	case ErrInvalidBookingState:
		return "This action is not allowed in the booking's current state."
	case ErrTestNotStarted:
		return "The test is not open yet."
	case ErrAlreadySubmitted:
		return "This test has already been submitted."
	case ErrNoTestAttached:
		return "No test has been generated for this booking."
	case ErrGenerationFailed:
		return "Question generation failed. Please try again."
	case ErrFileRequired:
		return "A file upload is required."
	case ErrFileTooLarge:
		return "The file exceeds the size limit."
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
