package errs

import "errors"

// Business outcomes shared by the domain, usecase and handler layers.
// Callers branch on these with errs.Is.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrForbidden  = errors.New("forbidden")
	ErrConflict   = errors.New("conflict")

	// Admission
	ErrSlotClosed = errors.New("slot closed")
	ErrSlotFull   = errors.New("slot full")

	// Cancellation
	ErrCancellationWindowExpired = errors.New("cancellation window expired")
	ErrSlotAlreadyOccurred       = errors.New("slot already occurred")
	ErrBookingAlreadyCancelled   = errors.New("booking already cancelled")

	// Lifecycle
	ErrInvalidTransition = errors.New("invalid booking transition")

	// Payment
	ErrPaymentFailed    = errors.New("payment failed")
	ErrInvalidSignature = errors.New("invalid webhook signature")
)

// Not-found variants match ErrNotFound but stay distinct from each other.
var (
	ErrStudioNotFound  = NewKind("studio not found", ErrNotFound)
	ErrServiceNotFound = NewKind("service not found", ErrNotFound)
	ErrSlotNotFound    = NewKind("slot not found", ErrNotFound)
	ErrBookingNotFound = NewKind("booking not found", ErrNotFound)
)

type kindError struct {
	msg  string
	kind error
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Is(target error) bool { return target == e.kind }

// NewKind returns a sentinel that satisfies Is(err, kind). Two sentinels
// of the same kind never match each other, which a Mark would not give.
func NewKind(msg string, kind error) error {
	return &kindError{msg: msg, kind: kind}
}

// Reason returns the message of the first NewKind sentinel in err's chain.
func Reason(err error) (string, bool) {
	var k *kindError
	if errors.As(err, &k) {
		return k.msg, true
	}
	return "", false
}

// Validationf builds a validation error carrying a human readable reason.
func Validationf(format string, args ...any) error {
	return Mark(Newf(format, args...), ErrValidation)
}
