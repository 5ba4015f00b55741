package booking

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

func (s Status) String() string { return string(s) }

func (s Status) IsValid() bool {
	return s == StatusPending || s == StatusConfirmed || s == StatusCancelled
}

// Occupies reports whether a booking in this status holds a seat.
func (s Status) Occupies() bool {
	return s == StatusPending || s == StatusConfirmed
}

// PaymentStatus is independent of Status. PaymentNone is stored as NULL.
type PaymentStatus string

const (
	PaymentNone    PaymentStatus = ""
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

func (p PaymentStatus) IsValid() bool {
	switch p {
	case PaymentNone, PaymentPending, PaymentPaid, PaymentFailed:
		return true
	}
	return false
}

// Ptr maps PaymentNone to nil for storage and JSON.
func (p PaymentStatus) Ptr() *string {
	if p == PaymentNone {
		return nil
	}
	s := string(p)
	return &s
}

func PaymentStatusFromPtr(s *string) PaymentStatus {
	if s == nil {
		return PaymentNone
	}
	return PaymentStatus(*s)
}

// PaymentResult tells the caller what applying a payment success did.
type PaymentResult int

const (
	// PaymentApplied confirmed a pending booking.
	PaymentApplied PaymentResult = iota
	// PaymentDuplicate means the booking already recorded the payment.
	PaymentDuplicate
	// PaymentRefundRequired means money arrived for a cancelled booking.
	PaymentRefundRequired
)
