package booking

import (
	"net/mail"
	"strings"

	"studio-booking/internal/pkg/errs"
)

const (
	MaxGuestNameLength  = 200
	MaxGuestPhoneLength = 32
)

// Booker is either a registered user or a guest identified by contact fields.
// Registered users may still carry contact fields.
type Booker struct {
	userID *int64
	name   string
	email  string
	phone  *string
}

func NewUserBooker(userID int64, name, email string, phone *string) (Booker, error) {
	if userID <= 0 {
		return Booker{}, errs.Validationf("user id must be positive")
	}
	b := Booker{userID: &userID, name: strings.TrimSpace(name), phone: normalizePhone(phone)}
	if strings.TrimSpace(email) != "" {
		addr, err := parseEmail(email)
		if err != nil {
			return Booker{}, err
		}
		b.email = addr
	}
	return b, nil
}

func NewGuestBooker(name, email string, phone *string) (Booker, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > MaxGuestNameLength {
		return Booker{}, errs.Validationf("guest_name must be 1..%d characters", MaxGuestNameLength)
	}
	addr, err := parseEmail(email)
	if err != nil {
		return Booker{}, err
	}
	phone = normalizePhone(phone)
	if phone != nil && len(*phone) > MaxGuestPhoneLength {
		return Booker{}, errs.Validationf("guest_phone must be at most %d characters", MaxGuestPhoneLength)
	}
	return Booker{name: name, email: addr, phone: phone}, nil
}

// NewBooker picks the user variant when userID is set.
func NewBooker(userID *int64, name, email string, phone *string) (Booker, error) {
	if userID != nil {
		return NewUserBooker(*userID, name, email, phone)
	}
	return NewGuestBooker(name, email, phone)
}

func (b Booker) UserID() *int64 { return b.userID }
func (b Booker) IsGuest() bool  { return b.userID == nil }
func (b Booker) Name() string   { return b.name }
func (b Booker) Email() string  { return b.email }
func (b Booker) Phone() *string { return b.phone }

func (b Booker) IsUser(userID int64) bool {
	return b.userID != nil && *b.userID == userID
}

func parseEmail(s string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(s))
	if err != nil {
		return "", errs.Validationf("guest_email is not a valid address")
	}
	return strings.ToLower(addr.Address), nil
}

func normalizePhone(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}
