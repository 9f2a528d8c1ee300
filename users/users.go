package users

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// User is a dashboard account. Superusers see the admin views.
type User struct {
	ID           string    `json:"id,omitempty"`
	Username     string    `json:"username,omitempty"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	IsSuperuser  bool      `json:"is_superuser"`
	DateJoined   time.Time `json:"date_joined,omitempty"`
	LastLogin    time.Time `json:"last_login,omitempty"`
}

// maxPasswordBytes is bcrypt's input limit.
const maxPasswordBytes = 72

// ErrWeakPassword is matched by every error ValidatePasswordStrength returns.
var ErrWeakPassword = errors.New("weak password")

// PasswordError says which rule a password broke. Its message is shown to the
// user as is.
type PasswordError struct {
	Reason string
}

func (e *PasswordError) Error() string { return e.Reason }

func (e *PasswordError) Is(target error) bool { return target == ErrWeakPassword }

type passwordRule struct {
	ok     func(string) bool
	reason string
}

func containsRune(pred func(rune) bool) func(string) bool {
	return func(s string) bool { return strings.IndexFunc(s, pred) >= 0 }
}

var passwordRules = []passwordRule{
	{func(s string) bool { return len(s) >= 8 }, "password must be at least 8 characters long"},
	{func(s string) bool { return len(s) <= maxPasswordBytes }, fmt.Sprintf("password must be at most %d bytes long", maxPasswordBytes)},
	{containsRune(unicode.IsUpper), "password must contain at least one uppercase letter"},
	{containsRune(unicode.IsLower), "password must contain at least one lowercase letter"},
	{containsRune(unicode.IsDigit), "password must contain at least one number"},
}

// ValidatePasswordStrength reports the first rule password breaks as a
// *PasswordError.
func ValidatePasswordStrength(password string) error {
	for _, rule := range passwordRules {
		if !rule.ok(password) {
			return &PasswordError{Reason: rule.reason}
		}
	}
	return nil
}

// New builds a user with a bcrypt hash of password, rejecting weak passwords.
func New(username, email, password string, superuser bool) (*User, error) {
	if err := ValidatePasswordStrength(password); err != nil {
		return nil, err
	}
	u := &User{
		ID:          uuid.NewString(),
		Username:    strings.TrimSpace(username),
		Email:       strings.TrimSpace(email),
		IsSuperuser: superuser,
		DateJoined:  time.Now().UTC(),
	}
	if err := u.SetPassword(password); err != nil {
		return nil, err
	}
	return u, nil
}

func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether password matches the user's stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}
