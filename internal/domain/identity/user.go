package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/zreport/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/cases"
)

const bcryptCost = bcrypt.DefaultCost

const minPasswordLength = 8

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+$`)

// User is an account that can sign in
type User struct {
	shared.BaseAggregateRoot
	Email        string
	PasswordHash string
	Role         Role
	Active       bool
	LastLoginAt  *time.Time
}

// NewUser creates an active user with a hashed password
func NewUser(email, password string, role Role) (*User, error) {
	email, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, shared.NewDomainErrorf("INVALID_INPUT", "Unknown role %q", role)
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	return &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             email,
		PasswordHash:      hash,
		Role:              role,
		Active:            true,
	}, nil
}

// NormalizeEmail trims and case-folds an email, rejecting malformed input
func NormalizeEmail(email string) (string, error) {
	email = cases.Fold().String(strings.TrimSpace(email))
	if email == "" {
		return "", shared.NewDomainError("INVALID_INPUT", "Email cannot be empty")
	}
	if len(email) > 200 {
		return "", shared.NewDomainError("INVALID_INPUT", "Email cannot exceed 200 characters")
	}
	if !emailPattern.MatchString(email) {
		return "", shared.NewDomainError("INVALID_INPUT", "Invalid email format")
	}
	return email, nil
}

// SetPassword replaces the password hash
func (u *User) SetPassword(password string) error {
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	u.Touch()
	u.IncrementVersion()
	return nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// CanLogin returns true if user can login
func (u *User) CanLogin() bool {
	return u.Active && u.Role.IsValid()
}

// RecordLogin stamps a successful login
func (u *User) RecordLogin() {
	now := time.Now()
	u.LastLoginAt = &now
	u.UpdatedAt = now
}

// Can reports whether the user's role allows action
func (u *User) Can(action Action) bool {
	return u.Active && Can(u.Role, action)
}

func hashPassword(password string) (string, error) {
	if len(password) < minPasswordLength {
		return "", shared.NewDomainErrorf("INVALID_INPUT", "Password must be at least %d characters", minPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	return string(hash), nil
}
