package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/zreport/backend/internal/domain/identity"
)

// LoginInput contains the input for user login
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	AccessToken string
	ExpiresAt   time.Time
	TokenType   string
	User        UserInfo
}

// UserInfo contains the user data returned to clients
type UserInfo struct {
	ID          uuid.UUID
	Email       string
	Role        identity.Role
	LastLoginAt *time.Time
}

// LogoutInput identifies the token being revoked
type LogoutInput struct {
	UserID   uuid.UUID
	TokenJTI string
	// RemainingTTL is how long the token would still be accepted
	RemainingTTL time.Duration
}

// EnsureUserInput describes a seed account
type EnsureUserInput struct {
	Email    string
	Password string
	Role     identity.Role
}

func toUserInfo(u *identity.User) UserInfo {
	return UserInfo{
		ID:          u.ID,
		Email:       u.Email,
		Role:        u.Role,
		LastLoginAt: u.LastLoginAt,
	}
}
