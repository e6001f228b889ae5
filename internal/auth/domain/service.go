package domain

import (
	"context"
	"time"
)

type LoginRequest struct {
	// Identifier is an email address or mobile number.
	Identifier string
	Password   string
	UserAgent  string
	IPAddress  string
}

type LoginResult struct {
	Identity  Identity
	RawToken  string
	ExpiresAt time.Time
}

type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	Logout(ctx context.Context, rawToken string) error
	// Authenticate resolves a raw session token to the identity it was
	// issued for. Expired and revoked sessions are rejected.
	Authenticate(ctx context.Context, rawToken string) (*Identity, error)
	// ChangePassword verifies the current password, stores the new hash
	// and revokes every other session of the user; the session making the
	// change stays valid.
	ChangePassword(ctx context.Context, userID, sessionID string, currentPassword, newPassword string) error
}
