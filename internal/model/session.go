package model

import (
	"time"
)

// AuthSession is an opaque credential issued on sign-in. Only the SHA-256
// hash of the token is stored. Recovery sessions are short-lived sessions
// minted by the password reset flow; they can only be used to set a new
// password.
type AuthSession struct {
	ID        string     `db:"id" json:"id"`
	UserID    string     `db:"user_id" json:"userId"`
	TokenHash string     `db:"token_hash" json:"-"`
	Recovery  bool       `db:"recovery" json:"recovery"`
	RevokedAt *time.Time `db:"revoked_at" json:"revokedAt,omitempty"`
	ExpiresAt time.Time  `db:"expires_at" json:"expiresAt"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
}

type CreateAuthSessionParams struct {
	UserID    string
	TokenHash string
	Recovery  bool
	ExpiresAt time.Time
}

// SessionEventType identifies why the auth resolution chain is being re-run.
type SessionEventType string

const (
	EventInitialSession   SessionEventType = "INITIAL_SESSION"
	EventSignedIn         SessionEventType = "SIGNED_IN"
	EventSignedOut        SessionEventType = "SIGNED_OUT"
	EventTokenRefreshed   SessionEventType = "TOKEN_REFRESHED"
	EventUserUpdated      SessionEventType = "USER_UPDATED"
	EventPasswordRecovery SessionEventType = "PASSWORD_RECOVERY"
)

// SignInAdjacent reports whether a profile row may legitimately still be
// missing when this event fires, because the signup provisioning step runs
// asynchronously. Only these events are worth retrying a missing profile
// for.
func (t SessionEventType) SignInAdjacent() bool {
	switch t {
	case EventSignedIn, EventInitialSession, EventUserUpdated:
		return true
	}
	return false
}

type SessionEvent struct {
	Type    SessionEventType `json:"type"`
	UserID  string           `json:"userId,omitempty"`
	Session *AuthSession     `json:"-"`
}
