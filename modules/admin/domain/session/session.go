package session

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("session not found")

// Session is an authenticated admin session. The token is the only credential.
type Session struct {
	token     string
	ip        string
	userAgent string
	createdAt time.Time
	expiresAt time.Time
}

func New(token, ip, userAgent string, createdAt time.Time, ttl time.Duration) Session {
	return Session{
		token:     token,
		ip:        ip,
		userAgent: userAgent,
		createdAt: createdAt,
		expiresAt: createdAt.Add(ttl),
	}
}

func (s Session) Token() string        { return s.token }
func (s Session) IP() string           { return s.ip }
func (s Session) UserAgent() string    { return s.userAgent }
func (s Session) CreatedAt() time.Time { return s.createdAt }
func (s Session) ExpiresAt() time.Time { return s.expiresAt }

func (s Session) IsExpired(now time.Time) bool {
	return !now.Before(s.expiresAt)
}

type Store interface {
	Get(ctx context.Context, token string) (Session, error)
	Save(ctx context.Context, s Session) error
	Delete(ctx context.Context, token string) error
}

type CreatedEvent struct {
	Result Session
}

type DeletedEvent struct {
	Token string
}

func NewCreatedEvent(s Session) *CreatedEvent    { return &CreatedEvent{Result: s} }
func NewDeletedEvent(token string) *DeletedEvent { return &DeletedEvent{Token: token} }
