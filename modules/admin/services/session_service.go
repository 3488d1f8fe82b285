package services

import (
	"context"
	"crypto/rand"
	"errors"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/gramseva/portal/modules/admin/domain/session"
	"github.com/gramseva/portal/pkg/composables"
	"github.com/gramseva/portal/pkg/eventbus"
	"github.com/gramseva/portal/pkg/serrors"
)

var (
	ErrInvalidPasscode = serrors.Unauthorized("ADMIN_INVALID_PASSCODE", "Unauthorized: invalid admin passcode")
	ErrLoginDisabled   = serrors.NewServiceError(http.StatusForbidden, "ADMIN_LOGIN_DISABLED", "Admin login is disabled", nil)
	ErrSessionRequired = serrors.Unauthorized("ADMIN_UNAUTHORIZED", "Unauthorized: admin session required")
)

type SessionServiceConfig struct {
	Store session.Store
	// PasscodeHash is a bcrypt hash; empty disables login.
	PasscodeHash string
	TTL          time.Duration
	Publisher    eventbus.EventBus
}

type SessionService struct {
	store        session.Store
	passcodeHash []byte
	ttl          time.Duration
	publisher    eventbus.EventBus
	now          func() time.Time
}

func NewSessionService(config SessionServiceConfig) *SessionService {
	return &SessionService{
		store:        config.Store,
		passcodeHash: []byte(strings.TrimSpace(config.PasscodeHash)),
		ttl:          config.TTL,
		publisher:    config.Publisher,
		now:          time.Now,
	}
}

// Login checks passcode against the configured hash and opens a session.
func (s *SessionService) Login(ctx context.Context, passcode string) (session.Session, error) {
	if len(s.passcodeHash) == 0 {
		return session.Session{}, ErrLoginDisabled
	}
	if passcode == "" || bcrypt.CompareHashAndPassword(s.passcodeHash, []byte(passcode)) != nil {
		composables.UseLogger(ctx).Warn("admin login rejected")
		return session.Session{}, ErrInvalidPasscode
	}

	var ip, ua string
	if params, ok := composables.UseParams(ctx); ok {
		ip, ua = params.IP, params.UserAgent
	}
	sess := session.New(rand.Text(), ip, ua, s.now(), s.ttl)
	if err := s.store.Save(ctx, sess); err != nil {
		return session.Session{}, err
	}
	s.publisher.Publish(session.NewCreatedEvent(sess))
	return sess, nil
}

// Get returns the live session for token.
func (s *SessionService) Get(ctx context.Context, token string) (session.Session, error) {
	if token == "" {
		return session.Session{}, ErrSessionRequired
	}
	sess, err := s.store.Get(ctx, token)
	if errors.Is(err, session.ErrNotFound) {
		return session.Session{}, ErrSessionRequired
	}
	if err != nil {
		return session.Session{}, err
	}
	if sess.IsExpired(s.now()) {
		_ = s.store.Delete(ctx, token)
		return session.Session{}, ErrSessionRequired
	}
	return sess, nil
}

// Lookup adapts Get to the session middleware.
func (s *SessionService) Lookup(ctx context.Context, token string) (composables.AdminSession, error) {
	sess, err := s.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *SessionService) Logout(ctx context.Context, token string) error {
	if err := s.store.Delete(ctx, token); err != nil {
		return err
	}
	s.publisher.Publish(session.NewDeletedEvent(token))
	return nil
}
