package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/gramseva/portal/modules/admin/domain/session"
	"github.com/gramseva/portal/modules/admin/infrastructure/persistence"
	"github.com/gramseva/portal/pkg/eventbus"
	"github.com/gramseva/portal/pkg/serrors"
)

func newService(t *testing.T, passcode string) (*SessionService, eventbus.EventBus) {
	t.Helper()
	var hash string
	if passcode != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(passcode), bcrypt.MinCost)
		require.NoError(t, err)
		hash = string(h)
	}
	bus := eventbus.NewEventPublisher(logrus.New())
	return NewSessionService(SessionServiceConfig{
		Store:        persistence.NewCacheStore(time.Minute),
		PasscodeHash: hash,
		TTL:          time.Hour,
		Publisher:    bus,
	}), bus
}

func TestSessionService_Login(t *testing.T) {
	ctx := context.Background()
	svc, bus := newService(t, "seva-2024")
	var created []*session.CreatedEvent
	bus.Subscribe(func(e *session.CreatedEvent) { created = append(created, e) })

	_, err := svc.Login(ctx, "wrong")
	assert.ErrorIs(t, err, ErrInvalidPasscode)
	_, err = svc.Login(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidPasscode)

	sess, err := svc.Login(ctx, "seva-2024")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token())
	require.Len(t, created, 1)

	got, err := svc.Get(ctx, sess.Token())
	require.NoError(t, err)
	assert.Equal(t, sess.Token(), got.Token())

	other, err := svc.Login(ctx, "seva-2024")
	require.NoError(t, err)
	assert.NotEqual(t, sess.Token(), other.Token())
}

func TestSessionService_LoginDisabled(t *testing.T) {
	svc, _ := newService(t, "")
	_, err := svc.Login(context.Background(), "anything")
	var svcErr *serrors.ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, http.StatusForbidden, svcErr.Status)
}

func TestSessionService_ExpiryAndLogout(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, "pass")
	sess, err := svc.Login(ctx, "pass")
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.Get(ctx, sess.Token())
	require.ErrorIs(t, err, ErrSessionRequired)

	svc.now = time.Now
	sess, err = svc.Login(ctx, "pass")
	require.NoError(t, err)
	_, err = svc.Lookup(ctx, sess.Token())
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, sess.Token()))
	_, err = svc.Lookup(ctx, sess.Token())
	require.ErrorIs(t, err, ErrSessionRequired)
	_, err = svc.Get(ctx, "")
	require.ErrorIs(t, err, ErrSessionRequired)
}
