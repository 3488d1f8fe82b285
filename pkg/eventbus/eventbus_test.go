package eventbus

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type districtCreated struct {
	name string
}

type villageCreated struct{}

func bufferedLogger(level logrus.Level) (*logrus.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	log := logrus.New()
	log.SetOutput(buf)
	log.SetLevel(level)
	return log, buf
}

func TestPublisher_NoMatchingSubscribersIsLogged(t *testing.T) {
	log, buf := bufferedLogger(logrus.WarnLevel)
	publisher := NewEventPublisher(log)
	publisher.Subscribe(func(e *districtCreated) {
		t.Error("should not be called")
	})

	publisher.Publish(&villageCreated{})

	assert.Contains(t, buf.String(), "eventbus.Publish: no matching subscribers")
}

func TestPublisher_DeliversToMatchingHandler(t *testing.T) {
	publisher := NewEventPublisher(logrus.New())
	var got string
	publisher.Subscribe(func(e *districtCreated) { got = e.name })

	publisher.Publish(&districtCreated{name: "Pune"})

	assert.Equal(t, "Pune", got)
	assert.Equal(t, 1, publisher.SubscribersCount())
}

func TestMatchSignature(t *testing.T) {
	assert.True(t, MatchSignature(func(e *districtCreated) {}, []any{&districtCreated{}}))
	assert.False(t, MatchSignature(func(e *districtCreated) {}, []any{&villageCreated{}}))
	assert.False(t, MatchSignature(func(e *districtCreated) {}, []any{}))
	assert.True(t, MatchSignature(func(ctx context.Context) {}, []any{context.Background()}))
	assert.True(t, MatchSignature(func(e *districtCreated) {}, []any{nil}))
}

func TestPublisher_PanicDoesNotStopOtherHandlers(t *testing.T) {
	log, buf := bufferedLogger(logrus.WarnLevel)
	publisher := NewEventPublisher(log)

	called := false
	publisher.Subscribe(func(e *districtCreated) { panic("boom") })
	publisher.Subscribe(func(e *districtCreated) { called = true })

	publisher.Publish(&districtCreated{})

	assert.True(t, called)
	assert.Contains(t, buf.String(), "panicked")
	assert.NotContains(t, buf.String(), "no matching subscribers")
}

func TestPublisher_PublishE(t *testing.T) {
	t.Run("no subscribers", func(t *testing.T) {
		err := NewEventPublisher(nil).PublishE(&districtCreated{})
		require.ErrorIs(t, err, ErrNoSubscribers)
	})

	t.Run("joins handler errors", func(t *testing.T) {
		publisher := NewEventPublisher(nil)
		err1, err2 := errors.New("err1"), errors.New("err2")
		publisher.Subscribe(func(e *districtCreated) error { return err1 })
		publisher.Subscribe(func(e *districtCreated) error { return err2 })

		err := publisher.PublishE(&districtCreated{})
		require.ErrorIs(t, err, err1)
		require.ErrorIs(t, err, err2)
	})

	t.Run("invalid return signature", func(t *testing.T) {
		publisher := NewEventPublisher(nil)
		publisher.Subscribe(func(e *districtCreated) int { return 1 })

		err := publisher.PublishE(&districtCreated{})
		require.ErrorIs(t, err, ErrInvalidHandlerReturn)
	})
}

func TestPublisher_UnsubscribeAndClear(t *testing.T) {
	publisher := NewEventPublisher(nil)
	h := func(e *districtCreated) {}
	publisher.Subscribe(h)
	publisher.Subscribe(func(e *villageCreated) {})

	publisher.Unsubscribe(h)
	assert.Equal(t, 1, publisher.SubscribersCount())

	publisher.Clear()
	assert.Equal(t, 0, publisher.SubscribersCount())
}
