package composables

import (
	"context"
	"errors"

	"github.com/gramseva/portal/pkg/constants"
	"github.com/gramseva/portal/pkg/serrors"
)

var ErrNoSession = errors.New("no admin session found in context")

// AdminSession is the context view of an authenticated admin session.
type AdminSession interface {
	Token() string
}

func WithAdminSession(ctx context.Context, sess AdminSession) context.Context {
	return context.WithValue(ctx, constants.SessionKey, sess)
}

func UseAdminSession(ctx context.Context) (AdminSession, error) {
	sess, ok := ctx.Value(constants.SessionKey).(AdminSession)
	if !ok || sess == nil {
		return nil, ErrNoSession
	}
	return sess, nil
}

// RequireAdminSession returns a 401 service error unless ctx carries an admin session.
func RequireAdminSession(ctx context.Context) error {
	if _, err := UseAdminSession(ctx); err != nil {
		return serrors.Unauthorized("ADMIN_UNAUTHORIZED", "Unauthorized: admin session required")
	}
	return nil
}
