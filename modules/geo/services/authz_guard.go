package services

import (
	"context"

	"github.com/gramseva/portal/pkg/composables"
)

// authorizeAdmin guards every geo write. Tests may replace it.
var authorizeAdmin = func(ctx context.Context) error {
	return composables.RequireAdminSession(ctx)
}
