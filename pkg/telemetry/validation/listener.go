package validation

import (
	"context"

	"github.com/goliatone/go-auth/middleware/jwtware"
	"github.com/goliatone/go-hatchery/pkg/authctx"
	"github.com/goliatone/go-hatchery/pkg/types"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
)

// SchemaNotifier receives callbacks whenever an authenticated actor is
// validated so schema exporters can refresh caches.
type SchemaNotifier interface {
	Notify(ctx context.Context, actorID uuid.UUID, metadata map[string]any)
}

// ListenerOptions customize the validation listener behaviour.
type ListenerOptions struct {
	Logger         types.Logger
	SchemaNotifier SchemaNotifier
}

// NewListener returns a jwtware.ValidationListener that logs validated actors
// and notifies schema observers. Admin panels hang their form-schema refresh
// off this hook so a technician logging in always sees current catalogs.
func NewListener(opts ListenerOptions) jwtware.ValidationListener {
	logger := opts.Logger
	if logger == nil {
		logger = types.NopLogger{}
	}
	return func(ctx router.Context, claims jwtware.AuthClaims) error {
		actorCtx, err := authctx.ResolveActorContextFromRouter(ctx)
		if err != nil {
			logger.Error("validation listener failed to resolve actor", err)
			return nil
		}
		logger.Debug("auth token validated",
			"actor_id", actorCtx.ActorID,
			"hatchery_id", actorCtx.TenantID,
			"role", actorCtx.Role,
			"subject", claims.Subject(),
		)
		if opts.SchemaNotifier != nil {
			opts.SchemaNotifier.Notify(ctx.Context(), parseUUID(actorCtx.ActorID), actorCtx.Metadata)
		}
		return nil
	}
}

func parseUUID(value string) uuid.UUID {
	if value == "" {
		return uuid.Nil
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil
	}
	return id
}
