package command

import (
	"context"
	"time"

	"github.com/goliatone/go-hatchery/pkg/types"
	"github.com/goliatone/go-hatchery/scope"
)

func safeClock(clock types.Clock) types.Clock {
	if clock != nil {
		return clock
	}
	return types.SystemClock{}
}

func safeLogger(logger types.Logger) types.Logger {
	if logger != nil {
		return logger
	}
	return types.NopLogger{}
}

func safeHooks(hooks types.Hooks) types.Hooks {
	return hooks
}

func safeScopeGuard(g scope.Guard) scope.Guard {
	return scope.Ensure(g)
}

func now(clock types.Clock) time.Time {
	if clock == nil {
		return time.Now().UTC()
	}
	return clock.Now()
}

func emitHierarchyHook(ctx context.Context, hooks types.Hooks, event types.HierarchyEvent) {
	if hooks.AfterHierarchyChange == nil {
		return
	}
	hooks.AfterHierarchyChange(ctx, event)
}

func emitProfileHook(ctx context.Context, hooks types.Hooks, event types.ProfileEvent) {
	if hooks.AfterProfileChange == nil {
		return
	}
	hooks.AfterProfileChange(ctx, event)
}

func emitAccessHook(ctx context.Context, hooks types.Hooks, event types.AccessEvent) {
	if hooks.AfterAccessChange == nil {
		return
	}
	hooks.AfterAccessChange(ctx, event)
}

func emitActivityHook(ctx context.Context, hooks types.Hooks, event types.ActivityEvent) {
	if hooks.AfterActivity == nil {
		return
	}
	hooks.AfterActivity(ctx, event)
}

func emitPreferenceHook(ctx context.Context, hooks types.Hooks, event types.PreferenceEvent) {
	if hooks.AfterPreferenceChange == nil {
		return
	}
	hooks.AfterPreferenceChange(ctx, event)
}

func cloneMap(src map[string]any) map[string]any {
	if len(src) == 0 {
		return map[string]any{}
	}
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
