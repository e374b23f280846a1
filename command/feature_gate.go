package command

import (
	"context"

	featuregate "github.com/goliatone/go-featuregate/gate"
	"github.com/goliatone/go-hatchery/pkg/types"
	"github.com/google/uuid"
)

const (
	featureStaffSignup  = "staff.signup"
	featureActivityEdit = "activity.edit"
)

func featureEnabled(ctx context.Context, gate featuregate.FeatureGate, key string, scope types.ScopeFilter, userID uuid.UUID) (bool, error) {
	if gate == nil {
		return true, nil
	}
	chain := featureScopeChain(scope, userID)
	if len(chain) == 0 {
		return gate.Enabled(ctx, key)
	}
	return gate.Enabled(ctx, key, featuregate.WithScopeChain(chain))
}

// featureScopeChain orders overrides most specific first: the staff member,
// then the hatchery (the gate's tenant), then the system default.
func featureScopeChain(scope types.ScopeFilter, userID uuid.UUID) featuregate.ScopeChain {
	hatcheryID := ""
	if scope.HatcheryID != uuid.Nil {
		hatcheryID = scope.HatcheryID.String()
	}

	var chain featuregate.ScopeChain
	if userID != uuid.Nil {
		chain = append(chain, featuregate.ScopeRef{
			Kind:     featuregate.ScopeUser,
			ID:       userID.String(),
			TenantID: hatcheryID,
		})
	}
	if hatcheryID != "" {
		chain = append(chain, featuregate.ScopeRef{
			Kind:     featuregate.ScopeTenant,
			ID:       hatcheryID,
			TenantID: hatcheryID,
		})
	}
	if len(chain) == 0 {
		return nil
	}
	return append(chain, featuregate.ScopeRef{Kind: featuregate.ScopeSystem})
}
