package service

import (
	"context"
	"time"

	featuregate "github.com/goliatone/go-featuregate/gate"
	"github.com/goliatone/go-hatchery/command"
	"github.com/goliatone/go-hatchery/pkg/types"
	"github.com/goliatone/go-hatchery/preferences"
	"github.com/goliatone/go-hatchery/query"
	"github.com/goliatone/go-hatchery/scope"
	"github.com/goliatone/go-masker"
)

// Service is the entry point for go-hatchery. It wires repositories, hooks,
// and command/query facades supplied by the host application.
type Service struct {
	cfg            Config
	commands       Commands
	queries        Queries
	hatcheryRepo   types.HatcheryRepository
	hierarchyRepo  types.HierarchyRepository
	activityRepo   types.ActivityRepository
	accessRepo     types.AccessRepository
	profileRepo    types.ProfileRepository
	preferenceRepo types.PreferenceRepository
	catalogRepo    types.CatalogRepository
	tokenRepo      types.ActivationTokenRepository
	prefResolver   PreferenceResolver
	scopeGuard     scope.Guard
}

// Commands exposes the service command handlers.
type Commands struct {
	HatcheryRegister *command.HatcheryRegisterCommand
	FarmCreate       *command.FarmCreateCommand
	FarmReconcile    *command.FarmReconcileCommand
	FarmDelete       *command.FarmDeleteCommand
	StaffProvision   *command.StaffProvisionCommand
	ProfileClaim     *command.ProfileClaimCommand
	ProfileDelete    *command.ProfileDeleteCommand
	AccessReplace    *command.AccessReplaceCommand
	ActivityRecord   *command.ActivityRecordCommand
	ActivityUpdate   *command.ActivityUpdateCommand
	PreferenceUpsert *command.PreferenceUpsertCommand
	PreferenceDelete *command.PreferenceDeleteCommand
	TokenValidate    *command.TokenValidateCommand
}

// Queries exposes read-model helpers.
type Queries struct {
	FarmTree       *query.FarmTreeQuery
	TankPicker     *query.TankPickerQuery
	ActivityFeed   *query.ActivityFeedQuery
	ActivityReport *query.ActivityReportQuery
	StaffDirectory *query.StaffDirectoryQuery
	Preferences    *query.PreferenceQuery
}

// Config captures all required dependencies so callers can provide their own
// instances (bun.DB, cached repositories, hooks, etc.).
type Config struct {
	HatcheryRepository   types.HatcheryRepository
	HierarchyRepository  types.HierarchyRepository
	ActivityRepository   types.ActivityRepository
	AccessRepository     types.AccessRepository
	ProfileRepository    types.ProfileRepository
	PreferenceRepository types.PreferenceRepository
	CatalogRepository    types.CatalogRepository
	TokenRepository      types.ActivationTokenRepository
	AuthRepository       types.AuthRepository
	SecureLinks          types.SecureLinkManager
	ScopeEnforcer        types.ScopeEnforcer
	FeatureGate          featuregate.FeatureGate
	PreferenceResolver   PreferenceResolver
	Masker               *masker.Masker
	Hooks                types.Hooks
	Clock                types.Clock
	IDGenerator          types.IDGenerator
	Logger               types.Logger
	ClaimTokenTTL        time.Duration
	ClaimRoute           string
	ScopeResolver        types.ScopeResolver
	AuthorizationPolicy  types.AuthorizationPolicy
}

// PreferenceResolver resolves scoped preferences for queries.
type PreferenceResolver interface {
	Resolve(ctx context.Context, input preferences.ResolveInput) (types.PreferenceSnapshot, error)
}

// New constructs a Service from the supplied configuration.
func New(cfg Config) *Service {
	norm := normalizeConfig(cfg)
	prefResolver := norm.PreferenceResolver
	if prefResolver == nil && norm.PreferenceRepository != nil {
		if resolver, err := preferences.NewResolver(preferences.ResolverConfig{
			Repository: norm.PreferenceRepository,
		}); err == nil {
			prefResolver = resolver
		} else if norm.Logger != nil {
			norm.Logger.Error("go-hatchery: preference resolver initialization failed", err)
		}
	}

	scopeGuard := scope.Ensure(scope.NewGuard(norm.ScopeResolver, norm.AuthorizationPolicy))

	s := &Service{
		cfg:            norm,
		hatcheryRepo:   norm.HatcheryRepository,
		hierarchyRepo:  norm.HierarchyRepository,
		activityRepo:   norm.ActivityRepository,
		accessRepo:     norm.AccessRepository,
		profileRepo:    norm.ProfileRepository,
		preferenceRepo: norm.PreferenceRepository,
		catalogRepo:    norm.CatalogRepository,
		tokenRepo:      norm.TokenRepository,
		prefResolver:   prefResolver,
		scopeGuard:     scopeGuard,
	}
	s.commands = s.buildCommands()
	s.queries = s.buildQueries()
	return s
}

func normalizeConfig(cfg Config) Config {
	if cfg.Clock == nil {
		cfg.Clock = types.SystemClock{}
	}
	if cfg.IDGenerator == nil {
		cfg.IDGenerator = types.UUIDGenerator{}
	}
	if cfg.Logger == nil {
		cfg.Logger = types.NopLogger{}
	}
	return cfg
}

// Commands returns the command facade.
func (s *Service) Commands() Commands {
	return s.commands
}

// Queries returns the query facade.
func (s *Service) Queries() Queries {
	return s.queries
}

// Ready reports whether the service has the required dependencies wired in.
func (s *Service) Ready() bool {
	return s != nil &&
		s.hatcheryRepo != nil &&
		s.hierarchyRepo != nil &&
		s.activityRepo != nil &&
		s.accessRepo != nil &&
		s.profileRepo != nil &&
		s.preferenceRepo != nil &&
		s.prefResolver != nil
}

// HealthCheck surfaces missing configuration so upstream transports
// (REST/gRPC/jobs) can refuse to start against a partially wired service.
func (s *Service) HealthCheck(ctx context.Context) error {
	if !s.Ready() {
		return types.ErrServiceNotReady
	}
	if s.hatcheryRepo == nil {
		return types.ErrMissingHatcheryRepository
	}
	if s.hierarchyRepo == nil {
		return types.ErrMissingHierarchyRepository
	}
	if s.activityRepo == nil {
		return types.ErrMissingActivityRepository
	}
	if s.accessRepo == nil {
		return types.ErrMissingAccessRepository
	}
	if s.profileRepo == nil {
		return types.ErrMissingProfileRepository
	}
	if s.preferenceRepo == nil {
		return types.ErrMissingPreferenceRepository
	}
	if s.prefResolver == nil {
		return types.ErrMissingPreferenceResolver
	}
	return nil
}

// ScopeGuard exposes the guard instance used internally so transports can reuse
// the same resolver/policy combination for HTTP adapters.
func (s *Service) ScopeGuard() scope.Guard {
	if s == nil {
		return scope.NopGuard()
	}
	return scope.Ensure(s.scopeGuard)
}

func (s *Service) buildCommands() Commands {
	farmCfg := command.FarmCommandConfig{
		Repository: s.hierarchyRepo,
		Clock:      s.cfg.Clock,
		Hooks:      s.cfg.Hooks,
		Logger:     s.cfg.Logger,
		ScopeGuard: s.scopeGuard,
	}
	preferenceCfg := command.PreferenceCommandConfig{
		Repository: s.preferenceRepo,
		Hooks:      s.cfg.Hooks,
		Clock:      s.cfg.Clock,
		ScopeGuard: s.scopeGuard,
	}
	return Commands{
		HatcheryRegister: command.NewHatcheryRegisterCommand(command.HatcheryRegisterConfig{
			HatcheryRepository: s.hatcheryRepo,
			ProfileRepository:  s.profileRepo,
			CatalogRepository:  s.catalogRepo,
			Clock:              s.cfg.Clock,
			IDGen:              s.cfg.IDGenerator,
			Hooks:              s.cfg.Hooks,
			Logger:             s.cfg.Logger,
		}),
		FarmCreate: command.NewFarmCreateCommand(farmCfg),
		FarmReconcile: command.NewFarmReconcileCommand(command.FarmReconcileConfig{
			Repository: s.hierarchyRepo,
			Clock:      s.cfg.Clock,
			Hooks:      s.cfg.Hooks,
			Logger:     s.cfg.Logger,
			ScopeGuard: s.scopeGuard,
		}),
		FarmDelete: command.NewFarmDeleteCommand(farmCfg),
		StaffProvision: command.NewStaffProvisionCommand(command.StaffProvisionConfig{
			ProfileRepository: s.profileRepo,
			AccessRepository:  s.accessRepo,
			TokenRepository:   s.tokenRepo,
			SecureLinks:       s.cfg.SecureLinks,
			Clock:             s.cfg.Clock,
			IDGen:             s.cfg.IDGenerator,
			Hooks:             s.cfg.Hooks,
			Logger:            s.cfg.Logger,
			TokenTTL:          s.cfg.ClaimTokenTTL,
			ScopeGuard:        s.scopeGuard,
			Route:             s.cfg.ClaimRoute,
		}),
		ProfileClaim: command.NewProfileClaimCommand(command.ProfileClaimConfig{
			ProfileRepository: s.profileRepo,
			TokenRepository:   s.tokenRepo,
			AuthRepository:    s.cfg.AuthRepository,
			SecureLinks:       s.cfg.SecureLinks,
			ScopeEnforcer:     s.cfg.ScopeEnforcer,
			Clock:             s.cfg.Clock,
			Hooks:             s.cfg.Hooks,
			Logger:            s.cfg.Logger,
			FeatureGate:       s.cfg.FeatureGate,
		}),
		ProfileDelete: command.NewProfileDeleteCommand(command.ProfileDeleteConfig{
			ProfileRepository:  s.profileRepo,
			AccessRepository:   s.accessRepo,
			ActivityRepository: s.activityRepo,
			Clock:              s.cfg.Clock,
			Hooks:              s.cfg.Hooks,
			Logger:             s.cfg.Logger,
			ScopeGuard:         s.scopeGuard,
		}),
		AccessReplace: command.NewAccessReplaceCommand(command.AccessReplaceConfig{
			Repository: s.accessRepo,
			Clock:      s.cfg.Clock,
			Hooks:      s.cfg.Hooks,
			Logger:     s.cfg.Logger,
			ScopeGuard: s.scopeGuard,
		}),
		ActivityRecord: command.NewActivityRecordCommand(command.ActivityCommandConfig{
			Repository: s.activityRepo,
			Clock:      s.cfg.Clock,
			Hooks:      s.cfg.Hooks,
			Logger:     s.cfg.Logger,
			ScopeGuard: s.scopeGuard,
		}),
		ActivityUpdate: command.NewActivityUpdateCommand(command.ActivityUpdateConfig{
			Repository:  s.activityRepo,
			Clock:       s.cfg.Clock,
			Hooks:       s.cfg.Hooks,
			Logger:      s.cfg.Logger,
			ScopeGuard:  s.scopeGuard,
			FeatureGate: s.cfg.FeatureGate,
		}),
		PreferenceUpsert: command.NewPreferenceUpsertCommand(preferenceCfg),
		PreferenceDelete: command.NewPreferenceDeleteCommand(preferenceCfg),
		TokenValidate: command.NewTokenValidateCommand(command.TokenValidateConfig{
			TokenRepository: s.tokenRepo,
			SecureLinks:     s.cfg.SecureLinks,
			Clock:           s.cfg.Clock,
			ScopeEnforcer:   s.cfg.ScopeEnforcer,
		}),
	}
}

func (s *Service) buildQueries() Queries {
	return Queries{
		FarmTree:       query.NewFarmTreeQuery(s.hierarchyRepo, s.scopeGuard),
		TankPicker:     query.NewTankPickerQuery(s.hierarchyRepo, s.accessRepo, s.scopeGuard),
		ActivityFeed:   query.NewActivityFeedQuery(s.activityRepo, s.cfg.Masker, s.scopeGuard),
		ActivityReport: query.NewActivityReportQuery(s.activityRepo, s.scopeGuard),
		StaffDirectory: query.NewStaffDirectoryQuery(s.profileRepo, s.scopeGuard),
		Preferences:    query.NewPreferenceQuery(s.prefResolver, s.scopeGuard),
	}
}
