package crudsvc

import (
	"strings"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-crud"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-hatchery/crudguard"
	"github.com/goliatone/go-hatchery/pkg/types"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

// StaffServiceConfig wires dependencies for the staff directory controller.
type StaffServiceConfig struct {
	Guard     GuardAdapter
	Directory gocommand.Querier[types.StaffFilter, types.StaffPage]
	Profiles  types.ProfileRepository
}

// StaffService provides a read-only go-crud service backed by the staff
// directory query so admin panels can list/search profiles without bypassing
// guards. Provisioning and claiming stay on the command layer.
type StaffService struct {
	guard     GuardAdapter
	directory gocommand.Querier[types.StaffFilter, types.StaffPage]
	profiles  types.ProfileRepository
	logger    types.Logger
}

// NewStaffService constructs the adapter.
func NewStaffService(cfg StaffServiceConfig, opts ...ServiceOption) *StaffService {
	options := applyOptions(opts)
	return &StaffService{
		guard:     cfg.Guard,
		directory: cfg.Directory,
		profiles:  cfg.Profiles,
		logger:    options.logger,
	}
}

func (s *StaffService) Create(crud.Context, *types.Profile) (*types.Profile, error) {
	return nil, notSupported(crud.OpCreate)
}

func (s *StaffService) CreateBatch(crud.Context, []*types.Profile) ([]*types.Profile, error) {
	return nil, notSupported(crud.OpCreateBatch)
}

func (s *StaffService) Update(crud.Context, *types.Profile) (*types.Profile, error) {
	return nil, notSupported(crud.OpUpdate)
}

func (s *StaffService) UpdateBatch(crud.Context, []*types.Profile) ([]*types.Profile, error) {
	return nil, notSupported(crud.OpUpdateBatch)
}

func (s *StaffService) Delete(crud.Context, *types.Profile) error {
	return notSupported(crud.OpDelete)
}

func (s *StaffService) DeleteBatch(crud.Context, []*types.Profile) error {
	return notSupported(crud.OpDeleteBatch)
}

func (s *StaffService) Index(ctx crud.Context, _ []repository.SelectCriteria) ([]*types.Profile, int, error) {
	if s.directory == nil {
		return nil, 0, goerrors.New("staff directory query missing", goerrors.CategoryInternal).WithCode(goerrors.CodeInternal)
	}
	res, err := s.guard.Enforce(crudguard.GuardInput{
		Context:   ctx,
		Operation: crud.OpList,
	})
	if err != nil {
		return nil, 0, err
	}
	filter := types.StaffFilter{
		Actor:    res.Actor,
		Scope:    res.Scope,
		Keyword:  ctx.Query("q"),
		Role:     strings.TrimSpace(ctx.Query("role")),
		Statuses: parseProfileStatuses(ctx, "status"),
		Pagination: types.Pagination{
			Limit:  queryInt(ctx, "limit", 50),
			Offset: queryInt(ctx, "offset", 0),
		},
	}
	page, err := s.directory.Query(ctx.UserContext(), filter)
	if err != nil {
		return nil, 0, err
	}
	records := make([]*types.Profile, 0, len(page.Profiles))
	for i := range page.Profiles {
		profile := page.Profiles[i]
		records = append(records, applyProfileFieldPolicy(&profile, res.Actor))
	}
	return records, page.Total, nil
}

func (s *StaffService) Show(ctx crud.Context, id string, _ []repository.SelectCriteria) (*types.Profile, error) {
	if s.profiles == nil {
		return nil, goerrors.New("profile repository missing", goerrors.CategoryInternal).WithCode(goerrors.CodeInternal)
	}
	profileID, err := uuid.Parse(id)
	if err != nil {
		return nil, goerrors.New("invalid profile id", goerrors.CategoryValidation).WithCode(goerrors.CodeBadRequest)
	}
	res, err := s.guard.Enforce(crudguard.GuardInput{
		Context:   ctx,
		Operation: crud.OpRead,
		TargetID:  profileID,
	})
	if err != nil {
		return nil, err
	}
	profile, err := s.profiles.GetProfile(ctx.UserContext(), profileID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, goerrors.New("profile not found", goerrors.CategoryNotFound).WithCode(goerrors.CodeNotFound)
	}
	return applyProfileFieldPolicy(profile, res.Actor), nil
}

// applyProfileFieldPolicy hides colleague contact details from staff without
// management duties. Actors always see their own record in full.
func applyProfileFieldPolicy(profile *types.Profile, actor types.ActorRef) *types.Profile {
	if profile == nil {
		return nil
	}
	if !actorLimitedToSelf(actor) || profile.ID == actor.ID {
		return profile
	}
	clone := *profile
	clone.Email = obfuscateEmail(clone.Email)
	clone.Phone = ""
	clone.AuthUserID = nil
	return &clone
}

func obfuscateEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return email
	}
	parts := strings.SplitN(email, "@", 2)
	local := parts[0]
	domain := ""
	if len(parts) == 2 {
		domain = parts[1]
	}
	switch {
	case len(local) <= 1:
		local = strings.Repeat("*", len(local))
	default:
		local = local[:1] + strings.Repeat("*", len(local)-1)
	}
	if domain != "" {
		return local + "@" + domain
	}
	return local
}
