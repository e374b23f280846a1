package crudsvc

import (
	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-crud"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-hatchery/command"
	"github.com/goliatone/go-hatchery/crudguard"
	"github.com/goliatone/go-hatchery/pkg/types"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

// ActivityServiceConfig wires dependencies for the CRUD-backed activity service.
type ActivityServiceConfig struct {
	Guard         GuardAdapter
	RecordCommand gocommand.Commander[command.ActivityRecordInput]
	UpdateCommand gocommand.Commander[command.ActivityUpdateInput]
	FeedQuery     gocommand.Querier[types.ActivityFilter, types.ActivityPage]
}

// ActivityService adapts the activity command/query layer to a go-crud
// controller so admin panels can browse and record husbandry entries without
// bypassing guard enforcement or payload validation.
type ActivityService struct {
	guard     GuardAdapter
	recordCmd gocommand.Commander[command.ActivityRecordInput]
	updateCmd gocommand.Commander[command.ActivityUpdateInput]
	feed      gocommand.Querier[types.ActivityFilter, types.ActivityPage]
	logger    types.Logger
}

// NewActivityService constructs the adapter.
func NewActivityService(cfg ActivityServiceConfig, opts ...ServiceOption) *ActivityService {
	options := applyOptions(opts)
	return &ActivityService{
		guard:     cfg.Guard,
		recordCmd: cfg.RecordCommand,
		updateCmd: cfg.UpdateCommand,
		feed:      cfg.FeedQuery,
		logger:    options.logger,
	}
}

func (s *ActivityService) Create(ctx crud.Context, entry *types.ActivityEntry) (*types.ActivityEntry, error) {
	if s.recordCmd == nil {
		return nil, goerrors.New("activity record command not wired", goerrors.CategoryInternal).WithCode(goerrors.CodeInternal)
	}
	if entry == nil {
		return nil, goerrors.New("activity entry required", goerrors.CategoryValidation).WithCode(goerrors.CodeBadRequest)
	}
	requestedScope := types.ScopeFilter{HatcheryID: entry.HatcheryID}
	res, err := s.guard.Enforce(crudguard.GuardInput{
		Context:   ctx,
		Operation: crud.OpCreate,
		Scope:     requestedScope,
		TargetID:  entry.TankID,
	})
	if err != nil {
		return nil, err
	}
	if err := enforceActivityOwnership(res.Actor, entry.UserID); err != nil {
		return nil, err
	}

	record := *entry
	record.UserID = res.Actor.ID
	result := types.ActivityEntry{}
	input := command.ActivityRecordInput{
		Entry:  record,
		Actor:  res.Actor,
		Scope:  res.Scope,
		Result: &result,
	}
	if err := s.recordCmd.Execute(ctx.UserContext(), input); err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *ActivityService) CreateBatch(ctx crud.Context, entries []*types.ActivityEntry) ([]*types.ActivityEntry, error) {
	created := make([]*types.ActivityEntry, 0, len(entries))
	for _, entry := range entries {
		rec, err := s.Create(ctx, entry)
		if err != nil {
			return nil, err
		}
		created = append(created, rec)
	}
	return created, nil
}

func (s *ActivityService) Update(ctx crud.Context, entry *types.ActivityEntry) (*types.ActivityEntry, error) {
	if s.updateCmd == nil {
		return nil, goerrors.New("activity update command not wired", goerrors.CategoryInternal).WithCode(goerrors.CodeInternal)
	}
	if entry == nil || entry.ID == uuid.Nil {
		return nil, goerrors.New("activity id required", goerrors.CategoryValidation).WithCode(goerrors.CodeBadRequest)
	}
	res, err := s.guard.Enforce(crudguard.GuardInput{
		Context:   ctx,
		Operation: crud.OpUpdate,
		Scope:     types.ScopeFilter{HatcheryID: entry.HatcheryID},
		TargetID:  entry.ID,
	})
	if err != nil {
		return nil, err
	}

	result := types.ActivityEntry{}
	input := command.ActivityUpdateInput{
		ActivityID:   entry.ID,
		ActivityType: entry.ActivityType,
		Data:         entry.Data,
		ProfileID:    res.Actor.ID,
		Actor:        res.Actor,
		Scope:        res.Scope,
		Result:       &result,
	}
	if err := s.updateCmd.Execute(ctx.UserContext(), input); err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *ActivityService) UpdateBatch(crud.Context, []*types.ActivityEntry) ([]*types.ActivityEntry, error) {
	return nil, notSupported(crud.OpUpdateBatch)
}

func (s *ActivityService) Delete(crud.Context, *types.ActivityEntry) error {
	return notSupported(crud.OpDelete)
}

func (s *ActivityService) DeleteBatch(crud.Context, []*types.ActivityEntry) error {
	return notSupported(crud.OpDeleteBatch)
}

func (s *ActivityService) Index(ctx crud.Context, _ []repository.SelectCriteria) ([]*types.ActivityEntry, int, error) {
	if s.feed == nil {
		return nil, 0, goerrors.New("activity feed query unavailable", goerrors.CategoryInternal).WithCode(goerrors.CodeInternal)
	}
	res, err := s.guard.Enforce(crudguard.GuardInput{
		Context:   ctx,
		Operation: crud.OpList,
	})
	if err != nil {
		return nil, 0, err
	}

	filter := types.ActivityFilter{
		Actor:        res.Actor,
		Scope:        res.Scope,
		ActivityType: parseActivityType(ctx.Query("activity_type")),
		FarmID:       queryUUID(ctx, "farm_id"),
		TankID:       queryUUID(ctx, "tank_id"),
		UserID:       queryUUID(ctx, "user_id"),
		Since:        queryTime(ctx, "since"),
		Until:        queryTime(ctx, "until"),
		Pagination: types.Pagination{
			Limit:  queryInt(ctx, "limit", 50),
			Offset: queryInt(ctx, "offset", 0),
		},
	}
	if actorLimitedToSelf(res.Actor) && filter.UserID == uuid.Nil {
		filter.UserID = res.Actor.ID
	}
	page, err := s.feed.Query(ctx.UserContext(), filter)
	if err != nil {
		return nil, 0, err
	}
	entries := make([]*types.ActivityEntry, 0, len(page.Records))
	for i := range page.Records {
		entry := page.Records[i]
		entries = append(entries, &entry)
	}
	return entries, page.Total, nil
}

func (s *ActivityService) Show(crud.Context, string, []repository.SelectCriteria) (*types.ActivityEntry, error) {
	return nil, notSupported(crud.OpRead)
}

func enforceActivityOwnership(actor types.ActorRef, target uuid.UUID) error {
	if !actorLimitedToSelf(actor) || target == uuid.Nil || target == actor.ID {
		return nil
	}
	return goerrors.New("go-hatchery: staff can only record their own activity", goerrors.CategoryAuthz).
		WithCode(goerrors.CodeForbidden)
}
