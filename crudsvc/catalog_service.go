package crudsvc

import (
	"strings"

	"github.com/goliatone/go-crud"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-hatchery/crudguard"
	"github.com/goliatone/go-hatchery/pkg/types"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

// CatalogServiceConfig wires dependencies for the option catalog controller.
type CatalogServiceConfig struct {
	Guard GuardAdapter
	Repo  types.CatalogRepository
}

// CatalogService exposes the hatchery option lists (feed types, units,
// treatment types) as a go-crud resource so admin panels can manage the
// dropdown values offered by activity forms.
type CatalogService struct {
	guard  GuardAdapter
	repo   types.CatalogRepository
	logger types.Logger
}

// NewCatalogService constructs the adapter.
func NewCatalogService(cfg CatalogServiceConfig, opts ...ServiceOption) *CatalogService {
	options := applyOptions(opts)
	return &CatalogService{
		guard:  cfg.Guard,
		repo:   cfg.Repo,
		logger: options.logger,
	}
}

func (s *CatalogService) Create(ctx crud.Context, item *types.CatalogItem) (*types.CatalogItem, error) {
	return s.upsertItem(ctx, crud.OpCreate, item)
}

func (s *CatalogService) CreateBatch(ctx crud.Context, items []*types.CatalogItem) ([]*types.CatalogItem, error) {
	created := make([]*types.CatalogItem, 0, len(items))
	for _, item := range items {
		rec, err := s.upsertItem(ctx, crud.OpCreateBatch, item)
		if err != nil {
			return nil, err
		}
		created = append(created, rec)
	}
	return created, nil
}

func (s *CatalogService) Update(ctx crud.Context, item *types.CatalogItem) (*types.CatalogItem, error) {
	return s.upsertItem(ctx, crud.OpUpdate, item)
}

func (s *CatalogService) UpdateBatch(crud.Context, []*types.CatalogItem) ([]*types.CatalogItem, error) {
	return nil, notSupported(crud.OpUpdateBatch)
}

func (s *CatalogService) Delete(ctx crud.Context, item *types.CatalogItem) error {
	if s.repo == nil {
		return goerrors.New("catalog repository missing", goerrors.CategoryInternal).WithCode(goerrors.CodeInternal)
	}
	if item == nil || item.ID == uuid.Nil {
		return goerrors.New("catalog item id required", goerrors.CategoryValidation).WithCode(goerrors.CodeBadRequest)
	}
	_, err := s.guard.Enforce(crudguard.GuardInput{
		Context:   ctx,
		Operation: crud.OpDelete,
		Scope:     types.ScopeFilter{HatcheryID: item.HatcheryID},
		TargetID:  item.ID,
	})
	if err != nil {
		return err
	}
	return s.repo.DeleteCatalogItem(ctx.UserContext(), item.ID)
}

func (s *CatalogService) DeleteBatch(ctx crud.Context, items []*types.CatalogItem) error {
	for _, item := range items {
		if err := s.Delete(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

func (s *CatalogService) Index(ctx crud.Context, _ []repository.SelectCriteria) ([]*types.CatalogItem, int, error) {
	if s.repo == nil {
		return nil, 0, goerrors.New("catalog repository missing", goerrors.CategoryInternal).WithCode(goerrors.CodeInternal)
	}
	res, err := s.guard.Enforce(crudguard.GuardInput{
		Context:   ctx,
		Operation: crud.OpList,
	})
	if err != nil {
		return nil, 0, err
	}
	kind := parseCatalogKind(ctx.Query("kind"))
	if kind == "" {
		return nil, 0, goerrors.New("catalog kind required", goerrors.CategoryValidation).WithCode(goerrors.CodeBadRequest)
	}
	items, err := s.repo.ListCatalog(ctx.UserContext(), res.Scope.HatcheryID, kind)
	if err != nil {
		return nil, 0, err
	}
	records := make([]*types.CatalogItem, 0, len(items))
	for i := range items {
		item := items[i]
		records = append(records, &item)
	}
	return records, len(records), nil
}

func (s *CatalogService) Show(crud.Context, string, []repository.SelectCriteria) (*types.CatalogItem, error) {
	return nil, notSupported(crud.OpRead)
}

func (s *CatalogService) upsertItem(ctx crud.Context, op crud.CrudOperation, item *types.CatalogItem) (*types.CatalogItem, error) {
	if s.repo == nil {
		return nil, goerrors.New("catalog repository missing", goerrors.CategoryInternal).WithCode(goerrors.CodeInternal)
	}
	if item == nil || strings.TrimSpace(item.Label) == "" {
		return nil, goerrors.New("catalog label required", goerrors.CategoryValidation).WithCode(goerrors.CodeBadRequest)
	}
	if parseCatalogKind(string(item.Kind)) == "" {
		return nil, goerrors.New("unknown catalog kind", goerrors.CategoryValidation).WithCode(goerrors.CodeBadRequest)
	}
	res, err := s.guard.Enforce(crudguard.GuardInput{
		Context:   ctx,
		Operation: op,
		Scope:     types.ScopeFilter{HatcheryID: item.HatcheryID},
		TargetID:  item.ID,
	})
	if err != nil {
		return nil, err
	}
	record := *item
	record.HatcheryID = res.Scope.HatcheryID
	record.Label = strings.TrimSpace(record.Label)
	return s.repo.UpsertCatalogItem(ctx.UserContext(), record)
}
