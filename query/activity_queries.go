package query

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-hatchery/activity"
	"github.com/goliatone/go-hatchery/pkg/types"
	"github.com/goliatone/go-hatchery/report"
	"github.com/goliatone/go-hatchery/scope"
	"github.com/goliatone/go-masker"
	"github.com/google/uuid"
)

// ActivityFeedQuery renders paginated activity feeds for dashboards. Entries
// pass through the sanitizer before leaving the library.
type ActivityFeedQuery struct {
	repo  types.ActivityRepository
	mask  *masker.Masker
	guard scope.Guard
}

// NewActivityFeedQuery constructs the feed query helper.
func NewActivityFeedQuery(repo types.ActivityRepository, mask *masker.Masker, guard scope.Guard) *ActivityFeedQuery {
	return &ActivityFeedQuery{
		repo:  repo,
		mask:  mask,
		guard: safeScopeGuard(guard),
	}
}

var _ gocommand.Querier[types.ActivityFilter, types.ActivityPage] = (*ActivityFeedQuery)(nil)

// Query fetches a page of activity logs via the injected repository.
func (q *ActivityFeedQuery) Query(ctx context.Context, filter types.ActivityFilter) (types.ActivityPage, error) {
	if q.repo == nil {
		return types.ActivityPage{}, types.ErrMissingActivityRepository
	}
	if err := filter.Validate(); err != nil {
		return types.ActivityPage{}, err
	}
	scope, err := q.guard.Enforce(ctx, filter.Actor, filter.Scope, types.PolicyActionActivityRead, uuid.Nil)
	if err != nil {
		return types.ActivityPage{}, err
	}
	filter.Scope = scope
	page, err := q.repo.ListActivity(ctx, filter)
	if err != nil {
		return types.ActivityPage{}, err
	}
	page.Records = activity.SanitizeEntries(q.mask, page.Records)
	return page, nil
}

// ActivityReportQuery builds the seven-day dashboard series for one activity
// type.
type ActivityReportQuery struct {
	repo  types.ActivityRepository
	guard scope.Guard
}

// NewActivityReportQuery constructs the report query helper.
func NewActivityReportQuery(repo types.ActivityRepository, guard scope.Guard) *ActivityReportQuery {
	return &ActivityReportQuery{
		repo:  repo,
		guard: safeScopeGuard(guard),
	}
}

var _ gocommand.Querier[types.ReportFilter, types.ReportSeries] = (*ActivityReportQuery)(nil)

// Query loads the window rows and folds them into daily buckets.
func (q *ActivityReportQuery) Query(ctx context.Context, filter types.ReportFilter) (types.ReportSeries, error) {
	if q.repo == nil {
		return types.ReportSeries{}, types.ErrMissingActivityRepository
	}
	if err := filter.Validate(); err != nil {
		return types.ReportSeries{}, err
	}
	scope, err := q.guard.Enforce(ctx, filter.Actor, filter.Scope, types.PolicyActionReportsRead, filter.FarmID)
	if err != nil {
		return types.ReportSeries{}, err
	}
	filter.Scope = scope
	logs, err := q.repo.ListWindow(ctx, filter)
	if err != nil {
		return types.ReportSeries{}, err
	}
	return report.Aggregate(logs, filter.ActivityType, filter.WindowEnd), nil
}
