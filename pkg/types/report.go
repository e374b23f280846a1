package types

import (
	"time"

	"github.com/google/uuid"
)

// ReportWindowDays is the fixed reporting window length. The dashboard always
// charts the trailing week; there is no window-size knob.
const ReportWindowDays = 7

// ReportingOffsetMinutes positions the reporting day boundary at UTC+5:30.
// All hatcheries operate on Indian Standard Time regardless of server zone.
const ReportingOffsetMinutes = 330

// ReportingZone is the fixed zone used for bucket truncation and labels.
var ReportingZone = time.FixedZone("IST", ReportingOffsetMinutes*60)

// ReportFilter selects the activity rows feeding one chart: a single activity
// type over the trailing window ending at WindowEnd, visible to the actor.
type ReportFilter struct {
	Actor        ActorRef
	Scope        ScopeFilter
	ActivityType ActivityType
	FarmID       uuid.UUID
	WindowEnd    time.Time
}

// Type implements gocommand.Message for query inputs.
func (ReportFilter) Type() string {
	return "query.activity.report"
}

// Validate implements gocommand.Message.
func (filter ReportFilter) Validate() error {
	if filter.Actor.ID == uuid.Nil {
		return ErrActorRequired
	}
	if !KnownActivityType(filter.ActivityType) {
		return NewValidationError("activityType", "unknown activity type")
	}
	return nil
}

// WindowStart returns the first instant of the oldest bucket, truncated to an
// IST day boundary.
func (filter ReportFilter) WindowStart() time.Time {
	end := filter.WindowEnd
	if end.IsZero() {
		end = time.Now()
	}
	day := end.In(ReportingZone)
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, ReportingZone)
	return start.AddDate(0, 0, -(ReportWindowDays - 1))
}

// ReportBucket is one charted day: a display label plus the summed value per
// location key. Every discovered location appears in every bucket, zero
// filled, so chart series never have holes.
type ReportBucket struct {
	Date   time.Time
	Label  string
	Values map[string]float64
}

// ReportSeries is the aggregator output: seven buckets oldest first, plus the
// location keys in first-discovery order for stable series coloring.
type ReportSeries struct {
	ActivityType ActivityType
	Buckets      []ReportBucket
	LocationKeys []string
}

// Empty reports whether no activity contributed to the window.
func (s ReportSeries) Empty() bool {
	return len(s.LocationKeys) == 0
}
