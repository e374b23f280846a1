// Package report builds the 7-day dashboard series from raw activity rows.
// Day boundaries and labels follow Indian Standard Time no matter where the
// process runs; hatchery staff read the charts in local farm time.
package report

import (
	"fmt"
	"time"

	"github.com/goliatone/go-hatchery/pkg/types"
)

const (
	unknownFarm    = "Unknown Farm"
	unknownSection = "Unknown Section"
	unknownTank    = "Unknown Tank"
)

// dateLabel is the bucket label layout, e.g. "04 Mar".
const dateLabel = "02 Jan"

// LocationKey builds the chart series key for an entry. Missing hierarchy
// names degrade to the Unknown placeholders instead of collapsing entries
// from different tanks into one series.
func LocationKey(entry types.ActivityEntry) string {
	farm := entry.FarmName
	if farm == "" {
		farm = unknownFarm
	}
	section := entry.SectionName
	if section == "" {
		section = unknownSection
	}
	tank := entry.TankName
	if tank == "" {
		tank = unknownTank
	}
	return fmt.Sprintf("%s - %s - %s", farm, section, tank)
}

// Aggregate folds activity rows into seven daily buckets ending at windowEnd.
// Every location discovered anywhere in the window is pre-filled with 0 in
// every bucket. Values sum per bucket and location; rows outside the window
// or of a different activity type are skipped. Unparseable numerics count as
// 0, so a malformed entry dims a chart rather than breaking it.
//
// Water Quality sums pH across entries, which is only meaningful when a tank
// logs once per day. That is the established dashboard behavior and is kept.
func Aggregate(logs []types.ActivityEntry, activityType types.ActivityType, windowEnd time.Time) types.ReportSeries {
	if windowEnd.IsZero() {
		windowEnd = time.Now()
	}
	end := windowEnd.In(types.ReportingZone)
	endDay := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, types.ReportingZone)
	startDay := endDay.AddDate(0, 0, -(types.ReportWindowDays - 1))

	series := types.ReportSeries{ActivityType: activityType}
	bucketIndex := make(map[string]int, types.ReportWindowDays)
	for i := 0; i < types.ReportWindowDays; i++ {
		day := startDay.AddDate(0, 0, i)
		label := day.Format(dateLabel)
		bucketIndex[label] = i
		series.Buckets = append(series.Buckets, types.ReportBucket{
			Date:   day,
			Label:  label,
			Values: make(map[string]float64),
		})
	}

	seen := make(map[string]bool)
	for _, entry := range logs {
		if entry.ActivityType != activityType {
			continue
		}
		day := entry.CreatedAt.In(types.ReportingZone)
		dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, types.ReportingZone)
		if dayStart.Before(startDay) || dayStart.After(endDay) {
			continue
		}

		key := LocationKey(entry)
		if !seen[key] {
			seen[key] = true
			series.LocationKeys = append(series.LocationKeys, key)
			for i := range series.Buckets {
				series.Buckets[i].Values[key] = 0
			}
		}

		idx := bucketIndex[dayStart.Format(dateLabel)]
		series.Buckets[idx].Values[key] += chartValue(activityType, entry.Data)
	}
	return series
}

// chartValue extracts the charted numeric for one entry. Activity types
// without a headline numeric (Animal Quality) chart as 0.
func chartValue(activityType types.ActivityType, data map[string]any) float64 {
	switch activityType {
	case types.ActivityFeed:
		return types.PayloadFloat(data, types.FieldFeedQty)
	case types.ActivityTreatment:
		return types.PayloadFloat(data, types.FieldTreatmentDosage)
	case types.ActivityStocking:
		return types.PayloadFloat(data, types.FieldNaupliiStocked)
	case types.ActivityObservation:
		return types.PayloadFloat(data, types.FieldDeadAnimals)
	case types.ActivityWaterQuality:
		return types.WaterValue(data, types.WaterParamPH)
	}
	return 0
}
