package report

import (
	"testing"
	"time"

	"github.com/goliatone/go-hatchery/pkg/types"
	"github.com/stretchr/testify/require"
)

func entry(activityType types.ActivityType, createdAt time.Time, farm, section, tank string, data map[string]any) types.ActivityEntry {
	return types.ActivityEntry{
		ActivityType: activityType,
		CreatedAt:    createdAt,
		FarmName:     farm,
		SectionName:  section,
		TankName:     tank,
		Data:         data,
	}
}

func TestAggregatePreFillsAllBucketsAndLocations(t *testing.T) {
	windowEnd := time.Date(2024, 3, 10, 12, 0, 0, 0, types.ReportingZone)
	logs := []types.ActivityEntry{
		entry(types.ActivityFeed, windowEnd, "North", "Larval", "L1", map[string]any{"feedQty": "5"}),
		entry(types.ActivityFeed, windowEnd.AddDate(0, 0, -3), "North", "Larval", "L2", map[string]any{"feedQty": "2"}),
	}

	series := Aggregate(logs, types.ActivityFeed, windowEnd)
	require.Len(t, series.Buckets, 7)
	require.Equal(t, []string{"North - Larval - L1", "North - Larval - L2"}, series.LocationKeys)

	require.Equal(t, "04 Mar", series.Buckets[0].Label)
	require.Equal(t, "10 Mar", series.Buckets[6].Label)
	for _, bucket := range series.Buckets {
		require.Len(t, bucket.Values, 2)
	}
	require.Equal(t, 5.0, series.Buckets[6].Values["North - Larval - L1"])
	require.Equal(t, 0.0, series.Buckets[6].Values["North - Larval - L2"])
	require.Equal(t, 2.0, series.Buckets[3].Values["North - Larval - L2"])
}

func TestAggregateSumsSameDaySameLocation(t *testing.T) {
	windowEnd := time.Date(2024, 3, 10, 23, 0, 0, 0, types.ReportingZone)
	morning := time.Date(2024, 3, 10, 8, 0, 0, 0, types.ReportingZone)
	evening := time.Date(2024, 3, 10, 19, 0, 0, 0, types.ReportingZone)
	logs := []types.ActivityEntry{
		entry(types.ActivityFeed, morning, "N", "S", "T", map[string]any{"feedQty": "1.5"}),
		entry(types.ActivityFeed, evening, "N", "S", "T", map[string]any{"feedQty": "2.5"}),
	}

	series := Aggregate(logs, types.ActivityFeed, windowEnd)
	require.Equal(t, 4.0, series.Buckets[6].Values["N - S - T"])
}

func TestAggregateUsesISTDayBoundaries(t *testing.T) {
	// 2024-03-09 19:30 UTC is already 2024-03-10 01:00 IST.
	windowEnd := time.Date(2024, 3, 10, 12, 0, 0, 0, types.ReportingZone)
	lateUTC := time.Date(2024, 3, 9, 19, 30, 0, 0, time.UTC)
	logs := []types.ActivityEntry{
		entry(types.ActivityFeed, lateUTC, "N", "S", "T", map[string]any{"feedQty": "3"}),
	}

	series := Aggregate(logs, types.ActivityFeed, windowEnd)
	require.Equal(t, 3.0, series.Buckets[6].Values["N - S - T"])
	require.Equal(t, 0.0, series.Buckets[5].Values["N - S - T"])
}

func TestAggregateSkipsOutsideWindowAndOtherTypes(t *testing.T) {
	windowEnd := time.Date(2024, 3, 10, 12, 0, 0, 0, types.ReportingZone)
	logs := []types.ActivityEntry{
		entry(types.ActivityFeed, windowEnd.AddDate(0, 0, -7), "N", "S", "T", map[string]any{"feedQty": "9"}),
		entry(types.ActivityTreatment, windowEnd, "N", "S", "T", map[string]any{"treatmentDosage": "4"}),
	}

	series := Aggregate(logs, types.ActivityFeed, windowEnd)
	require.Empty(t, series.LocationKeys)
	require.True(t, series.Empty())
}

func TestAggregateUnparseableValueCountsAsZero(t *testing.T) {
	windowEnd := time.Date(2024, 3, 10, 12, 0, 0, 0, types.ReportingZone)
	logs := []types.ActivityEntry{
		entry(types.ActivityFeed, windowEnd, "N", "S", "T", map[string]any{"feedQty": "abc"}),
		entry(types.ActivityFeed, windowEnd, "N", "S", "T", map[string]any{"feedQty": "2"}),
	}

	series := Aggregate(logs, types.ActivityFeed, windowEnd)
	require.Equal(t, 2.0, series.Buckets[6].Values["N - S - T"])
}

func TestAggregateWaterQualityReadsNestedPH(t *testing.T) {
	windowEnd := time.Date(2024, 3, 10, 12, 0, 0, 0, types.ReportingZone)
	logs := []types.ActivityEntry{
		entry(types.ActivityWaterQuality, windowEnd, "N", "S", "T", map[string]any{
			"waterData": map[string]any{"pH": "7.8", "Salinity": "30"},
		}),
	}

	series := Aggregate(logs, types.ActivityWaterQuality, windowEnd)
	require.Equal(t, 7.8, series.Buckets[6].Values["N - S - T"])
}

func TestAggregateUnknownLocationFallbacks(t *testing.T) {
	windowEnd := time.Date(2024, 3, 10, 12, 0, 0, 0, types.ReportingZone)
	logs := []types.ActivityEntry{
		entry(types.ActivityFeed, windowEnd, "", "", "", map[string]any{"feedQty": "1"}),
	}

	series := Aggregate(logs, types.ActivityFeed, windowEnd)
	require.Equal(t, []string{"Unknown Farm - Unknown Section - Unknown Tank"}, series.LocationKeys)
}
