package schema

import (
	"testing"

	"github.com/goliatone/go-hatchery/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayloadFormsCoverEveryActivityType(t *testing.T) {
	forms := PayloadForms()
	require.Len(t, forms, len(types.ActivityTypes()))

	byType := make(map[types.ActivityType]PayloadForm, len(forms))
	for _, form := range forms {
		byType[form.ActivityType] = form
	}
	for _, activityType := range types.ActivityTypes() {
		form, ok := byType[activityType]
		require.True(t, ok, "missing form for %s", activityType)
		require.NotEmpty(t, form.Fields)
		// every form ends with the shared date/time/ampm/comments block
		tail := form.Fields[len(form.Fields)-4:]
		assert.Equal(t, types.FieldDate, tail[0].Key)
		assert.Equal(t, types.FieldComments, tail[3].Key)
	}
}

func TestPayloadFormsFeedSelectsFromCatalogs(t *testing.T) {
	form := formFor(t, types.ActivityFeed)

	fields := fieldIndex(form)
	require.Contains(t, fields, types.FieldFeedType)
	assert.Equal(t, KindSelect, fields[types.FieldFeedType].Kind)
	assert.Equal(t, types.CatalogFeedType, fields[types.FieldFeedType].Catalog)
	assert.Equal(t, KindNumber, fields[types.FieldFeedQty].Kind)
	assert.Equal(t, types.CatalogFeedUnit, fields[types.FieldFeedUnit].Catalog)
}

func TestPayloadFormsWaterGroupListsEveryParameter(t *testing.T) {
	form := formFor(t, types.ActivityWaterQuality)

	water := fieldIndex(form)[types.FieldWaterData]
	require.Equal(t, KindGroup, water.Kind)
	require.Len(t, water.Fields, len(types.WaterParameters()))

	keys := make([]string, 0, len(water.Fields))
	for _, field := range water.Fields {
		keys = append(keys, field.Key)
	}
	assert.Equal(t, types.WaterParameters(), keys)
	assert.Contains(t, keys, types.WaterParamPH)
}

func TestPayloadFormsAnimalRatingsMatchValidation(t *testing.T) {
	form := formFor(t, types.ActivityAnimalQuality)
	fields := fieldIndex(form)

	require.True(t, fields[types.FieldAnimalSize].Required)

	ratings := fields[types.FieldAnimalRatings]
	require.Equal(t, KindGroup, ratings.Kind)
	require.Len(t, ratings.Fields, len(types.AnimalRatingKeys()))

	requiredKeys := make([]string, 0, 3)
	for _, field := range ratings.Fields {
		assert.Equal(t, KindRating, field.Kind)
		if field.Required {
			requiredKeys = append(requiredKeys, field.Key)
		}
	}
	assert.ElementsMatch(t, types.RequiredAnimalRatings(), requiredKeys)
}

func TestPayloadFormsRequiredScoresMatchValidation(t *testing.T) {
	stocking := fieldIndex(formFor(t, types.ActivityStocking))
	assert.True(t, stocking[types.FieldAnimalConditionScore].Required)
	assert.True(t, stocking[types.FieldWaterQualityScore].Required)

	observation := fieldIndex(formFor(t, types.ActivityObservation))
	assert.True(t, observation[types.FieldAnimalQualityScore].Required)
	assert.True(t, observation[types.FieldWaterQualityScore].Required)
	assert.Equal(t, KindNumber, observation[types.FieldDeadAnimals].Kind)
}

func TestFormsDocumentKeysByActivityType(t *testing.T) {
	doc := FormsDocument(PayloadForms())
	require.Len(t, doc, len(types.ActivityTypes()))
	require.Contains(t, doc, string(types.ActivityFeed))

	fields, ok := doc[string(types.ActivityFeed)].([]FieldDescriptor)
	require.True(t, ok)
	assert.Equal(t, types.FieldFeedType, fields[0].Key)

	assert.Nil(t, FormsDocument(nil))
}

func formFor(t *testing.T, activityType types.ActivityType) PayloadForm {
	t.Helper()
	for _, form := range PayloadForms() {
		if form.ActivityType == activityType {
			return form
		}
	}
	t.Fatalf("no form for %s", activityType)
	return PayloadForm{}
}

func fieldIndex(form PayloadForm) map[string]FieldDescriptor {
	out := make(map[string]FieldDescriptor, len(form.Fields))
	for _, field := range form.Fields {
		out[field.Key] = field
	}
	return out
}
