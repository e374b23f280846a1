package schema

import (
	"github.com/goliatone/go-hatchery/pkg/types"
)

// FieldKind tells a form renderer which input widget a payload field needs.
// Numeric inputs are still stored as strings in the payload map; the kind
// guides the widget, not the wire type.
type FieldKind string

const (
	KindText   FieldKind = "text"
	KindNumber FieldKind = "number"
	KindRating FieldKind = "rating"
	KindSelect FieldKind = "select"
	KindGroup  FieldKind = "group"
)

// FieldDescriptor describes one payload field of an activity recording form.
// Select fields name the per-hatchery catalog that supplies their options;
// group fields nest their members.
type FieldDescriptor struct {
	Key      string            `json:"key"`
	Kind     FieldKind         `json:"kind"`
	Required bool              `json:"required,omitempty"`
	Catalog  types.CatalogKind `json:"catalog,omitempty"`
	Fields   []FieldDescriptor `json:"fields,omitempty"`
}

// PayloadForm binds an activity type to the ordered field list its form
// renders. Required flags mirror the save-time validation policy.
type PayloadForm struct {
	ActivityType types.ActivityType `json:"activityType"`
	Fields       []FieldDescriptor  `json:"fields"`
}

// PayloadForms returns the form descriptors for every activity variant, in
// the canonical activity-type order.
func PayloadForms() []PayloadForm {
	forms := make([]PayloadForm, 0, len(types.ActivityTypes()))
	for _, activityType := range types.ActivityTypes() {
		forms = append(forms, PayloadForm{
			ActivityType: activityType,
			Fields:       append(variantFields(activityType), commonFields()...),
		})
	}
	return forms
}

// FormsDocument renders the payload forms as a document fragment keyed by
// activity type, suitable for embedding in an aggregated schema document.
func FormsDocument(forms []PayloadForm) map[string]any {
	if len(forms) == 0 {
		return nil
	}
	doc := make(map[string]any, len(forms))
	for _, form := range forms {
		doc[string(form.ActivityType)] = form.Fields
	}
	return doc
}

// commonFields are shared by every variant: the entry timestamp split the way
// operators type it, plus free-text comments.
func commonFields() []FieldDescriptor {
	return []FieldDescriptor{
		{Key: types.FieldDate, Kind: KindText},
		{Key: types.FieldTime, Kind: KindText},
		{Key: types.FieldAmPm, Kind: KindSelect},
		{Key: types.FieldComments, Kind: KindText},
	}
}

func variantFields(activityType types.ActivityType) []FieldDescriptor {
	switch activityType {
	case types.ActivityFeed:
		return []FieldDescriptor{
			{Key: types.FieldFeedType, Kind: KindSelect, Catalog: types.CatalogFeedType},
			{Key: types.FieldFeedQty, Kind: KindNumber},
			{Key: types.FieldFeedUnit, Kind: KindSelect, Catalog: types.CatalogFeedUnit},
		}
	case types.ActivityTreatment:
		return []FieldDescriptor{
			{Key: types.FieldTreatmentType, Kind: KindSelect, Catalog: types.CatalogTreatmentType},
			{Key: types.FieldTreatmentDosage, Kind: KindNumber},
			{Key: types.FieldTreatmentUnit, Kind: KindSelect, Catalog: types.CatalogTreatmentUnit},
		}
	case types.ActivityWaterQuality:
		return []FieldDescriptor{
			{Key: types.FieldWaterData, Kind: KindGroup, Fields: waterFields()},
		}
	case types.ActivityAnimalQuality:
		return []FieldDescriptor{
			{Key: types.FieldAnimalSize, Kind: KindText, Required: true},
			{Key: types.FieldAnimalRatings, Kind: KindGroup, Fields: ratingFields()},
			{Key: types.FieldDiseaseSymptoms, Kind: KindText},
			{Key: types.FieldOtherAnimal, Kind: KindText},
		}
	case types.ActivityStocking:
		return []FieldDescriptor{
			{Key: types.FieldBroodstockSource, Kind: KindText},
			{Key: types.FieldHatcheryName, Kind: KindText},
			{Key: types.FieldTankStockingNumber, Kind: KindText},
			{Key: types.FieldNaupliiStocked, Kind: KindNumber},
			{Key: types.FieldAnimalConditionScore, Kind: KindRating, Required: true},
			{Key: types.FieldAnimalScoreOther, Kind: KindText},
			{Key: types.FieldWaterQualityScore, Kind: KindRating, Required: true},
			{Key: types.FieldWaterScoreOther, Kind: KindText},
		}
	case types.ActivityObservation:
		return []FieldDescriptor{
			{Key: types.FieldAnimalQualityScore, Kind: KindRating, Required: true},
			{Key: types.FieldWaterQualityScore, Kind: KindRating, Required: true},
			{Key: types.FieldPresentPopulation, Kind: KindNumber},
			{Key: types.FieldSample1Count, Kind: KindNumber},
			{Key: types.FieldSample1Weight, Kind: KindNumber},
			{Key: types.FieldSample1AvgWt, Kind: KindNumber},
			{Key: types.FieldSample2Count, Kind: KindNumber},
			{Key: types.FieldSample2Weight, Kind: KindNumber},
			{Key: types.FieldSample2AvgWt, Kind: KindNumber},
			{Key: types.FieldNumberOfMolts, Kind: KindNumber},
			{Key: types.FieldMoltsCollected, Kind: KindNumber},
			{Key: types.FieldDeadAnimals, Kind: KindNumber},
			{Key: types.FieldNaupliiStockedMillion, Kind: KindNumber},
		}
	}
	return nil
}

// waterFields lists the fixed water-quality parameters. Values are free text
// so operators can record qualitative notes alongside numbers.
func waterFields() []FieldDescriptor {
	params := types.WaterParameters()
	fields := make([]FieldDescriptor, 0, len(params))
	for _, param := range params {
		fields = append(fields, FieldDescriptor{Key: param, Kind: KindText})
	}
	return fields
}

// ratingFields lists the 12 animal-quality dimensions rated 1-10, with the
// required subset flagged to match validation.
func ratingFields() []FieldDescriptor {
	required := map[string]bool{}
	for _, key := range types.RequiredAnimalRatings() {
		required[key] = true
	}
	keys := types.AnimalRatingKeys()
	fields := make([]FieldDescriptor, 0, len(keys))
	for _, key := range keys {
		fields = append(fields, FieldDescriptor{Key: key, Kind: KindRating, Required: required[key]})
	}
	return fields
}
