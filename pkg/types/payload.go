package types

import (
	"fmt"
	"strconv"
	"strings"
)

// Payload field keys shared by every activity variant. Numeric form inputs
// are stored as strings (the way field operators type them); readers parse
// defensively and degrade to zero.
const (
	FieldDate     = "date"
	FieldTime     = "time"
	FieldAmPm     = "ampm"
	FieldComments = "comments"
)

// Variant-specific payload keys. These mirror the stored jsonb documents, so
// renaming one is a data migration, not a refactor.
const (
	FieldFeedType = "feedType"
	FieldFeedQty  = "feedQty"
	FieldFeedUnit = "feedUnit"

	FieldTreatmentType   = "treatmentType"
	FieldTreatmentDosage = "treatmentDosage"
	FieldTreatmentUnit   = "treatmentUnit"

	FieldWaterData = "waterData"

	FieldAnimalSize      = "animalSize"
	FieldAnimalRatings   = "animalRatings"
	FieldDiseaseSymptoms = "diseaseSymptoms"
	FieldOtherAnimal     = "otherAnimal"

	FieldBroodstockSource     = "broodstockSource"
	FieldHatcheryName         = "hatcheryName"
	FieldTankStockingNumber   = "tankStockingNumber"
	FieldNaupliiStocked       = "naupliiStocked"
	FieldAnimalConditionScore = "animalConditionScore"
	FieldAnimalScoreOther     = "animalScoreOther"
	FieldWaterQualityScore    = "waterQualityScore"
	FieldWaterScoreOther      = "waterScoreOther"

	FieldAnimalQualityScore    = "animalQualityScore"
	FieldPresentPopulation     = "presentPopulation"
	FieldSample1Count          = "sample1Count"
	FieldSample1Weight         = "sample1Weight"
	FieldSample1AvgWt          = "sample1AvgWt"
	FieldSample2Count          = "sample2Count"
	FieldSample2Weight         = "sample2Weight"
	FieldSample2AvgWt          = "sample2AvgWt"
	FieldNumberOfMolts         = "numberOfMolts"
	FieldMoltsCollected        = "moltsCollected"
	FieldDeadAnimals           = "deadAnimals"
	FieldNaupliiStockedMillion = "naupliiStockedMillion"

	// WaterParamPH is the waterData key consulted by the report aggregator.
	WaterParamPH = "pH"
)

// WaterParameters is the fixed set of water-quality parameter names. Values
// are free text; operators record qualitative notes alongside numbers.
func WaterParameters() []string {
	return []string{
		"Salinity", "pH", "Dissolved Oxygen", "Alkalinity", "Chlorine Content",
		"Iron Content", "Turbidity", "Temperature", "Hardness", "Ammonia",
		"Nitrate [NO3]", "Nitrite [NO2]", "Vibrio Count", "Yellow Green Bacteria",
		"Luminescence", "Other",
	}
}

// AnimalRatingKeys is the fixed list of 12 animal-quality dimensions rated
// 1–10.
func AnimalRatingKeys() []string {
	return []string{
		"swimmingActivity", "homogenousStage", "hepatopancreas",
		"intestinalContent", "fecalStrings", "necrosis", "deformities",
		"fouling", "epibionts", "muscleGutRatio", "size", "nextStageConversion",
	}
}

// requiredAnimalRatings are the rating dimensions that must be filled before
// an Animal Quality record can be saved.
var requiredAnimalRatings = []string{"homogenousStage", "fouling", "size"}

// RequiredAnimalRatings returns the rating dimensions enforced at save time.
func RequiredAnimalRatings() []string {
	return append([]string(nil), requiredAnimalRatings...)
}

// ValidatePayload enforces the save-time required-field policy for the given
// activity type. Unknown extra keys are preserved opaquely and ignored; a
// missing required field yields a field-identifying ValidationError and the
// record must not reach the store.
func ValidatePayload(activityType ActivityType, data map[string]any) error {
	if !KnownActivityType(activityType) {
		return NewValidationError("activityType", fmt.Sprintf("unknown value %q", activityType))
	}
	switch activityType {
	case ActivityAnimalQuality:
		if strings.TrimSpace(PayloadString(data, FieldAnimalSize)) == "" {
			return NewValidationError(FieldAnimalSize, "is required")
		}
		ratings := payloadRatings(data)
		for _, key := range requiredAnimalRatings {
			if ratings[key] < 1 {
				return NewValidationError(FieldAnimalRatings+"."+key, "rating 1-10 required")
			}
		}
		for key, value := range ratings {
			if value < 0 || value > 10 {
				return NewValidationError(FieldAnimalRatings+"."+key, "rating must be between 1 and 10")
			}
		}
	case ActivityStocking:
		if PayloadRating(data, FieldAnimalConditionScore) < 1 {
			return NewValidationError(FieldAnimalConditionScore, "rating 1-10 required")
		}
		if PayloadRating(data, FieldWaterQualityScore) < 1 {
			return NewValidationError(FieldWaterQualityScore, "rating 1-10 required")
		}
	case ActivityObservation:
		if PayloadRating(data, FieldAnimalQualityScore) < 1 {
			return NewValidationError(FieldAnimalQualityScore, "rating 1-10 required")
		}
		if PayloadRating(data, FieldWaterQualityScore) < 1 {
			return NewValidationError(FieldWaterQualityScore, "rating 1-10 required")
		}
	}
	return nil
}

// PayloadString returns the string value stored under key, or "" when absent
// or differently typed.
func PayloadString(data map[string]any, key string) string {
	if data == nil {
		return ""
	}
	switch v := data[key].(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	}
	return ""
}

// PayloadFloat parses the value stored under key as a float, accepting both
// numeric and string representations. Malformed or missing values degrade to
// 0 so partial data never blocks reporting.
func PayloadFloat(data map[string]any, key string) float64 {
	if data == nil {
		return 0
	}
	return coerceFloat(data[key])
}

// PayloadRating reads an integer rating under key, degrading to 0.
func PayloadRating(data map[string]any, key string) int {
	return int(PayloadFloat(data, key))
}

// WaterValue digs into the nested waterData map and parses the named
// parameter as a float, degrading to 0.
func WaterValue(data map[string]any, param string) float64 {
	if data == nil {
		return 0
	}
	nested, ok := data[FieldWaterData].(map[string]any)
	if !ok {
		return 0
	}
	return coerceFloat(nested[param])
}

func payloadRatings(data map[string]any) map[string]int {
	out := make(map[string]int)
	nested, ok := data[FieldAnimalRatings].(map[string]any)
	if !ok {
		return out
	}
	for key, value := range nested {
		out[key] = int(coerceFloat(value))
	}
	return out
}

func coerceFloat(value any) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return parsed
	}
	return 0
}
