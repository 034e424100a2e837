package validate

import "github.com/qezhu/medqc/internal/model"

// limits is the plausible min/max band for a single numeric value.
type limits struct {
	min, max float64
}

func (l limits) contains(v float64) bool {
	return v >= l.min && v <= l.max
}

// indicatorLimits is the fixed plausibility band per indicator kind. Blood
// pressure is absent here: its compound value is checked against the
// systolic/diastolic bands below.
var indicatorLimits = map[model.IndicatorKind]limits{
	model.IndicatorHeartRate:        {20, 250},
	model.IndicatorTemperature:      {30, 45},
	model.IndicatorRespiratoryRate:  {5, 60},
	model.IndicatorOxygenSaturation: {0, 100},
	model.IndicatorBloodGlucose:     {1, 50},
	model.IndicatorHemoglobin:       {20, 250},
	model.IndicatorWhiteCellCount:   {0.1, 100},
	model.IndicatorPlateletCount:    {1, 1000},
}

var (
	systolicLimits  = limits{40, 300}
	diastolicLimits = limits{20, 200}
)

// acceptedUnits is the fixed unit vocabulary per indicator kind, normalized
// the same way lookup keys are.
var acceptedUnits = map[model.IndicatorKind][]string{
	model.IndicatorBloodPressure:    {"mmhg", "毫米汞柱"},
	model.IndicatorHeartRate:        {"次/分", "bpm"},
	model.IndicatorTemperature:      {"℃", "°c", "摄氏度"},
	model.IndicatorRespiratoryRate:  {"次/分"},
	model.IndicatorOxygenSaturation: {"%"},
	model.IndicatorBloodGlucose:     {"mmol/l", "mg/dl"},
	model.IndicatorHemoglobin:       {"g/l", "g/dl"},
	model.IndicatorWhiteCellCount:   {"×10^9/l", "x10^9/l", "10^9/l"},
	model.IndicatorPlateletCount:    {"×10^9/l", "x10^9/l", "10^9/l"},
}

// unitAccepted reports whether the unit belongs to the kind's vocabulary.
func unitAccepted(kind model.IndicatorKind, unit string) bool {
	normalized := model.NormalizeTerm(unit)
	for _, accepted := range acceptedUnits[kind] {
		if normalized == accepted {
			return true
		}
	}
	return false
}
