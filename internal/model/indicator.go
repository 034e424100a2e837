package model

// IndicatorKind enumerates the quantitative indicators the extractor and
// validator know about. Keeping this a closed enum means the range and unit
// tables in the validator can be checked exhaustively when a kind is added.
type IndicatorKind int

const (
	IndicatorUnknown IndicatorKind = iota
	IndicatorBloodPressure
	IndicatorHeartRate
	IndicatorTemperature
	IndicatorRespiratoryRate
	IndicatorOxygenSaturation
	IndicatorBloodGlucose
	IndicatorHemoglobin
	IndicatorWhiteCellCount
	IndicatorPlateletCount
)

// indicatorKindNames maps each kind to its canonical (Chinese) surface name.
var indicatorKindNames = map[IndicatorKind]string{
	IndicatorBloodPressure:    "血压",
	IndicatorHeartRate:        "心率",
	IndicatorTemperature:      "体温",
	IndicatorRespiratoryRate:  "呼吸",
	IndicatorOxygenSaturation: "血氧饱和度",
	IndicatorBloodGlucose:     "血糖",
	IndicatorHemoglobin:       "血红蛋白",
	IndicatorWhiteCellCount:   "白细胞计数",
	IndicatorPlateletCount:    "血小板计数",
}

// indicatorNameKinds resolves surface names, including the ASCII
// abbreviations clinicians mix into logographic text.
var indicatorNameKinds = map[string]IndicatorKind{
	"血压":    IndicatorBloodPressure,
	"bp":    IndicatorBloodPressure,
	"心率":    IndicatorHeartRate,
	"脉搏":    IndicatorHeartRate,
	"hr":    IndicatorHeartRate,
	"体温":    IndicatorTemperature,
	"t":     IndicatorTemperature,
	"呼吸":    IndicatorRespiratoryRate,
	"呼吸频率":  IndicatorRespiratoryRate,
	"rr":    IndicatorRespiratoryRate,
	"血氧饱和度": IndicatorOxygenSaturation,
	"spo2":  IndicatorOxygenSaturation,
	"血糖":    IndicatorBloodGlucose,
	"空腹血糖":  IndicatorBloodGlucose,
	"glu":   IndicatorBloodGlucose,
	"血红蛋白":  IndicatorHemoglobin,
	"hb":    IndicatorHemoglobin,
	"白细胞计数": IndicatorWhiteCellCount,
	"白细胞":   IndicatorWhiteCellCount,
	"wbc":   IndicatorWhiteCellCount,
	"血小板计数": IndicatorPlateletCount,
	"血小板":   IndicatorPlateletCount,
	"plt":   IndicatorPlateletCount,
}

// String returns the canonical surface name for the kind.
func (k IndicatorKind) String() string {
	if name, ok := indicatorKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// KindForName resolves an indicator surface name to its kind, or
// IndicatorUnknown when the name is not recognized.
func KindForName(name string) IndicatorKind {
	if kind, ok := indicatorNameKinds[NormalizeTerm(name)]; ok {
		return kind
	}
	return IndicatorUnknown
}

// Indicator is one quantitative clinical value pulled out of a document.
// It lives for exactly one validation pass and is never mutated.
type Indicator struct {
	Name           string `json:"name"`
	RawValue       string `json:"raw_value"`
	Unit           string `json:"unit,omitempty"`
	ReferenceRange string `json:"reference_range,omitempty"`
	SpanStart      int    `json:"span_start"` // rune offset, inclusive
	SpanEnd        int    `json:"span_end"`   // rune offset, exclusive
}

// Kind resolves the indicator's name to its enumerated kind.
func (i Indicator) Kind() IndicatorKind {
	return KindForName(i.Name)
}

// MedicalValidationResult is the output of one validator pass over a
// document's extracted indicators.
type MedicalValidationResult struct {
	Indicators       []Indicator       `json:"indicators"`
	TotalIndicators  int               `json:"total_indicators"`
	ValidationErrors []ValidationIssue `json:"validation_errors"`
	Confidence       float64           `json:"confidence"`
}

// MedicalValidationReport is a pure projection of a validation result into
// display-ready summary counts.
type MedicalValidationReport struct {
	TotalIndicators     int     `json:"total_indicators"`
	IndicatorsWithError int     `json:"indicators_with_error"`
	Confidence          float64 `json:"confidence"`
	Summary             string  `json:"summary"`
}
