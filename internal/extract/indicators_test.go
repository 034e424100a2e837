package extract

import (
	"testing"
)

func findIndicator(t *testing.T, text, name string) (value, unit, refRange string, found bool) {
	t.Helper()
	extractor := NewIndicatorExtractor()
	for _, ind := range extractor.Extract(text) {
		if ind.Name == name {
			return ind.RawValue, ind.Unit, ind.ReferenceRange, true
		}
	}
	return "", "", "", false
}

func TestExtract_BloodPressure(t *testing.T) {
	value, unit, _, found := findIndicator(t, "血压120/80mmHg", "血压")
	if !found {
		t.Fatal("Expected blood pressure indicator")
	}
	if value != "120/80" {
		t.Errorf("Expected value 120/80, got %q", value)
	}
	if unit != "mmHg" {
		t.Errorf("Expected unit mmHg, got %q", unit)
	}
}

func TestExtract_TemperatureWithColon(t *testing.T) {
	value, unit, _, found := findIndicator(t, "体温：38.5℃", "体温")
	if !found {
		t.Fatal("Expected temperature indicator")
	}
	if value != "38.5" {
		t.Errorf("Expected value 38.5, got %q", value)
	}
	if unit != "℃" {
		t.Errorf("Expected unit ℃, got %q", unit)
	}
}

func TestExtract_ReferenceRange(t *testing.T) {
	value, _, refRange, found := findIndicator(t, "白细胞计数12.5×10^9/L（参考范围：3.5-9.5）", "白细胞计数")
	if !found {
		t.Fatal("Expected white cell count indicator")
	}
	if value != "12.5" {
		t.Errorf("Expected value 12.5, got %q", value)
	}
	if refRange != "3.5-9.5" {
		t.Errorf("Expected reference range 3.5-9.5, got %q", refRange)
	}
}

func TestExtract_ASCIIAbbreviation(t *testing.T) {
	value, _, _, found := findIndicator(t, "HR 98次/分", "心率")
	if !found {
		t.Fatal("Expected heart rate indicator from HR abbreviation")
	}
	if value != "98" {
		t.Errorf("Expected value 98, got %q", value)
	}
}

func TestExtract_StrayNumbersIgnored(t *testing.T) {
	extractor := NewIndicatorExtractor()

	indicators := extractor.Extract("患者3天前入院，病房102床")

	if len(indicators) != 0 {
		t.Errorf("Expected no indicators for unnamed numbers, got %d", len(indicators))
	}
}

func TestExtract_OrderedByPosition(t *testing.T) {
	extractor := NewIndicatorExtractor()

	indicators := extractor.Extract("体温36.5℃，心率72次/分，血压120/80mmHg")

	if len(indicators) != 3 {
		t.Fatalf("Expected 3 indicators, got %d", len(indicators))
	}
	if indicators[0].Name != "体温" || indicators[1].Name != "心率" || indicators[2].Name != "血压" {
		t.Errorf("Expected 体温, 心率, 血压 in document order, got %q, %q, %q",
			indicators[0].Name, indicators[1].Name, indicators[2].Name)
	}
	for i := 1; i < len(indicators); i++ {
		if indicators[i-1].SpanStart > indicators[i].SpanStart {
			t.Errorf("Indicators out of order at %d", i)
		}
	}
}

func TestExtract_GlucoseRangeValue(t *testing.T) {
	value, unit, _, found := findIndicator(t, "空腹血糖4.0-6.1mmol/L", "血糖")
	if !found {
		t.Fatal("Expected glucose indicator")
	}
	if value != "4.0-6.1" {
		t.Errorf("Expected range value 4.0-6.1, got %q", value)
	}
	if unit != "mmol/L" {
		t.Errorf("Expected unit mmol/L, got %q", unit)
	}
}

func TestExtract_EmptyText(t *testing.T) {
	extractor := NewIndicatorExtractor()

	if indicators := extractor.Extract(""); len(indicators) != 0 {
		t.Errorf("Expected no indicators on empty text, got %d", len(indicators))
	}
}
