package extract

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/qezhu/medqc/internal/model"
)

// refRangePattern is the optional parenthesized reference range that may
// trail a value, e.g. "（参考范围：3.5-9.5）".
const refRangePattern = `(?:\s*[（(]\s*参考(?:值|范围)?[:：]?\s*([0-9.]+\s*-\s*[0-9.]+)\s*[)）])?`

// decimal and decimal-range value shapes shared by most indicators.
const (
	numPattern      = `([0-9]+(?:\.[0-9]+)?)`
	numRangePattern = `([0-9]+(?:\.[0-9]+)?(?:\s*-\s*[0-9]+(?:\.[0-9]+)?)?)`
)

// indicatorPattern ties a canonical indicator name to the regexp that pulls
// its value, optional unit, and optional reference range out of free text.
// Capture groups: 1 = value, 2 = unit, 3 = reference range.
type indicatorPattern struct {
	name string
	re   *regexp.Regexp
}

// indicatorPatterns is the fixed table of named indicators. Longer name
// alternatives come first inside each alternation so 空腹血糖 is not consumed
// as 血糖 plus noise. ASCII abbreviations are bounded to avoid firing inside
// unrelated words.
var indicatorPatterns = []indicatorPattern{
	{"血压", regexp.MustCompile(`(?i)(?:血压|\bbp\b)[:：]?\s*([0-9]{2,3}\s*/\s*[0-9]{2,3})\s*(mmhg|毫米汞柱)?` + refRangePattern)},
	{"心率", regexp.MustCompile(`(?i)(?:心率|脉搏|\bhr\b)[:：]?\s*` + numPattern + `\s*(次/分|bpm)?` + refRangePattern)},
	{"体温", regexp.MustCompile(`(?i)(?:体温|\btemp\b|\bt\b)[:：]?\s*` + numPattern + `\s*(℃|°c|摄氏度)?` + refRangePattern)},
	{"呼吸", regexp.MustCompile(`(?i)(?:呼吸频率|呼吸|\brr\b)[:：]?\s*` + numPattern + `\s*(次/分)?` + refRangePattern)},
	{"血氧饱和度", regexp.MustCompile(`(?i)(?:血氧饱和度|\bspo2\b)[:：]?\s*` + numPattern + `\s*(%)?` + refRangePattern)},
	{"血糖", regexp.MustCompile(`(?i)(?:空腹血糖|血糖|\bglu\b)[:：]?\s*` + numRangePattern + `\s*(mmol/l|mg/dl)?` + refRangePattern)},
	{"血红蛋白", regexp.MustCompile(`(?i)(?:血红蛋白|\bhb\b)[:：]?\s*` + numPattern + `\s*(g/l|g/dl)?` + refRangePattern)},
	{"白细胞计数", regexp.MustCompile(`(?i)(?:白细胞计数|白细胞|\bwbc\b)[:：]?\s*` + numRangePattern + `\s*([×x]?10[\^]?9/l)?` + refRangePattern)},
	{"血小板计数", regexp.MustCompile(`(?i)(?:血小板计数|血小板|\bplt\b)[:：]?\s*` + numRangePattern + `\s*([×x]?10[\^]?9/l)?` + refRangePattern)},
}

// IndicatorExtractor pulls quantitative clinical indicators out of text using
// the fixed named-indicator table. Extraction is best-effort: numbers with no
// recognized indicator name in front of them are ignored.
type IndicatorExtractor struct{}

// NewIndicatorExtractor creates an extractor.
func NewIndicatorExtractor() *IndicatorExtractor {
	return &IndicatorExtractor{}
}

// Extract returns the indicators found in the text, ordered by position.
func (e *IndicatorExtractor) Extract(text string) []model.Indicator {
	var indicators []model.Indicator

	for _, pat := range indicatorPatterns {
		for _, loc := range pat.re.FindAllStringSubmatchIndex(text, -1) {
			value := submatch(text, loc, 1)
			if value == "" {
				continue
			}
			indicators = append(indicators, model.Indicator{
				Name:           pat.name,
				RawValue:       strings.TrimSpace(value),
				Unit:           submatch(text, loc, 2),
				ReferenceRange: strings.ReplaceAll(submatch(text, loc, 3), " ", ""),
				SpanStart:      utf8.RuneCountInString(text[:loc[0]]),
				SpanEnd:        utf8.RuneCountInString(text[:loc[1]]),
			})
		}
	}

	sort.Slice(indicators, func(i, j int) bool {
		if indicators[i].SpanStart != indicators[j].SpanStart {
			return indicators[i].SpanStart < indicators[j].SpanStart
		}
		return indicators[i].Name < indicators[j].Name
	})
	return indicators
}

// submatch returns capture group n from a FindAllStringSubmatchIndex result,
// or "" when the group did not participate.
func submatch(text string, loc []int, n int) string {
	if 2*n+1 >= len(loc) || loc[2*n] < 0 {
		return ""
	}
	return text[loc[2*n]:loc[2*n+1]]
}
