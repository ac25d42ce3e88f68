package data

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ProcurementRecord is one structured row extracted from a chat screenshot.
// Quantity and UnitPrice are pointers because "not found" and "zero" are
// different things for a purchasing sheet.
type ProcurementRecord struct {
	ItemName      string   `json:"item_name,omitempty"`
	Specification string   `json:"specification,omitempty"`
	Quantity      *float64 `json:"quantity,omitempty"`
	UnitPrice     *float64 `json:"unit_price,omitempty"`
	Currency      string   `json:"currency"`
	SourceText    string   `json:"source_text"`
	Confidence    float64  `json:"confidence"`
}

type DataExtractor struct{}

var (
	// price: "3.8元", "12块", "￥45", "RMB 45"
	pricePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:元|块)`),
		regexp.MustCompile(`￥\s*(\d+(?:\.\d+)?)`),
		regexp.MustCompile(`RMB\s*(\d+(?:\.\d+)?)`),
	}

	// specification: lengths, sizes, power, or an explicit 型号/规格/尺寸 label
	specPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\d+(?:\.\d+)?\s*(?:米|[mM]\b)`),
		regexp.MustCompile(`\d+(?:\.\d+)?\s*(?:毫米|(?:cm|CM|mm|MM)\b)`),
		regexp.MustCompile(`\d+(?:\.\d+)?\s*(?:瓦|[wW]\b)`),
		regexp.MustCompile(`(?:型号|规格|尺寸)\s*[:：]?\s*\S+`),
	}

	// quantity: counting units only. "3.4米" is a specification, not a count,
	// so length units are deliberately left out here.
	qtyPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:个|条|套|箱|件|只|根|卷)`),
		regexp.MustCompile(`数量\s*[:：]?\s*(\d+(?:\.\d+)?)`),
	}

	// number+unit fragment, used both as the specification fallback and to
	// peel the specification out of the first line when deriving the item
	// name. Units are case-sensitive: "3.4m" is a length, "2M" is part of
	// a model name.
	unitFragment = regexp.MustCompile(`\d+(?:\.\d+)?\s*(?:米|瓦|(?:cm|mm|m)\b|W\b)`)

	noisyWords = []string{"价格", "便宜", "要不要", "看看", "可以吗", "行不行", "怎么样", "报个价"}
)

func NewDataExtractor() *DataExtractor {
	return &DataExtractor{}
}

// Extract pulls the MVP procurement fields out of raw OCR text. Every found
// field bumps the confidence score; the base is 0.50 for any non-empty text.
func (de *DataExtractor) Extract(rawText string) ProcurementRecord {
	text := strings.TrimSpace(rawText)

	var lines []string
	for _, ln := range strings.Split(text, "\n") {
		if ln = strings.TrimSpace(ln); ln != "" {
			lines = append(lines, ln)
		}
	}

	record := ProcurementRecord{
		Currency:   "CNY",
		SourceText: strings.Join(lines, " "),
		Confidence: 0.50,
	}
	if record.SourceText == "" {
		record.SourceText = text
	}

	if len(lines) == 0 {
		record.Confidence = 0.0
		return record
	}

	if price, ok := firstNumber(lines, pricePatterns); ok {
		record.UnitPrice = &price
		record.Confidence += 0.20
	}

	// very MVP: any dollar sign means USD, otherwise assume RMB
	if strings.Contains(text, "$") || strings.Contains(strings.ToUpper(text), "USD") {
		record.Currency = "USD"
	}

	// the whole matching line is kept as the specification so a human can
	// trace it back to the original phrasing
	spec := ""
	for _, ln := range lines {
		if matchesAny(ln, specPatterns) {
			spec = ln
			break
		}
	}
	if spec == "" && unitFragment.MatchString(lines[0]) {
		// first line reads like "灯带3.4米" - name and spec glued together
		spec = lines[0]
	}
	if spec != "" {
		record.Specification = spec
		record.Confidence += 0.15
	}

	if qty, ok := firstNumber(lines, qtyPatterns); ok {
		record.Quantity = &qty
		record.Confidence += 0.10
	}

	// item name: first line minus chatter minus the number+unit fragment
	first := lines[0]
	cleaned := first
	for _, w := range noisyWords {
		cleaned = strings.ReplaceAll(cleaned, w, "")
	}
	cleaned = unitFragment.ReplaceAllString(cleaned, "")
	cleaned = strings.Trim(cleaned, " ,，:：-—/")

	if cleaned != "" {
		record.ItemName = cleaned
		record.Confidence += 0.15
	} else {
		record.ItemName = first
		record.Confidence += 0.05
	}

	record.Confidence = clamp01(math.Round(record.Confidence*100) / 100)

	return record
}

func firstNumber(lines []string, patterns []*regexp.Regexp) (float64, bool) {
	for _, ln := range lines {
		for _, pat := range patterns {
			m := pat.FindStringSubmatch(ln)
			if m == nil {
				continue
			}
			v, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				continue
			}
			return v, true
		}
	}
	return 0, false
}

func matchesAny(line string, patterns []*regexp.Regexp) bool {
	for _, pat := range patterns {
		if pat.MatchString(line) {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	return math.Max(0.0, math.Min(1.0, v))
}

func MapCSVRecord(item ProcurementRecord) []string {
	return []string{
		item.ItemName,
		item.Specification,
		formatOptional(item.Quantity),
		formatOptional(item.UnitPrice),
		item.Currency,
		item.SourceText,
		strconv.FormatFloat(item.Confidence, 'f', 2, 64),
	}
}

func GetCSVHeader() []string {
	return []string{"item_name", "specification", "quantity", "unit_price", "currency", "source_text", "confidence"}
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
