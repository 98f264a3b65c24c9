package yahoo

import (
	"encoding/json"
	"strings"
)

// rawJSON defers decoding of the quote block until a shape is detected.
type rawJSON = json.RawMessage

// columns maps a lowercased field name to its per-row values; nil marks a gap.
type columns map[string][]*float64

var priceFields = []string{"open", "high", "low", "close"}

type shapeDetector struct {
	name   string
	detect func(raw rawJSON, symbol string) (columns, bool)
}

// Tried in order; the first shape exposing every price field wins.
var detectors = []shapeDetector{
	{name: "quote_array", detect: quoteArray},
	{name: "grouped_by_ticker", detect: groupedByTicker},
	{name: "keyed_by_field", detect: keyedByField},
}

func detectColumns(raw rawJSON, symbol string) (columns, string, bool) {
	if len(raw) == 0 {
		return nil, "", false
	}
	for _, d := range detectors {
		if cols, ok := d.detect(raw, symbol); ok && cols.hasPrices() {
			return cols, d.name, true
		}
	}
	return nil, "", false
}

func (c columns) hasPrices() bool {
	for _, f := range priceFields {
		if _, ok := c[f]; !ok {
			return false
		}
	}
	return true
}

// quoteArray: {"quote":[{"open":[...],"close":[...]}]}
func quoteArray(raw rawJSON, _ string) (columns, bool) {
	var arr []map[string]rawJSON
	if err := json.Unmarshal(raw, &arr); err != nil || len(arr) == 0 {
		return nil, false
	}
	return fieldColumns(arr[0]), true
}

// groupedByTicker: {"quote":{"TCS.NS":{"Open":[...],"Close":[...]}}}
func groupedByTicker(raw rawJSON, symbol string) (columns, bool) {
	var groups map[string]map[string]rawJSON
	if err := json.Unmarshal(raw, &groups); err != nil || len(groups) == 0 {
		return nil, false
	}
	fields, ok := pick(groups, symbol)
	if !ok {
		return nil, false
	}
	return fieldColumns(fields), true
}

// keyedByField: {"quote":{"Close":{"TCS.NS":[...]},"Open":{"TCS.NS":[...]}}}
func keyedByField(raw rawJSON, symbol string) (columns, bool) {
	var fields map[string]map[string]rawJSON
	if err := json.Unmarshal(raw, &fields); err != nil || len(fields) == 0 {
		return nil, false
	}
	cols := make(columns, len(fields))
	for name, byTicker := range fields {
		v, ok := pick(byTicker, symbol)
		if !ok {
			continue
		}
		if vals, ok := decodeSeries(v); ok {
			cols[strings.ToLower(name)] = vals
		}
	}
	return cols, len(cols) > 0
}

func fieldColumns(m map[string]rawJSON) columns {
	cols := make(columns, len(m))
	for name, v := range m {
		if vals, ok := decodeSeries(v); ok {
			cols[strings.ToLower(name)] = vals
		}
	}
	return cols
}

func decodeSeries(raw rawJSON) ([]*float64, bool) {
	var vals []*float64
	if err := json.Unmarshal(raw, &vals); err != nil {
		return nil, false
	}
	return vals, true
}

// pick selects the entry for symbol (case-insensitive), or the only entry
// when there is exactly one.
func pick[T any](m map[string]T, symbol string) (T, bool) {
	for k, v := range m {
		if strings.EqualFold(k, symbol) {
			return v, true
		}
	}
	var zero T
	if len(m) == 1 {
		for _, v := range m {
			return v, true
		}
	}
	return zero, false
}
