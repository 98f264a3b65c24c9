package util

import (
	"fmt"
	"strconv"
	"strings"
)

// AsString renders a loosely typed JSON value for prompt text.
// Missing values render as "N/A".
func AsString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return "N/A"
	case string:
		if strings.TrimSpace(t) == "" {
			return "N/A"
		}
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

// Lookup walks nested maps along path and returns the value found, if any.
func Lookup(m map[string]interface{}, path ...string) (interface{}, bool) {
	var cur interface{} = m
	for _, key := range path {
		node, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		if cur, ok = node[key]; !ok {
			return nil, false
		}
	}
	return cur, true
}
