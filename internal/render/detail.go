package render

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// NoSelectionText is shown until a path point is clicked.
const NoSelectionText = "Click on a planet to see details."

// DescribePoint formats the click detail line for a path point's customdata
// ([planet, distance, x, y, z]). Malformed data yields NoSelectionText.
func DescribePoint(customdata []any) string {
	if len(customdata) < 5 {
		return NoSelectionText
	}
	name, ok := customdata[0].(string)
	if !ok || name == "" {
		return NoSelectionText
	}
	nums := make([]float64, 4)
	for i := range nums {
		v, ok := toFloat(customdata[i+1])
		if !ok {
			return NoSelectionText
		}
		nums[i] = v
	}
	return fmt.Sprintf("Planet: %s, Distance: %.2f AU, Position: (%.2f, %.2f, %.2f)",
		capitalize(name), nums[0], nums[1], nums[2], nums[3])
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
