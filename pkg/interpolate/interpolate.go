// Package interpolate provides placeholder substitution for reaction
// parameters. Placeholders use the {{name}} form and are bound from the flat
// data map emitted by a trigger check.
package interpolate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var placeholderPattern = regexp.MustCompile(`\{\{\s*(\w+)\s*\}\}`)

// Render substitutes placeholders in input using vars. Strings are
// interpolated, maps are rendered value-wise preserving keys, slices
// element-wise; every other value passes through unchanged. Render is pure
// and total: a placeholder without a matching variable is left intact so a
// parameter referencing an optional field never breaks a reaction.
func Render(input any, vars map[string]any) any {
	switch v := input.(type) {
	case string:
		return RenderString(v, vars)
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, value := range v {
			out[key] = Render(value, vars)
		}

		return out
	case []any:
		out := make([]any, len(v))
		for i, value := range v {
			out[i] = Render(value, vars)
		}

		return out
	default:
		return input
	}
}

// RenderString substitutes every {{name}} occurrence in input. Matching is
// case-sensitive and uses the variable name verbatim; nested paths are not
// supported.
func RenderString(input string, vars map[string]any) string {
	if !strings.Contains(input, "{{") {
		return input
	}

	return placeholderPattern.ReplaceAllStringFunc(input, func(match string) string {
		name := placeholderPattern.FindStringSubmatch(match)[1]

		value, ok := vars[name]
		if !ok {
			return match
		}

		return Stringify(value)
	})
}

// Stringify converts a variable to its canonical string form before
// substitution.
func Stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", value)
	}
}
