package interpreter

import (
	"strconv"
	"strings"
)

// isTruthy implements the language's truthiness rule: nil and false are
// false, everything else (including 0 and "") is true.
func isTruthy(value any) bool {
	if value == nil {
		return false
	}
	if b, ok := value.(bool); ok {
		return b
	}
	return true
}

// isEqual implements cross-variant equality: nil equals only nil, and
// mismatched dynamic types are never equal even if naive Go == would
// coerce them. Callables and instances compare by (pointer) identity,
// which Go's == already gives for free on the pointer types below.
func isEqual(left, right any) bool {
	if left == nil && right == nil {
		return true
	}
	if left == nil || right == nil {
		return false
	}
	switch l := left.(type) {
	case float64:
		r, ok := right.(float64)
		return ok && l == r
	case string:
		r, ok := right.(string)
		return ok && l == r
	case bool:
		r, ok := right.(bool)
		return ok && l == r
	default:
		return left == right
	}
}

// stringify renders a value the way `print` does: numbers print with the
// host's default float formatting except that a whole-valued number prints
// without a trailing ".0"; callables and instances defer to their own
// String(); nil prints as "nil".
func stringify(value any) string {
	if value == nil {
		return "nil"
	}
	switch v := value.(type) {
	case bool:
		if v {
			return "true"
		}
		return "false"
	case float64:
		text := strconv.FormatFloat(v, 'f', -1, 64)
		if strings.Contains(text, ".") {
			text = strings.TrimRight(text, "0")
			text = strings.TrimRight(text, ".")
		}
		return text
	case string:
		return v
	case interface{ String() string }:
		return v.String()
	default:
		return "nil"
	}
}
