package testkit

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// DiffJSON lists where actual fails to contain expected. Objects match on the
// expected keys only; arrays must have equal length and match element-wise.
func DiffJSON(path string, expected, actual interface{}) []string {
	var diffs []string
	switch exp := expected.(type) {
	case map[string]interface{}:
		act, ok := actual.(map[string]interface{})
		if !ok {
			return append(diffs, fmt.Sprintf("  %s: expected object, got %T", keyPath(path), actual))
		}
		for k, ev := range exp {
			p := keyPath(path) + "." + k
			av, exists := act[k]
			if !exists {
				diffs = append(diffs, fmt.Sprintf("  %s: missing in actual", p))
				continue
			}
			diffs = append(diffs, DiffJSON(p, ev, av)...)
		}
	case []interface{}:
		act, ok := actual.([]interface{})
		if !ok {
			return append(diffs, fmt.Sprintf("  %s: expected array, got %T", keyPath(path), actual))
		}
		if len(exp) != len(act) {
			diffs = append(diffs, fmt.Sprintf("  %s: array length expected=%d actual=%d", keyPath(path), len(exp), len(act)))
		}
		for i := 0; i < len(exp) && i < len(act); i++ {
			diffs = append(diffs, DiffJSON(fmt.Sprintf("%s[%d]", keyPath(path), i), exp[i], act[i])...)
		}
	default:
		if fmt.Sprintf("%v", expected) != fmt.Sprintf("%v", actual) {
			diffs = append(diffs, fmt.Sprintf("  %s:\n    - %v\n    + %v", keyPath(path), expected, actual))
		}
	}
	return diffs
}

// Contains decodes both documents and reports the DiffJSON of the two.
func Contains(expected, actual []byte) ([]string, error) {
	var exp, act interface{}
	if err := json.Unmarshal(expected, &exp); err != nil {
		return nil, fmt.Errorf("expected body is not valid JSON: %w", err)
	}
	if err := json.Unmarshal(actual, &act); err != nil {
		return nil, fmt.Errorf("actual body is not valid JSON: %w\nbody: %s", err, actual)
	}
	return DiffJSON("", exp, act), nil
}

// Lookup walks a dotted path ("order.orderItems.0.id") through a decoded
// JSON document.
func Lookup(doc interface{}, path string) (interface{}, bool) {
	cur := doc
	for _, part := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]interface{}:
			v, ok := node[part]
			if !ok {
				return nil, false
			}
			cur = v
		case []interface{}:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(node) {
				return nil, false
			}
			cur = node[i]
		default:
			return nil, false
		}
	}
	return cur, true
}

func keyPath(path string) string {
	if path == "" {
		return "root"
	}
	return strings.TrimPrefix(path, ".")
}
