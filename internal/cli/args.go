package cli

import (
	"encoding/json"
	"fmt"
	"strings"
)

// parseAssignments turns key=value arguments into a metadata map. A value
// that parses as JSON (numbers, booleans, lists, objects) keeps its JSON
// type; anything else is a string.
func parseAssignments(args []string) (map[string]any, error) {
	out := make(map[string]any, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid assignment %q (expected key=value)", arg)
		}
		var parsed any
		if err := json.Unmarshal([]byte(value), &parsed); err != nil {
			parsed = value
		}
		out[key] = parsed
	}
	return out, nil
}
