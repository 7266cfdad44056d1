package harness

import (
	"encoding/json"
	"fmt"
	"strings"
)

// EvaluateExpect compares result against expect and returns one message
// per mismatch.
func EvaluateExpect(result *Result, expect Expect) []string {
	var errs []string

	if result.Err != "" {
		if expect.Error == "" {
			return []string{fmt.Sprintf("unexpected error: %s", result.Err)}
		}
		if !strings.Contains(result.Err, expect.Error) {
			errs = append(errs, fmt.Sprintf("error mismatch: expected substring %q, got %q", expect.Error, result.Err))
		}
		return errs
	}
	if expect.Error != "" {
		errs = append(errs, fmt.Sprintf("expected error containing %q, request succeeded", expect.Error))
	}

	if expect.SQL != "" && strings.TrimSpace(expect.SQL) != result.SQL {
		errs = append(errs, fmt.Sprintf("sql mismatch:\n  expected: %s\n  actual:   %s", strings.TrimSpace(expect.SQL), result.SQL))
	}

	if expect.Args != nil {
		want, got := jsonText(expect.Args), jsonText(result.Args)
		if want != got {
			errs = append(errs, fmt.Sprintf("args mismatch: expected %s, got %s", want, got))
		}
	}

	if expect.RowIDs != nil {
		want, got := jsonText(expect.RowIDs), jsonText(result.RowIDs)
		if want != got {
			errs = append(errs, fmt.Sprintf("row_ids mismatch: expected %s, got %s", want, got))
		}
	}

	if expect.Dropped != nil {
		want, got := jsonText(expect.Dropped), jsonText(result.Dropped)
		if want != got {
			errs = append(errs, fmt.Sprintf("dropped mismatch: expected %s, got %s", want, got))
		}
	}

	return errs
}

// jsonText renders v for comparison. Nil and empty slices both render "[]".
func jsonText(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	if string(b) == "null" {
		return "[]"
	}
	return string(b)
}
