package harness

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Snapshot renders a result in golden file form:
//
//	<sql>
//	-- args: <json>
//	-- dropped: <path: reason>
//	-- rows: <json>
//	-- error: <message>
//
// Lines other than the SQL appear only when they have content.
func Snapshot(result *Result) ([]byte, error) {
	var buf bytes.Buffer
	if result.Err != "" {
		fmt.Fprintf(&buf, "-- error: %s\n", result.Err)
		return buf.Bytes(), nil
	}

	buf.WriteString(result.SQL)
	buf.WriteByte('\n')

	args := result.Args
	if args == nil {
		args = []any{}
	}
	encoded, err := json.Marshal(args)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(&buf, "-- args: %s\n", encoded)

	for _, d := range result.Dropped {
		fmt.Fprintf(&buf, "-- dropped: %s\n", d)
	}
	if result.RowIDs != nil {
		rows, err := json.Marshal(result.RowIDs)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&buf, "-- rows: %s\n", rows)
	}
	return buf.Bytes(), nil
}
