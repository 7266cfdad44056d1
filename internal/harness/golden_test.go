package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot(t *testing.T) {
	tests := []struct {
		name   string
		result *Result
		want   string
	}{
		{
			"sql only",
			&Result{SQL: "SELECT 1"},
			"SELECT 1\n-- args: []\n",
		},
		{
			"full",
			&Result{
				SQL:     "SELECT `a` FROM `t` WHERE `a` < ?",
				Args:    []any{int64(3)},
				Dropped: []string{"sort[0]: sort key is not a field id"},
				RowIDs:  []int64{},
			},
			"SELECT `a` FROM `t` WHERE `a` < ?\n-- args: [3]\n-- dropped: sort[0]: sort key is not a field id\n-- rows: []\n",
		},
		{
			"error",
			&Result{Err: "COMPILE_FAILED: person: boom"},
			"-- error: COMPILE_FAILED: person: boom\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Snapshot(tt.result)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}
