package harness

// Result is the outcome of running one scenario.
type Result struct {
	// Pass is true when every expectation held.
	Pass bool `json:"pass"`

	SQL     string   `json:"sql,omitempty"`
	Args    []any    `json:"args,omitempty"`
	Dropped []string `json:"dropped,omitempty"`

	// RowIDs are the primary keys returned, in order. Nil unless the
	// scenario executed.
	RowIDs []int64 `json:"row_ids,omitempty"`

	// Err is the request error, when the request failed.
	Err string `json:"error,omitempty"`

	// Errors lists failed expectations. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{Pass: true, Errors: []string{}}
}

// AddError records a failed expectation and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
