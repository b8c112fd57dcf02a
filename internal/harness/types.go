package harness

// CaseResult is the outcome of one case.
type CaseResult struct {
	Name  string `json:"name"`
	Input string `json:"input"`

	// Kind is the category of the decoded value; empty when decoding failed.
	Kind string `json:"kind,omitempty"`

	// Text and Tree are the encoded forms of the decoded value.
	Text string `json:"text,omitempty"`
	Tree string `json:"tree,omitempty"`

	// Error is the error code of a failed case; Message its full text.
	Error   string `json:"error,omitempty"`
	Message string `json:"-"`

	// Pass reports whether the case met its expect clause.
	Pass bool `json:"pass"`

	value   any
	decoded bool
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success: every case and assertion passed.
	Pass bool `json:"pass"`

	Cases []*CaseResult `json:"cases"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Warnings counts the warnings the codecs logged.
	Warnings int `json:"warnings"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Cases:  []*CaseResult{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Case returns the result of the named case.
func (r *Result) Case(name string) (*CaseResult, bool) {
	for _, c := range r.Cases {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}
