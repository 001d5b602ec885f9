package harness

// Step records the engine state after one scenario event.
type Step struct {
	Index        int    `json:"index"`
	Event        string `json:"event"`
	Undetermined int    `json:"undetermined"`
	Pending      int    `json:"pending"`
	Murder       string `json:"murder,omitempty"`
}

// Result is the outcome of running a scenario.
type Result struct {
	// Name is the scenario name.
	Name string `json:"name"`

	// Pass is true when every assertion held.
	Pass bool `json:"pass"`

	// Steps has one entry per applied event. A contradiction stops the
	// run, so Steps may be shorter than the scenario's events.
	Steps []Step `json:"steps"`

	// Errors contains assertion failures. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Snapshot is the formatted final engine state.
	Snapshot string `json:"snapshot"`

	// Err is the error that stopped the run, if any.
	Err string `json:"err,omitempty"`
}

// NewResult creates a passing result.
func NewResult(name string) *Result {
	return &Result{
		Name:   name,
		Pass:   true,
		Steps:  []Step{},
		Errors: []string{},
	}
}

// AddError adds a failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
