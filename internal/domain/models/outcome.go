package models

// TaskState tracks a FetchTask through the pipeline.
type TaskState int

const (
	StatePending TaskState = iota
	StateFetched
	StateParsed
	StateNormalized
	StateCoerced
	StateValidated
	StateEmitted
	StateEmpty
	StateSkipped
	StateFailed
)

var stateNames = [...]string{
	StatePending:    "pending",
	StateFetched:    "fetched",
	StateParsed:     "parsed",
	StateNormalized: "normalized",
	StateCoerced:    "coerced",
	StateValidated:  "validated",
	StateEmitted:    "emitted",
	StateEmpty:      "empty",
	StateSkipped:    "skipped",
	StateFailed:     "failed",
}

func (s TaskState) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// OutcomeKind is the terminal classification of a task.
type OutcomeKind int

const (
	OutcomeEmpty OutcomeKind = iota
	OutcomeValidated
	OutcomeFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeEmpty:
		return "empty"
	case OutcomeValidated:
		return "validated"
	case OutcomeFailed:
		return "failed"
	}
	return "unknown"
}

// TaskOutcome is returned for every task.
type TaskOutcome struct {
	Task    FetchTask
	Kind    OutcomeKind
	State   TaskState
	Records []Record
	// Dropped counts rows rejected by schema validation.
	Dropped int
	Err     error
}

// RunReport summarizes a crawl over a date range.
type RunReport struct {
	Outcomes  []TaskOutcome
	Validated int
	Empty     int
	Failed    int
	Records   int
}

// Add appends an outcome and updates the counters.
func (r *RunReport) Add(o TaskOutcome) {
	r.Outcomes = append(r.Outcomes, o)
	switch o.Kind {
	case OutcomeValidated:
		r.Validated++
		r.Records += len(o.Records)
	case OutcomeEmpty:
		r.Empty++
	case OutcomeFailed:
		r.Failed++
	}
}
