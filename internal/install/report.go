package install

// Outcome is the final state of one service.
type Outcome string

// Service outcomes.
const (
	OutcomeInstalled Outcome = "installed"
	// OutcomeKept means installation succeeded but an existing descriptor was left as is.
	OutcomeKept      Outcome = "kept"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeNoBackend Outcome = "no-backend"
	OutcomeAborted   Outcome = "aborted"
)

// ServiceResult records what happened to one service.
type ServiceResult struct {
	Service  Service
	Outcome  Outcome
	Backend  string
	Output   string
	Attempts int
	// Err is the last installation error, if any.
	Err error
}

// Report summarises an installation run.
type Report struct {
	Results []ServiceResult
	// SharedCopied and SharedExisting list destination paths of shared files.
	SharedCopied   []string
	SharedExisting []string
	// InitErr is set when platform initialisation failed; the run continues.
	InitErr error
}

// Count returns the number of services that ended with outcome.
func (r Report) Count(outcome Outcome) int {
	n := 0
	for _, result := range r.Results {
		if result.Outcome == outcome {
			n++
		}
	}
	return n
}
