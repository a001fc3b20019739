// Package doctor checks that a source checkout and the host are ready for
// an installation run.
package doctor

// Status is the outcome of a single check.
type Status string

// Check statuses.
const (
	StatusOK   Status = "OK"
	StatusWarn Status = "WARN"
	StatusFail Status = "FAIL"
)

// Result is one reported check.
type Result struct {
	Status         Status
	CheckName      string
	Message        string
	Recommendation string
}

// HasFailure reports whether any result failed.
func HasFailure(results []Result) bool {
	for _, r := range results {
		if r.Status == StatusFail {
			return true
		}
	}
	return false
}
