package domain

import "fmt"

// IssueStage identifies the pipeline stage that produced an issue
type IssueStage string

// issue stages
const (
	StageFormat IssueStage = "format" // file unparseable, skipped
	StageDate   IssueStage = "date"   // date not extracted, row kept with null date
	StageSource IssueStage = "source" // source not extracted, row kept with null source
)

// Issue is one recoverable problem recorded during a run
type Issue struct {
	Position int // 1-based input position of the offending file
	File     string
	Stage    IssueStage
	Reason   string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s (file %q, position %d)", i.Stage, i.Reason, i.File, i.Position)
}

// Report collects recoverable issues across a run. Fatal errors abort
// the pipeline and never land here.
type Report struct {
	Issues []Issue
}

// Add appends an issue to the report
func (r *Report) Add(issue Issue) {
	r.Issues = append(r.Issues, issue)
}

// Count returns the number of issues recorded for the given stage
func (r *Report) Count(stage IssueStage) int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Stage == stage {
			n++
		}
	}
	return n
}

// Empty reports whether the run completed without recoverable issues
func (r *Report) Empty() bool {
	return len(r.Issues) == 0
}
