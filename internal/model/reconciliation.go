package model

import "time"

// MatchType classifies how a record's two logins relate.
type MatchType string

// Match type constants.
const (
	MatchFull    MatchType = "FULL_MATCH"
	MatchPartial MatchType = "PARTIAL_MATCH"
	MatchNone    MatchType = "NO_MATCH"
)

// ReconciledRecord is the output projection of a reconciled record: the
// six input fields plus the derived match type. Produced only for records
// in an eligible group that carry the selected flag, and never mutated
// after creation.
type ReconciledRecord struct {
	EmpID     string
	EmpType   string
	DevLogin  *string
	UATLogin  *string
	Status    string
	Flag      string
	MatchType MatchType
}

// ReconRun records one execution of the reconciliation pipeline.
type ReconRun struct {
	StartedAt      time.Time
	CompletedAt    time.Time
	Source         string // extract source filter, empty = all records
	ID             int64
	TotalRecords   int
	EligibleGroups int
	TotalGroups    int
	FullMatches    int
	PartialMatches int
	NoMatches      int
}

// ResultCount returns the number of classified rows the run produced.
func (r *ReconRun) ResultCount() int {
	return r.FullMatches + r.PartialMatches + r.NoMatches
}
