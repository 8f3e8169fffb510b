// Package recon implements the credential reconciliation pipeline:
// group-level eligibility followed by row-level login match classification.
package recon

import "loginrecon/internal/model"

// groupTally accumulates the flag and status composition of one group.
type groupTally struct {
	selected   bool
	unselected bool
	terminated bool
}

func (t groupTally) eligible() bool {
	return t.selected && t.unselected && !t.terminated
}

// GroupEligibility partitions records by (employee ID, employee type) and
// decides, per group, whether the group qualifies for comparison. A group
// qualifies when it holds at least one Y-flagged record, at least one
// N-flagged record, and no terminated record. Flag and status values
// outside {Y, N, T} contribute nothing; a singleton group can never
// qualify. The result depends only on the multiset of values present,
// never on record order.
func GroupEligibility(records []model.Record) map[model.GroupKey]bool {
	tallies := make(map[model.GroupKey]groupTally)
	for _, rec := range records {
		key := rec.Key()
		tally := tallies[key]
		switch rec.Flag {
		case model.FlagSelected:
			tally.selected = true
		case model.FlagUnselected:
			tally.unselected = true
		}
		if rec.Status == model.StatusTerminated {
			tally.terminated = true
		}
		tallies[key] = tally
	}

	eligibility := make(map[model.GroupKey]bool, len(tallies))
	for key, tally := range tallies {
		eligibility[key] = tally.eligible()
	}
	return eligibility
}
