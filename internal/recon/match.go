package recon

import (
	"strings"

	"loginrecon/internal/model"
)

// prefixLen is the number of leading bytes two differing logins must share
// to count as a partial match.
const prefixLen = 3

// missingLogin is the placeholder an absent login is compared as. The
// legacy report coerced missing values to the text "nan" before comparing,
// so two absent logins classify as a full match on the placeholder. Kept
// for run-to-run parity with that report.
const missingLogin = "nan"

// ClassifyLogins compares a development and a UAT login and returns the
// match category. Comparison is case-insensitive and total: any pair of
// values, including absent ones, yields exactly one category. Checks run
// full-match first, then partial, so a full match is never also reported
// as partial.
func ClassifyLogins(dev, uat *string) model.MatchType {
	d := normalizeLogin(dev)
	u := normalizeLogin(uat)

	if d == u {
		return model.MatchFull
	}
	if len(d) >= prefixLen && len(u) >= prefixLen && d[:prefixLen] == u[:prefixLen] {
		return model.MatchPartial
	}
	return model.MatchNone
}

func normalizeLogin(login *string) string {
	if login == nil {
		return missingLogin
	}
	return strings.ToLower(*login)
}
