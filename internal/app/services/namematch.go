package services

import "strings"

// nameMatches reports whether a human-entered name loosely matches a stored
// student record. The comparison is case-insensitive and passes when the
// first token of either name is contained in the other. Kept deliberately
// loose: submissions and portal requests often disagree on middle names,
// initials and ordering, and a stricter gate here would lock legitimate
// students out.
func nameMatches(submitted, stored string) bool {
	sub := strings.ToLower(strings.TrimSpace(submitted))
	sto := strings.ToLower(strings.TrimSpace(stored))
	if sub == "" || sto == "" {
		return false
	}

	subFirst := strings.Fields(sub)[0]
	stoFirst := strings.Fields(sto)[0]
	return strings.Contains(sto, subFirst) || strings.Contains(sub, stoFirst)
}
