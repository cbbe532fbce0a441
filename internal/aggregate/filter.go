package aggregate

import "regexp"

// Display-layer rule for complaint ids: an optionally signed numeric string
// starting with 6 or 7. Looser than the ingest validation, which also bounds
// the length; both layers are intentional and must not be conflated.
var displayComplaintPattern = regexp.MustCompile(`^[+-]?[67][0-9]*$`)

// DisplayableComplaintID reports whether a stored complaint id may be
// surfaced in rollups and dashboards.
func DisplayableComplaintID(id string) bool {
	return displayComplaintPattern.MatchString(id)
}
