package repositories

import (
	"sort"
	"strings"
)

// CertKey is the identity of one certificate row for reconciliation
// purposes: course name, certification date (YYYY-MM-DD) and status.
type CertKey struct {
	CourseName string
	CertDate   string
	Status     string
}

// SignatureOf computes an order-independent signature over a set of
// certificate keys. Two submissions with the same rows in any order produce
// the same signature, so harmless re-runs are detected without writes.
func SignatureOf(keys []CertKey) string {
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k.CourseName+"|"+k.CertDate+"|"+k.Status)
	}
	sort.Strings(lines)
	return strings.Join(lines, "\n")
}
