// Package mapping persists the binding between local git branches and
// Keboola development branch IDs.
//
// The store is a single human-editable JSON file of the form
//
//	{
//	  "main": null,
//	  "feature/auth": "972851"
//	}
//
// where null means "production, no override". The file is owned by a
// single developer; concurrent writers from two processes race with
// last-writer-wins, which is accepted. Every consumer re-reads the file,
// nothing holds a long-lived copy.
package mapping

import (
	"sort"
)

// BranchMapping maps a local git branch name to a Keboola branch ID.
// A nil value is an explicit "production, no override" entry.
type BranchMapping map[string]*string

// Keys returns the mapped branch names, sorted
func (m BranchMapping) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
