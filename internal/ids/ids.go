package ids

import "github.com/segmentio/ksuid"

// New returns a sortable unique id for entities (users, drafts, documents).
func New() string {
	return ksuid.New().String()
}
