package models

import "time"

// Upload saga states. A document row is created when an upload URL is issued
// and only becomes usable once the bytes in the object store are confirmed.
type DocumentState string

const (
	DocumentStateURLRequested DocumentState = "url_requested"
	DocumentStateConfirmed    DocumentState = "confirmed"
	DocumentStateOrphaned     DocumentState = "orphaned"
)

type Document struct {
	ID          string
	OwnerID     string
	ProjectID   string
	Name        string
	ContentType string
	Bucket      string
	ObjectKey   string
	SizeBytes   int64
	State       DocumentState
	Signature   []byte
	ConfirmedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
