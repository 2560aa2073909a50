package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"lendflow/internal/config"
	"lendflow/internal/ids"
	"lendflow/internal/models"
	"lendflow/internal/security"
	"lendflow/internal/storage"
)

var (
	// ErrUploadIncomplete means confirm ran before the bytes arrived.
	ErrUploadIncomplete = errors.New("upload not complete")
	// ErrDocumentNotReady means download was requested for an unconfirmed document.
	ErrDocumentNotReady = errors.New("document not confirmed")
	ErrNotDocumentOwner = errors.New("not document owner")
)

type DocumentStore interface {
	Create(ctx context.Context, doc models.Document) error
	GetByID(ctx context.Context, id string) (models.Document, error)
	SetState(ctx context.Context, id string, state models.DocumentState, sizeBytes int64) error
	ListUnconfirmedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.Document, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Document, error)
}

// BlobStore is the object-store surface the saga needs; *storage.ObjectStore
// satisfies it.
type BlobStore interface {
	PresignPut(ctx context.Context, bucket, objectKey string, ttl time.Duration) (string, error)
	PresignGet(ctx context.Context, bucket, objectKey string, ttl time.Duration, downloadName string) (string, error)
	Stat(ctx context.Context, bucket, objectKey string) (int64, error)
}

// DocumentService runs the three-state upload saga:
// url_requested -> confirmed, with orphaned as the sweep's terminal state for
// uploads that never arrived.
type DocumentService struct {
	docs   DocumentStore
	blobs  BlobStore
	bucket string
	cfg    config.DocumentsConfig
	secret string
	log    zerolog.Logger
}

func NewDocumentService(docs DocumentStore, blobs BlobStore, bucket string, cfg config.DocumentsConfig, secret string, log zerolog.Logger) *DocumentService {
	return &DocumentService{
		docs:   docs,
		blobs:  blobs,
		bucket: bucket,
		cfg:    cfg,
		secret: secret,
		log:    log,
	}
}

type UploadGrant struct {
	Document  models.Document
	UploadURL string
}

// RequestUpload issues a presigned PUT URL and records the pending document.
func (s *DocumentService) RequestUpload(ctx context.Context, ownerID, projectID, name, contentType string) (UploadGrant, error) {
	if name == "" || contentType == "" {
		return UploadGrant{}, fmt.Errorf("name and contentType required")
	}

	docID := ids.New()
	objectKey := buildObjectKey(ownerID, docID, name)

	doc := models.Document{
		ID:          docID,
		OwnerID:     ownerID,
		ProjectID:   projectID,
		Name:        path.Base(name),
		ContentType: contentType,
		Bucket:      s.bucket,
		ObjectKey:   objectKey,
		State:       models.DocumentStateURLRequested,
		Signature:   security.SignResource(s.secret, docID, objectKey),
	}
	if err := s.docs.Create(ctx, doc); err != nil {
		return UploadGrant{}, fmt.Errorf("record document: %w", err)
	}

	uploadURL, err := s.blobs.PresignPut(ctx, s.bucket, objectKey, s.cfg.UploadURLTTL)
	if err != nil {
		return UploadGrant{}, err
	}

	return UploadGrant{Document: doc, UploadURL: uploadURL}, nil
}

// Confirm verifies the bytes actually landed in the object store before
// marking the document usable. Confirming twice is a no-op.
func (s *DocumentService) Confirm(ctx context.Context, docID, ownerID string) (models.Document, error) {
	doc, err := s.docs.GetByID(ctx, docID)
	if err != nil {
		return models.Document{}, err
	}
	if doc.OwnerID != ownerID {
		return models.Document{}, ErrNotDocumentOwner
	}
	if doc.State == models.DocumentStateConfirmed {
		return doc, nil
	}

	size, err := s.blobs.Stat(ctx, doc.Bucket, doc.ObjectKey)
	if err != nil {
		if errors.Is(err, storage.ErrObjectMissing) {
			return models.Document{}, ErrUploadIncomplete
		}
		return models.Document{}, err
	}

	if err := s.docs.SetState(ctx, docID, models.DocumentStateConfirmed, size); err != nil {
		return models.Document{}, err
	}
	doc.State = models.DocumentStateConfirmed
	doc.SizeBytes = size
	return doc, nil
}

// DownloadURL returns a presigned GET for a confirmed document after checking
// the stored resource signature still matches the id/key pair.
func (s *DocumentService) DownloadURL(ctx context.Context, docID, ownerID string, privileged bool) (string, error) {
	doc, err := s.docs.GetByID(ctx, docID)
	if err != nil {
		return "", err
	}
	if !privileged && doc.OwnerID != ownerID {
		return "", ErrNotDocumentOwner
	}
	if doc.State != models.DocumentStateConfirmed {
		return "", ErrDocumentNotReady
	}
	if !security.VerifyResource(s.secret, doc.Signature, doc.ID, doc.ObjectKey) {
		return "", fmt.Errorf("document signature mismatch")
	}

	return s.blobs.PresignGet(ctx, doc.Bucket, doc.ObjectKey, s.cfg.DownloadURLTTL, doc.Name)
}

func (s *DocumentService) ListByOwner(ctx context.Context, ownerID string) ([]models.Document, error) {
	return s.docs.ListByOwner(ctx, ownerID)
}

// Sweep is the saga's recovery action. Pending rows old enough are re-checked
// against the object store: bytes present means the confirm call was lost, so
// confirm now; bytes absent means the upload never happened, so orphan the row.
func (s *DocumentService) Sweep(ctx context.Context, limit int) (confirmed int, orphaned int, err error) {
	cutoff := time.Now().Add(-s.cfg.SweepAfter)
	docs, err := s.docs.ListUnconfirmedBefore(ctx, cutoff, limit)
	if err != nil {
		return 0, 0, err
	}

	for _, doc := range docs {
		size, statErr := s.blobs.Stat(ctx, doc.Bucket, doc.ObjectKey)
		switch {
		case statErr == nil:
			if err := s.docs.SetState(ctx, doc.ID, models.DocumentStateConfirmed, size); err != nil {
				s.log.Error().Err(err).Str("document_id", doc.ID).Msg("sweep confirm failed")
				continue
			}
			confirmed++
		case errors.Is(statErr, storage.ErrObjectMissing):
			if err := s.docs.SetState(ctx, doc.ID, models.DocumentStateOrphaned, 0); err != nil {
				s.log.Error().Err(err).Str("document_id", doc.ID).Msg("sweep orphan failed")
				continue
			}
			orphaned++
		default:
			s.log.Error().Err(statErr).Str("document_id", doc.ID).Msg("sweep stat failed")
		}
	}
	return confirmed, orphaned, nil
}

func buildObjectKey(ownerID, docID, name string) string {
	base := path.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	return path.Join(ownerID, docID, base)
}
