package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lendflow/internal/config"
	"lendflow/internal/models"
	"lendflow/internal/repository"
	"lendflow/internal/storage"
)

type memoryDocumentStore struct {
	docs map[string]models.Document
}

func newMemoryDocumentStore() *memoryDocumentStore {
	return &memoryDocumentStore{docs: make(map[string]models.Document)}
}

func (m *memoryDocumentStore) Create(_ context.Context, doc models.Document) error {
	doc.CreatedAt = time.Now()
	m.docs[doc.ID] = doc
	return nil
}

func (m *memoryDocumentStore) GetByID(_ context.Context, id string) (models.Document, error) {
	doc, ok := m.docs[id]
	if !ok {
		return models.Document{}, repository.ErrDocumentNotFound
	}
	return doc, nil
}

func (m *memoryDocumentStore) SetState(_ context.Context, id string, state models.DocumentState, sizeBytes int64) error {
	doc, ok := m.docs[id]
	if !ok {
		return repository.ErrDocumentNotFound
	}
	doc.State = state
	if state == models.DocumentStateConfirmed {
		now := time.Now()
		doc.ConfirmedAt = &now
		doc.SizeBytes = sizeBytes
	}
	m.docs[id] = doc
	return nil
}

func (m *memoryDocumentStore) ListUnconfirmedBefore(_ context.Context, cutoff time.Time, limit int) ([]models.Document, error) {
	var out []models.Document
	for _, doc := range m.docs {
		if doc.State == models.DocumentStateURLRequested && doc.CreatedAt.Before(cutoff) {
			out = append(out, doc)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (m *memoryDocumentStore) ListByOwner(_ context.Context, ownerID string) ([]models.Document, error) {
	var out []models.Document
	for _, doc := range m.docs {
		if doc.OwnerID == ownerID {
			out = append(out, doc)
		}
	}
	return out, nil
}

// fakeBlobStore pretends objects exist only for keys in objects.
type fakeBlobStore struct {
	objects map[string]int64
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{objects: make(map[string]int64)}
}

func (f *fakeBlobStore) PresignPut(_ context.Context, bucket, objectKey string, _ time.Duration) (string, error) {
	return "https://blobs.test/" + bucket + "/" + objectKey + "?sig=put", nil
}

func (f *fakeBlobStore) PresignGet(_ context.Context, bucket, objectKey string, _ time.Duration, _ string) (string, error) {
	return "https://blobs.test/" + bucket + "/" + objectKey + "?sig=get", nil
}

func (f *fakeBlobStore) Stat(_ context.Context, _ string, objectKey string) (int64, error) {
	size, ok := f.objects[objectKey]
	if !ok {
		return 0, storage.ErrObjectMissing
	}
	return size, nil
}

func newTestDocumentService() (*DocumentService, *memoryDocumentStore, *fakeBlobStore) {
	docs := newMemoryDocumentStore()
	blobs := newFakeBlobStore()
	cfg := config.DocumentsConfig{
		UploadURLTTL:   15 * time.Minute,
		DownloadURLTTL: 10 * time.Minute,
		SweepAfter:     30 * time.Minute,
	}
	svc := NewDocumentService(docs, blobs, "documents", cfg, "download-secret", zerolog.Nop())
	return svc, docs, blobs
}

func TestRequestUploadCreatesPendingDocument(t *testing.T) {
	svc, docs, _ := newTestDocumentService()

	grant, err := svc.RequestUpload(context.Background(), "owner-1", "", "bank statement.pdf", "application/pdf")
	require.NoError(t, err)

	assert.NotEmpty(t, grant.UploadURL)
	assert.Equal(t, models.DocumentStateURLRequested, grant.Document.State)
	assert.Equal(t, "bank statement.pdf", grant.Document.Name)
	assert.Contains(t, grant.Document.ObjectKey, "owner-1/")
	assert.Contains(t, grant.Document.ObjectKey, "bank_statement.pdf")
	assert.NotEmpty(t, grant.Document.Signature)

	stored, ok := docs.docs[grant.Document.ID]
	require.True(t, ok)
	assert.Equal(t, models.DocumentStateURLRequested, stored.State)
}

func TestUploadWithoutProjectCompletes(t *testing.T) {
	svc, docs, blobs := newTestDocumentService()
	ctx := context.Background()

	grant, err := svc.RequestUpload(ctx, "owner-1", "", "salary slip.pdf", "application/pdf")
	require.NoError(t, err)
	assert.Empty(t, grant.Document.ProjectID)

	blobs.objects[grant.Document.ObjectKey] = 1024

	doc, err := svc.Confirm(ctx, grant.Document.ID, "owner-1")
	require.NoError(t, err)
	assert.Empty(t, doc.ProjectID)
	assert.Equal(t, models.DocumentStateConfirmed, docs.docs[doc.ID].State)
}

func TestRequestUploadRequiresNameAndContentType(t *testing.T) {
	svc, _, _ := newTestDocumentService()

	_, err := svc.RequestUpload(context.Background(), "owner-1", "", "", "application/pdf")
	assert.Error(t, err)

	_, err = svc.RequestUpload(context.Background(), "owner-1", "", "doc.pdf", "")
	assert.Error(t, err)
}

func TestConfirmBeforeUploadIsRejected(t *testing.T) {
	svc, docs, _ := newTestDocumentService()
	ctx := context.Background()

	grant, err := svc.RequestUpload(ctx, "owner-1", "", "doc.pdf", "application/pdf")
	require.NoError(t, err)

	_, err = svc.Confirm(ctx, grant.Document.ID, "owner-1")
	assert.ErrorIs(t, err, ErrUploadIncomplete)

	// the row stays pending so the client can retry
	assert.Equal(t, models.DocumentStateURLRequested, docs.docs[grant.Document.ID].State)
}

func TestConfirmAfterUploadSucceeds(t *testing.T) {
	svc, docs, blobs := newTestDocumentService()
	ctx := context.Background()

	grant, err := svc.RequestUpload(ctx, "owner-1", "", "doc.pdf", "application/pdf")
	require.NoError(t, err)
	blobs.objects[grant.Document.ObjectKey] = 2048

	doc, err := svc.Confirm(ctx, grant.Document.ID, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, models.DocumentStateConfirmed, doc.State)
	assert.Equal(t, int64(2048), doc.SizeBytes)
	assert.Equal(t, models.DocumentStateConfirmed, docs.docs[grant.Document.ID].State)
}

func TestConfirmIsIdempotent(t *testing.T) {
	svc, _, blobs := newTestDocumentService()
	ctx := context.Background()

	grant, err := svc.RequestUpload(ctx, "owner-1", "", "doc.pdf", "application/pdf")
	require.NoError(t, err)
	blobs.objects[grant.Document.ObjectKey] = 2048

	_, err = svc.Confirm(ctx, grant.Document.ID, "owner-1")
	require.NoError(t, err)

	doc, err := svc.Confirm(ctx, grant.Document.ID, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, models.DocumentStateConfirmed, doc.State)
}

func TestConfirmRejectsNonOwner(t *testing.T) {
	svc, _, blobs := newTestDocumentService()
	ctx := context.Background()

	grant, err := svc.RequestUpload(ctx, "owner-1", "", "doc.pdf", "application/pdf")
	require.NoError(t, err)
	blobs.objects[grant.Document.ObjectKey] = 2048

	_, err = svc.Confirm(ctx, grant.Document.ID, "owner-2")
	assert.ErrorIs(t, err, ErrNotDocumentOwner)
}

func TestDownloadURLRequiresConfirmedState(t *testing.T) {
	svc, _, blobs := newTestDocumentService()
	ctx := context.Background()

	grant, err := svc.RequestUpload(ctx, "owner-1", "", "doc.pdf", "application/pdf")
	require.NoError(t, err)

	_, err = svc.DownloadURL(ctx, grant.Document.ID, "owner-1", false)
	assert.ErrorIs(t, err, ErrDocumentNotReady)

	blobs.objects[grant.Document.ObjectKey] = 2048
	_, err = svc.Confirm(ctx, grant.Document.ID, "owner-1")
	require.NoError(t, err)

	url, err := svc.DownloadURL(ctx, grant.Document.ID, "owner-1", false)
	require.NoError(t, err)
	assert.Contains(t, url, grant.Document.ObjectKey)
}

func TestDownloadURLOwnershipAndPrivilege(t *testing.T) {
	svc, _, blobs := newTestDocumentService()
	ctx := context.Background()

	grant, err := svc.RequestUpload(ctx, "owner-1", "", "doc.pdf", "application/pdf")
	require.NoError(t, err)
	blobs.objects[grant.Document.ObjectKey] = 2048
	_, err = svc.Confirm(ctx, grant.Document.ID, "owner-1")
	require.NoError(t, err)

	_, err = svc.DownloadURL(ctx, grant.Document.ID, "other-user", false)
	assert.ErrorIs(t, err, ErrNotDocumentOwner)

	url, err := svc.DownloadURL(ctx, grant.Document.ID, "other-user", true)
	require.NoError(t, err)
	assert.NotEmpty(t, url)
}

func TestSweepConfirmsAndOrphans(t *testing.T) {
	svc, docs, blobs := newTestDocumentService()
	ctx := context.Background()

	uploaded, err := svc.RequestUpload(ctx, "owner-1", "", "arrived.pdf", "application/pdf")
	require.NoError(t, err)
	abandoned, err := svc.RequestUpload(ctx, "owner-1", "", "lost.pdf", "application/pdf")
	require.NoError(t, err)

	// age both rows past the sweep cutoff
	for id, doc := range docs.docs {
		doc.CreatedAt = time.Now().Add(-time.Hour)
		docs.docs[id] = doc
	}

	// only the first upload's bytes ever arrived
	blobs.objects[uploaded.Document.ObjectKey] = 4096

	confirmed, orphaned, err := svc.Sweep(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, 1, confirmed)
	assert.Equal(t, 1, orphaned)

	assert.Equal(t, models.DocumentStateConfirmed, docs.docs[uploaded.Document.ID].State)
	assert.Equal(t, models.DocumentStateOrphaned, docs.docs[abandoned.Document.ID].State)
}

func TestSweepSkipsFreshRows(t *testing.T) {
	svc, docs, _ := newTestDocumentService()
	ctx := context.Background()

	grant, err := svc.RequestUpload(ctx, "owner-1", "", "fresh.pdf", "application/pdf")
	require.NoError(t, err)

	confirmed, orphaned, err := svc.Sweep(ctx, 100)
	require.NoError(t, err)
	assert.Zero(t, confirmed)
	assert.Zero(t, orphaned)
	assert.Equal(t, models.DocumentStateURLRequested, docs.docs[grant.Document.ID].State)
}
