package documents

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"letters-backend/internal/shared/storage/object"
	"letters-backend/internal/shared/util"
)

// Service contains business logic for documents.
type Service struct {
	Store      object.ObjectStore
	Repo       Repo
	PresignTTL time.Duration
}

// Upload saves the file to the documents bucket and records the metadata row.
func (s *Service) Upload(ctx context.Context, firmID, uploadedBy, fileName, contentType string, r io.Reader) (Document, error) {
	if firmID == "" {
		return Document{}, ErrInvalidInput
	}
	safeName, err := util.SanitizeFileName(fileName)
	if err != nil {
		return Document{}, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}

	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(safeName))
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	docID := uuid.NewString()
	storageKey := fmt.Sprintf("%s/%s/%s", firmID, docID, safeName)

	size, err := s.Store.Save(ctx, storageKey, contentType, r)
	if err != nil {
		return Document{}, fmt.Errorf("save document object: %w", err)
	}

	doc := Document{
		ID:         docID,
		FirmID:     firmID,
		UploadedBy: uploadedBy,
		FileName:   safeName,
		MimeType:   contentType,
		SizeBytes:  size,
		StorageKey: storageKey,
		UploadedAt: time.Now().UTC(),
	}

	if err := s.Repo.Create(ctx, doc); err != nil {
		// Best effort: don't leave an orphan object behind a failed insert.
		_ = s.Store.Delete(ctx, storageKey)
		return Document{}, err
	}

	return doc, nil
}

// Get returns a firm's document by ID.
func (s *Service) Get(ctx context.Context, firmID, documentID string) (Document, error) {
	if firmID == "" || documentID == "" {
		return Document{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, firmID, documentID)
}

// List returns a firm's documents, newest first.
func (s *Service) List(ctx context.Context, firmID string, limit, offset int) ([]Document, error) {
	if firmID == "" {
		return nil, ErrInvalidInput
	}
	return s.Repo.ListByFirm(ctx, firmID, limit, offset)
}

// DownloadURL returns a presigned GET URL for the stored object.
func (s *Service) DownloadURL(ctx context.Context, firmID, documentID string) (string, error) {
	doc, err := s.Get(ctx, firmID, documentID)
	if err != nil {
		return "", err
	}
	ttl := s.PresignTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	url, err := s.Store.PresignGet(ctx, doc.StorageKey, ttl)
	if err != nil {
		return "", fmt.Errorf("presign document: %w", err)
	}
	return url, nil
}

// Delete removes the stored object and then the metadata row. A failed object
// delete aborts so the row keeps pointing at a blob that still exists.
func (s *Service) Delete(ctx context.Context, firmID, documentID string) error {
	doc, err := s.Get(ctx, firmID, documentID)
	if err != nil {
		return err
	}
	if err := s.Store.Delete(ctx, doc.StorageKey); err != nil {
		return fmt.Errorf("delete document object: %w", err)
	}
	return s.Repo.Delete(ctx, firmID, documentID)
}
