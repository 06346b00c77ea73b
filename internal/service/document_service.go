package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/veritest/veritest-backend/internal/model"
	"github.com/veritest/veritest-backend/internal/repository"
	"github.com/veritest/veritest-backend/internal/storage"
)

// Document errors.
var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrNotDocumentOwner = errors.New("document belongs to another user")
)

// presignExpiry bounds how long a generated download link stays valid.
const presignExpiry = 15 * time.Minute

// DocumentService stores verification documents in the object store and
// tracks their review state.
type DocumentService struct {
	store   storage.ObjectStore
	docRepo *repository.DocumentRepository
	log     zerolog.Logger
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(store storage.ObjectStore, docRepo *repository.DocumentRepository, log zerolog.Logger) *DocumentService {
	return &DocumentService{
		store:   store,
		docRepo: docRepo,
		log:     log.With().Str("component", "document_service").Logger(),
	}
}

// Upload streams a file into the object store and records its metadata with
// PENDING review status. The object key embeds the owner so keys never
// collide across users.
func (s *DocumentService) Upload(ctx context.Context, userID uuid.UUID, docType, fileName, contentType string, size int64, reader io.Reader) (*model.Document, error) {
	doc := &model.Document{
		ID:          uuid.New(),
		UserID:      userID,
		DocType:     docType,
		FileName:    fileName,
		ContentType: contentType,
		SizeBytes:   size,
		Status:      model.DocumentStatusPending,
	}
	doc.ObjectKey = fmt.Sprintf("documents/%s/%s%s", userID, doc.ID, path.Ext(fileName))

	if err := s.store.Upload(ctx, doc.ObjectKey, reader, size, contentType); err != nil {
		return nil, fmt.Errorf("store document: %w", err)
	}
	if err := s.docRepo.Create(ctx, doc); err != nil {
		// The metadata write failed; drop the orphaned object.
		if rmErr := s.store.Remove(ctx, doc.ObjectKey); rmErr != nil {
			s.log.Error().Err(rmErr).Str("object_key", doc.ObjectKey).Msg("Failed to clean up orphaned object")
		}
		return nil, fmt.Errorf("save document metadata: %w", err)
	}

	s.log.Info().
		Str("document_id", doc.ID.String()).
		Str("user_id", userID.String()).
		Int64("size_bytes", size).
		Msg("Document uploaded")
	return doc, nil
}

// ListForUser returns a user's own documents.
func (s *DocumentService) ListForUser(ctx context.Context, userID uuid.UUID) ([]model.Document, error) {
	return s.docRepo.ListByUser(ctx, userID)
}

// ListAll returns every document with owner context, for the admin queue.
func (s *DocumentService) ListAll(ctx context.Context) ([]model.DocumentWithUser, error) {
	return s.docRepo.ListAll(ctx)
}

// Review sets a document's review status.
func (s *DocumentService) Review(ctx context.Context, id uuid.UUID, status model.DocumentStatus) error {
	updated, err := s.docRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		return fmt.Errorf("update document status: %w", err)
	}
	if !updated {
		return ErrDocumentNotFound
	}
	return nil
}

// DownloadURL returns a short-lived presigned link for a document. Students
// may only fetch their own documents; admins pass requireOwner=false.
func (s *DocumentService) DownloadURL(ctx context.Context, id, userID uuid.UUID, requireOwner bool) (string, error) {
	doc, err := s.get(ctx, id)
	if err != nil {
		return "", err
	}
	if requireOwner && doc.UserID != userID {
		return "", ErrNotDocumentOwner
	}
	return s.store.PresignedGetURL(ctx, doc.ObjectKey, presignExpiry)
}

// Delete removes a document's object and metadata. Object removal failures
// are logged but do not block the metadata delete.
func (s *DocumentService) Delete(ctx context.Context, id uuid.UUID) error {
	doc, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.Remove(ctx, doc.ObjectKey); err != nil {
		s.log.Error().Err(err).Str("object_key", doc.ObjectKey).Msg("Failed to remove stored object")
	}

	deleted, err := s.docRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if !deleted {
		return ErrDocumentNotFound
	}
	return nil
}

func (s *DocumentService) get(ctx context.Context, id uuid.UUID) (*model.Document, error) {
	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}
