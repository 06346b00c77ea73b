package model

import (
	"time"

	"github.com/google/uuid"
)

// DocumentStatus tracks admin review of an uploaded document.
type DocumentStatus string

const (
	DocumentStatusPending  DocumentStatus = "PENDING"
	DocumentStatusApproved DocumentStatus = "APPROVED"
	DocumentStatusRejected DocumentStatus = "REJECTED"
)

// Document holds metadata for a file stored in the object store. The file
// bytes themselves are never inspected by this service.
type Document struct {
	ID          uuid.UUID      `json:"id"`
	UserID      uuid.UUID      `json:"user_id"`
	DocType     string         `json:"doc_type"`
	ObjectKey   string         `json:"object_key"`
	FileName    string         `json:"file_name"`
	ContentType string         `json:"content_type"`
	SizeBytes   int64          `json:"size_bytes"`
	Status      DocumentStatus `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
}

// DocumentWithUser decorates a document with its owner, for admin listings.
type DocumentWithUser struct {
	Document
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
}

// UpdateDocumentStatusRequest is the admin payload for document review.
type UpdateDocumentStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=APPROVED REJECTED"`
}
