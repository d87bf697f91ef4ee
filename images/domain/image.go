package domain

import (
	"context"
	"io"
	"strings"
	"time"
)

const (
	// MaxCaptionLength bounds the caption field of an image record.
	MaxCaptionLength = 40

	// MaxDescriptionLength bounds the description field of an image record.
	MaxDescriptionLength = 200

	blobNamePrefix    = "image-"
	blobNameExtension = ".jpg"
)

// Image is the metadata record for a stored image. The record lives in the
// document store, partitioned by OwnerID; the image bytes live in the blob
// store under a name derived from the record id.
type Image struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	OwnerName   string    `json:"ownerName"`
	Caption     string    `json:"caption"`
	Description string    `json:"description"`
	DateTaken   time.Time `json:"dateTaken"`
	Valid       bool      `json:"valid"`
	Approved    bool      `json:"approved"`
}

// Visible reports whether the record may appear in listing and search
// results. Records failing validation or approval are readable by point
// lookup but never listed.
func (img *Image) Visible() bool {
	return img.Valid && img.Approved
}

// Validate checks caller-supplied fields before any store call is made.
// The id is exempt: it is assigned server-side at creation.
func (img *Image) Validate() error {
	if img == nil {
		return &ValidationError{Field: "image", Reason: "record cannot be nil"}
	}
	if strings.TrimSpace(img.OwnerID) == "" {
		return &ValidationError{Field: "ownerId", Reason: "owner id is required"}
	}
	if strings.TrimSpace(img.Caption) == "" {
		return &ValidationError{Field: "caption", Reason: "caption is required"}
	}
	if len(img.Caption) > MaxCaptionLength {
		return &ValidationError{Field: "caption", Reason: "caption exceeds 40 characters"}
	}
	if strings.TrimSpace(img.Description) == "" {
		return &ValidationError{Field: "description", Reason: "description is required"}
	}
	if len(img.Description) > MaxDescriptionLength {
		return &ValidationError{Field: "description", Reason: "description exceeds 200 characters"}
	}
	if img.DateTaken.IsZero() {
		return &ValidationError{Field: "dateTaken", Reason: "date taken is required"}
	}
	return nil
}

// BlobObjectName derives the blob store object name for an image record.
// The name depends only on the image id; ids are server-generated UUIDs and
// never reused, so two owners cannot collide. Both the upload path and the
// delete/URL-resolution path must use this one function.
func BlobObjectName(imageID string) string {
	return blobNamePrefix + imageID + blobNameExtension
}

// ImageFilter selects records for a metadata store query. An empty OwnerID
// requests a cross-partition scan, which is strictly more expensive and is
// reserved for the global listing.
type ImageFilter struct {
	OwnerID     string
	VisibleOnly bool
}

// ImagePager is a forward-only, non-restartable paged sequence of image
// records. Each NextPage call fetches one page from the store; callers must
// not assume they can rewind.
type ImagePager interface {
	HasMore() bool
	NextPage(ctx context.Context) ([]Image, error)
}

// MetadataStore maps 1:1 onto document-store primitives. The partition key
// is always the owning user's id.
type MetadataStore interface {
	CreateItem(ctx context.Context, ownerID string, img *Image) error

	// ReadItem returns ErrNotFound when no record exists at (ownerID, imageID).
	ReadItem(ctx context.Context, ownerID, imageID string) (*Image, error)

	// ReplaceItem fully replaces the record at (ownerID, imageID).
	ReplaceItem(ctx context.Context, ownerID, imageID string, img *Image) error

	// DeleteItem returns ErrNotFound when no record exists to delete.
	DeleteItem(ctx context.Context, ownerID, imageID string) error

	Query(ctx context.Context, filter ImageFilter) (ImagePager, error)
}

// BlobStore stores raw image bytes keyed by object name.
type BlobStore interface {
	Put(ctx context.Context, objectName string, data io.Reader, size int64, contentType string) error

	// Delete is idempotent: a missing object is success.
	Delete(ctx context.Context, objectName string) error

	// URLFor resolves the public URL of an object. Pure function of the
	// configured base URL, no network call.
	URLFor(objectName string) string
}
