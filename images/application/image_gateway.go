package application

import (
	"context"
	"errors"
	"fmt"
	"io"

	"picshare/images/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// imageContentType is fixed at store time; every stored blob is a JPEG.
const imageContentType = "image/jpeg"

// ImageGateway composes the metadata and blob stores into a single
// entity-level API. The two stores are independently consistent services
// with no cross-store transaction; the gateway sequences writes so a
// metadata record and its blob appear and disappear together, best effort.
type ImageGateway struct {
	metadata domain.MetadataStore
	blobs    domain.BlobStore
}

func NewImageGateway(metadata domain.MetadataStore, blobs domain.BlobStore) *ImageGateway {
	return &ImageGateway{
		metadata: metadata,
		blobs:    blobs,
	}
}

// Create validates the record, assigns a server-generated id, writes the
// metadata record, then uploads the blob. Metadata goes first so a dangling
// blob is never orphaned without a visible record. If the blob upload fails
// after the metadata commit, the record is left pointing at a missing blob;
// the write is not rolled back and the error is surfaced. Callers must be
// prepared for a record whose image link is broken.
func (g *ImageGateway) Create(ctx context.Context, img *domain.Image, data io.Reader, size int64) (string, error) {
	if err := img.Validate(); err != nil {
		return "", err
	}

	// No moderation workflow is active; uploads are immediately visible.
	img.ID = uuid.NewString()
	img.Valid = true
	img.Approved = true

	if err := g.metadata.CreateItem(ctx, img.OwnerID, img); err != nil {
		return "", fmt.Errorf("create image: %w", err)
	}

	objectName := domain.BlobObjectName(img.ID)
	if err := g.blobs.Put(ctx, objectName, data, size, imageContentType); err != nil {
		log.Error().Err(err).
			Str("imageId", img.ID).
			Str("object", objectName).
			Msg("Blob upload failed after metadata commit; record is orphaned")
		return img.ID, fmt.Errorf("create image %s: %w", img.ID, err)
	}

	return img.ID, nil
}

// Get is a point read by partition key and id. Absence is reported as
// domain.ErrNotFound.
func (g *ImageGateway) Get(ctx context.Context, ownerID, imageID string) (*domain.Image, error) {
	return g.metadata.ReadItem(ctx, ownerID, imageID)
}

// Update fully replaces the metadata record at the same (owner, id).
// The caller must have pre-validated that the owner is unchanged; the
// gateway does not enforce it. Concurrent updates are last-writer-wins.
func (g *ImageGateway) Update(ctx context.Context, img *domain.Image) error {
	if err := img.Validate(); err != nil {
		return err
	}

	return g.metadata.ReplaceItem(ctx, img.OwnerID, img.ID, img)
}

// ListAll drains a cross-partition scan of every visible record. The result
// carries no ordering contract.
func (g *ImageGateway) ListAll(ctx context.Context) ([]domain.Image, error) {
	return g.list(ctx, domain.ImageFilter{VisibleOnly: true})
}

// ListByOwner drains a single-partition scan of the owner's visible records.
func (g *ImageGateway) ListByOwner(ctx context.Context, ownerID string) ([]domain.Image, error) {
	return g.list(ctx, domain.ImageFilter{OwnerID: ownerID, VisibleOnly: true})
}

func (g *ImageGateway) list(ctx context.Context, filter domain.ImageFilter) ([]domain.Image, error) {
	pager, err := g.metadata.Query(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}

	var results []domain.Image
	for pager.HasMore() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list images: %w", err)
		}
		results = append(results, page...)
	}

	return results, nil
}

// Remove deletes the blob first, then the metadata record. Blob-first so a
// surviving record never points at a missing blob for longer than the gap
// between the two deletes. The blob delete is best effort: a failure is
// logged and the metadata record is still removed, because metadata
// visibility matters more than storage cleanup. Removing an already-removed
// image is a no-op.
func (g *ImageGateway) Remove(ctx context.Context, img *domain.Image) error {
	objectName := domain.BlobObjectName(img.ID)
	if err := g.blobs.Delete(ctx, objectName); err != nil {
		log.Error().Err(err).
			Str("imageId", img.ID).
			Str("object", objectName).
			Msg("Blob delete failed; removing metadata record anyway")
	}

	err := g.metadata.DeleteItem(ctx, img.OwnerID, img.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("remove image %s: %w", img.ID, err)
	}

	return nil
}

// RemoveAllForOwner enumerates every record in the owner's partition,
// visible or not, and removes each one. Not transactional: a crash
// mid-enumeration leaves a partial result, and a retry finishes the job
// because Remove of an already-removed image is a no-op.
func (g *ImageGateway) RemoveAllForOwner(ctx context.Context, ownerID string) error {
	pager, err := g.metadata.Query(ctx, domain.ImageFilter{OwnerID: ownerID})
	if err != nil {
		return fmt.Errorf("remove images for owner %s: %w", ownerID, err)
	}

	for pager.HasMore() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("remove images for owner %s: %w", ownerID, err)
		}

		for i := range page {
			if err := g.Remove(ctx, &page[i]); err != nil {
				return fmt.Errorf("remove images for owner %s: %w", ownerID, err)
			}
		}
	}

	return nil
}

// ImageURL resolves the public blob URL for an image id.
func (g *ImageGateway) ImageURL(imageID string) string {
	return g.blobs.URLFor(domain.BlobObjectName(imageID))
}
