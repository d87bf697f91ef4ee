package application

import (
	"context"
	"fmt"
	"time"

	"picshare/images/domain"

	"github.com/rs/zerolog/log"
)

// LogGateway is a thin facade over the audit log store. Callers record one
// entry per successful image view; recording is best-effort observability,
// so a caller may treat a failure here as non-fatal to the view itself. The
// failure is still fully reported.
type LogGateway struct {
	store domain.LogStore
	now   func() time.Time
}

func NewLogGateway(store domain.LogStore) *LogGateway {
	return &LogGateway{
		store: store,
		now:   time.Now,
	}
}

// RecordView appends one immutable entry for a view of the given image.
func (g *LogGateway) RecordView(ctx context.Context, viewerID, viewerName string, view domain.ViewedImage) error {
	entry := domain.NewLogEntry(g.now(), viewerID, viewerName, view)

	log.Debug().
		Str("imageId", view.ImageID).
		Str("partition", entry.PartitionKey).
		Msg("Recording image view")

	if err := g.store.Append(ctx, entry); err != nil {
		log.Error().Err(err).Str("imageId", view.ImageID).Msg("Failed to record image view")
		return fmt.Errorf("record view of image %s: %w", view.ImageID, err)
	}

	return nil
}

// Query exposes the store's lazy paged scan of the audit trail.
func (g *LogGateway) Query(ctx context.Context, scope domain.LogScope) (domain.LogPager, error) {
	return g.store.Query(ctx, scope)
}
