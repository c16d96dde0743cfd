package corrections

import (
	"context"
	"log/slog"
	"time"

	"github.com/paddockvision/paddock-backend/internal/domain"
)

const defaultPollInterval = time.Second

// StatusFetcher is the part of the API client the poller needs.
type StatusFetcher interface {
	Status(ctx context.Context, streamID, chunkID string) (domain.ReprocessingProgress, error)
}

// Poller follows a chunk's re-processing run until it reaches a terminal
// status. It queries immediately on start and then on a fixed interval;
// transport errors are logged and retried on the next tick.
type Poller struct {
	client   StatusFetcher
	interval time.Duration
	log      *slog.Logger
}

// PollerOption configures a Poller.
type PollerOption func(*Poller)

// WithInterval overrides the fixed polling interval.
func WithInterval(d time.Duration) PollerOption {
	return func(p *Poller) { p.interval = d }
}

// NewPoller creates a Poller on top of a status-capable client.
func NewPoller(client StatusFetcher, log *slog.Logger, opts ...PollerOption) *Poller {
	p := &Poller{
		client:   client,
		interval: defaultPollInterval,
		log:      log.With("component", "poller"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run polls the status endpoint for the chunk until a terminal status
// arrives, invoking onUpdate for every successfully fetched view, terminal
// one included. It returns the terminal view, or the context error if the
// context ends first. onUpdate may be nil.
func (p *Poller) Run(ctx context.Context, streamID, chunkID string, onUpdate func(domain.ReprocessingProgress)) (domain.ReprocessingProgress, error) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		progress, err := p.client.Status(ctx, streamID, chunkID)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return domain.ReprocessingProgress{}, ctx.Err()
			}
			p.log.WarnContext(ctx, "status poll failed, retrying",
				slog.String("chunk_id", chunkID),
				slog.String("error", err.Error()),
			)
		default:
			if onUpdate != nil {
				onUpdate(progress)
			}
			if progress.Status.IsTerminal() {
				return progress, nil
			}
		}

		select {
		case <-ctx.Done():
			return domain.ReprocessingProgress{}, ctx.Err()
		case <-ticker.C:
		}
	}
}
