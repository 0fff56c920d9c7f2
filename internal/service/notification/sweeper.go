package notification

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

const sweepBatchSize = 500

// Sweep removes index entries whose notification expired. ListUnread already
// skips them; the sweep keeps the index from growing when nobody lists.
func (s *service) Sweep(ctx context.Context) (int, error) {
	ids, err := s.unread.Members(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read unread index: %w", err)
	}

	var stale []uuid.UUID
	for start := 0; start < len(ids); start += sweepBatchSize {
		end := min(start+sweepBatchSize, len(ids))
		batch := ids[start:end]

		exists, err := s.notifRepo.ExistsMany(ctx, batch)
		if err != nil {
			return 0, fmt.Errorf("failed to check notifications: %w", err)
		}
		for i, ok := range exists {
			if !ok {
				stale = append(stale, batch[i])
			}
		}
	}

	if len(stale) == 0 {
		return 0, nil
	}
	if err := s.unread.Remove(ctx, stale...); err != nil {
		return 0, fmt.Errorf("failed to remove expired ids: %w", err)
	}
	return len(stale), nil
}

// RunSweeper calls Sweep every interval until ctx is done.
func RunSweeper(ctx context.Context, svc Service, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := svc.Sweep(ctx)
			if err != nil {
				log.Printf("Unread index sweep failed: %v", err)
				continue
			}
			if removed > 0 {
				log.Printf("Unread index sweep removed %d expired notifications", removed)
			}
		}
	}
}
