package session

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Memory bundles the in-process stores.
type Memory struct {
	Progress  *MemoryProgress
	Reactions *MemoryReactions
	Answers   *MemoryAnswers

	now Clock
}

// NewMemory creates empty stores sharing one clock. A nil clock means time.Now.
func NewMemory(now Clock) *Memory {
	if now == nil {
		now = time.Now
	}
	return &Memory{
		Progress:  NewMemoryProgress(now),
		Reactions: NewMemoryReactions(now),
		Answers:   NewMemoryAnswers(),
		now:       now,
	}
}

// Sweep clears progress and reaction state initialised more than maxAge ago
// and returns the affected session ids. The ideal-answer cache is not touched.
func (m *Memory) Sweep(maxAge time.Duration) []string {
	cutoff := m.now().Add(-maxAge)

	seen := make(map[string]struct{})
	var ids []string
	for _, id := range append(m.Progress.sweep(cutoff), m.Reactions.sweep(cutoff)...) {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

// RunSweeper calls Sweep every interval until ctx is done. notify, when set,
// receives the ids of every non-empty sweep.
func (m *Memory) RunSweeper(ctx context.Context, interval, maxAge time.Duration, logger *zap.Logger, notify func([]string)) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 || maxAge <= 0 {
		logger.Debug("session sweeper disabled")
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if swept := m.Sweep(maxAge); len(swept) > 0 {
				logger.Info("swept stale session state", zap.Strings("sessions", swept))
				if notify != nil {
					notify(swept)
				}
			}
		}
	}
}
