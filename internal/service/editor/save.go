package editor

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ghostplan/matrix/internal/domain/models"
)

// maxConcurrentSaves bounds how many entry-replacement requests run at once.
const maxConcurrentSaves = 8

// EntriesUpdater issues one full-replace entries request for an item.
type EntriesUpdater interface {
	UpdateEntries(ctx context.Context, projectID, jobID, itemID string, entries []models.EntryDTO) error
}

// AuditRecorder persists a record of each save attempt.
type AuditRecorder interface {
	RecordSave(ctx context.Context, audit models.SaveAudit) error
}

// Saver flushes a session's draft to the upstream API: one replace-entries
// call per draft item, issued concurrently, the save settling only when all
// requests have. On full success the session closes and the draft is
// discarded; on partial failure the session stays editing and the result
// names the items that failed, so nothing is silently lost.
type Saver struct {
	updater EntriesUpdater
	audits  AuditRecorder
	logger  *zap.Logger
}

// NewSaver wires a saver. audits may be nil when auditing is disabled.
func NewSaver(updater EntriesUpdater, audits AuditRecorder, logger *zap.Logger) *Saver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Saver{updater: updater, audits: audits, logger: logger}
}

// Save persists every draft item. The returned error covers session-state
// problems only; per-item upstream failures are reported in the result.
func (s *Saver) Save(ctx context.Context, sess *Session) (models.SaveResult, error) {
	draft, err := sess.Draft()
	if err != nil {
		return models.SaveResult{}, err
	}

	started := time.Now()

	var mu sync.Mutex
	var failed []models.ItemSaveError

	g := new(errgroup.Group)
	g.SetLimit(maxConcurrentSaves)

	for _, item := range draft {
		item := item
		g.Go(func() error {
			entries := make([]models.EntryDTO, len(item.Entries))
			for i, e := range item.Entries {
				entries[i] = models.EntryDTO{Date: e.Date, Amount: e.Amount}
			}

			if err := s.updater.UpdateEntries(ctx, sess.ProjectID, sess.JobID, item.ID, entries); err != nil {
				s.logger.Warn("entry replacement failed",
					zap.String("item_id", item.ID),
					zap.Error(err))
				mu.Lock()
				failed = append(failed, models.ItemSaveError{ItemID: item.ID, Error: err.Error()})
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	result := models.SaveResult{Saved: len(draft) - len(failed), Failed: failed}

	if result.Complete() {
		sess.finish()
	}

	s.recordAudit(ctx, sess, result, time.Since(started))

	return result, nil
}

func (s *Saver) recordAudit(ctx context.Context, sess *Session, result models.SaveResult, took time.Duration) {
	if s.audits == nil {
		return
	}

	failedIDs := make([]string, len(result.Failed))
	for i, f := range result.Failed {
		failedIDs[i] = f.ItemID
	}

	audit := models.SaveAudit{
		ProjectID:   sess.ProjectID,
		JobID:       sess.JobID,
		ItemCount:   result.Saved + len(result.Failed),
		FailedItems: failedIDs,
		Duration:    took.Milliseconds(),
		SavedAt:     time.Now().UTC(),
	}
	if err := s.audits.RecordSave(ctx, audit); err != nil {
		s.logger.Warn("save audit write failed", zap.Error(err))
	}
}
