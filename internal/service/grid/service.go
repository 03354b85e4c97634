package grid

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ghostplan/matrix/internal/domain/models"
	"github.com/ghostplan/matrix/internal/service/editor"
	"github.com/ghostplan/matrix/internal/service/masters"
	"github.com/ghostplan/matrix/internal/service/matrix"
	"github.com/ghostplan/matrix/pkg/clients/ghost"
)

// ErrMastersUnavailable means the grid cannot render because the account or
// item-type masters could not be loaded.
var ErrMastersUnavailable = errors.New("master data unavailable")

// JobMatrix is the rendered grid plus the job it belongs to.
type JobMatrix struct {
	Job *models.Job `json:"job,omitempty"`
	models.MatrixView
}

// Service orchestrates the budget grid: it pulls items and masters from the
// Ghost API, derives the aggregated view, and runs edit sessions against
// the draft.
type Service struct {
	client   ghost.Client
	masters  *masters.Cache
	registry *editor.Registry
	saver    *editor.Saver
	months   []models.MonthColumn
	logger   *zap.Logger
}

// NewService wires a grid service. The fiscal window is generated once from
// fiscalYearStart and reused for every view and session.
func NewService(client ghost.Client, mastersCache *masters.Cache, registry *editor.Registry, saver *editor.Saver, fiscalYearStart string, logger *zap.Logger) (*Service, error) {
	months, err := matrix.GenerateMonthColumns(fiscalYearStart)
	if err != nil {
		return nil, fmt.Errorf("fiscal year start: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		client:   client,
		masters:  mastersCache,
		registry: registry,
		saver:    saver,
		months:   months,
		logger:   logger,
	}, nil
}

// Months exposes the fiscal window.
func (s *Service) Months() []models.MonthColumn {
	return s.months
}

// View builds the aggregated matrix for a job from server-sourced data.
func (s *Service) View(ctx context.Context, projectID, jobID string) (*JobMatrix, error) {
	enriched, err := s.loadSorted(ctx, projectID, jobID)
	if err != nil {
		return nil, err
	}

	view := matrix.Aggregate(enriched, s.months)

	jm := &JobMatrix{MatrixView: view}
	if job, err := s.client.GetJob(ctx, jobID); err != nil {
		// The grid is still renderable without job metadata.
		s.logger.Warn("job lookup failed", zap.String("job_id", jobID), zap.Error(err))
	} else {
		jm.Job = job
	}
	return jm, nil
}

// StartEdit opens an edit session whose draft snapshots the display-sorted
// item list, so draft indices match rendered rows.
func (s *Service) StartEdit(ctx context.Context, projectID, jobID string) (*editor.Session, error) {
	enriched, err := s.loadSorted(ctx, projectID, jobID)
	if err != nil {
		return nil, err
	}

	sorted := make([]models.Item, len(enriched))
	for i, e := range enriched {
		sorted[i] = e.Item
	}

	return s.registry.Start(projectID, jobID, sorted, s.months)
}

// SetCell applies a cell edit to a session's draft.
func (s *Service) SetCell(sessionID string, req models.SetCellRequest) error {
	sess, err := s.registry.Get(sessionID)
	if err != nil {
		return err
	}
	return sess.SetCell(req.ItemIndex, req.MonthKey, req.Value)
}

// Paste applies a clipboard block to a session's draft.
func (s *Service) Paste(sessionID string, req models.PasteRequest) error {
	sess, err := s.registry.Get(sessionID)
	if err != nil {
		return err
	}
	return sess.Paste(req.ItemIndex, req.MonthIndex, req.Text)
}

// SessionView aggregates the session's draft so an editing client can
// re-render subtotals and profit after each mutation.
func (s *Service) SessionView(ctx context.Context, sessionID string) (*models.MatrixView, error) {
	sess, err := s.registry.Get(sessionID)
	if err != nil {
		return nil, err
	}
	draft, err := sess.Draft()
	if err != nil {
		return nil, err
	}

	accounts, itemTypes, err := s.masters.Masters(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMastersUnavailable, err)
	}

	view := matrix.Aggregate(matrix.Enrich(draft, accounts, itemTypes), sess.Months())
	return &view, nil
}

// Save flushes a session's draft upstream. On full success the session is
// released; on partial failure it stays open so the editor can retry the
// failed items.
func (s *Service) Save(ctx context.Context, sessionID string) (models.SaveResult, error) {
	sess, err := s.registry.Get(sessionID)
	if err != nil {
		return models.SaveResult{}, err
	}

	result, err := s.saver.Save(ctx, sess)
	if err != nil {
		return models.SaveResult{}, err
	}
	if result.Complete() {
		s.registry.Release(sessionID)
	}
	return result, nil
}

// Cancel discards a session's draft without touching upstream.
func (s *Service) Cancel(sessionID string) error {
	if _, err := s.registry.Get(sessionID); err != nil {
		return err
	}
	s.registry.Release(sessionID)
	return nil
}

// CreateItem forwards an item creation to the Ghost API.
func (s *Service) CreateItem(ctx context.Context, projectID, jobID string, req models.CreateItemRequest) (*models.Item, error) {
	return s.client.CreateItem(ctx, projectID, jobID, req)
}

func (s *Service) loadSorted(ctx context.Context, projectID, jobID string) ([]models.EnrichedItem, error) {
	accounts, itemTypes, err := s.masters.Masters(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMastersUnavailable, err)
	}

	items, err := s.client.ListItems(ctx, projectID, jobID)
	if err != nil {
		return nil, err
	}

	enriched := matrix.Enrich(items, accounts, itemTypes)
	matrix.SortForDisplay(enriched)
	return enriched, nil
}
