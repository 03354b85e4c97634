package snapshot

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ghostplan/matrix/internal/config"
	"github.com/ghostplan/matrix/internal/domain/models"
	"github.com/ghostplan/matrix/internal/repository/sheets"
	"github.com/ghostplan/matrix/internal/service/grid"
	"github.com/ghostplan/matrix/internal/service/matrix"
)

const exportTimeLayout = "2006-01-02 15:04"

// MatrixProvider supplies the aggregated grid for a job.
type MatrixProvider interface {
	View(ctx context.Context, projectID, jobID string) (*grid.JobMatrix, error)
}

// Service exports periodic matrix snapshots to a spreadsheet: one block of
// rows per job with the category subtotals and the operating profit line.
type Service struct {
	grids      MatrixProvider
	repo       sheets.Repository
	sheetRange string
	logger     *zap.Logger
}

// NewService wires a snapshot exporter.
func NewService(grids MatrixProvider, repo sheets.Repository, sheetRange string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{grids: grids, repo: repo, sheetRange: sheetRange, logger: logger}
}

// Export appends one job's snapshot block to the sheet.
func (s *Service) Export(ctx context.Context, ref config.JobRef) error {
	jm, err := s.grids.View(ctx, ref.ProjectID, ref.JobID)
	if err != nil {
		return fmt.Errorf("load matrix for job %s: %w", ref.JobID, err)
	}

	rows := buildRows(jm, time.Now())
	if err := s.repo.AppendRows(ctx, s.sheetRange, rows); err != nil {
		return fmt.Errorf("export snapshot for job %s: %w", ref.JobID, err)
	}

	s.logger.Info("matrix snapshot exported",
		zap.String("project_id", ref.ProjectID),
		zap.String("job_id", ref.JobID))
	return nil
}

// ExportAll snapshots every configured job. A failing job is logged and
// skipped so one broken job never blocks the rest.
func (s *Service) ExportAll(ctx context.Context, refs []config.JobRef) {
	for _, ref := range refs {
		if err := s.Export(ctx, ref); err != nil {
			s.logger.Error("snapshot export failed",
				zap.String("project_id", ref.ProjectID),
				zap.String("job_id", ref.JobID),
				zap.Error(err))
		}
	}
}

// buildRows renders the snapshot block: a title row, the month header, one
// subtotal row per category in statement order, and the profit row.
func buildRows(jm *grid.JobMatrix, at time.Time) [][]interface{} {
	title := "(job unknown)"
	if jm.Job != nil {
		title = jm.Job.Name
	}

	rows := [][]interface{}{
		{title, at.Format(exportTimeLayout)},
	}

	header := []interface{}{"科目"}
	for _, m := range jm.Months {
		header = append(header, m.FullLabel)
	}
	rows = append(rows, header)

	for _, cat := range models.CategoryOrder {
		row := []interface{}{cat.Label() + " 合計"}
		for _, m := range jm.Months {
			row = append(row, matrix.FormatAmount(jm.MonthlyTotals[cat][m.Key]))
		}
		rows = append(rows, row)
	}

	profit := []interface{}{"営業利益"}
	for _, m := range jm.Months {
		profit = append(profit, matrix.FormatAmount(jm.Profit[m.Key]))
	}
	return append(rows, profit)
}
