package csvimport

import (
	"context"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/festy23/buildathon_roster/internal/metrics"
	"github.com/festy23/buildathon_roster/internal/roster/model"
	"github.com/festy23/buildathon_roster/internal/roster/repository"
)

// Importer replaces the roster with the contents of a survey export.
type Importer struct {
	repo    *repository.Repository
	logger  *zap.SugaredLogger
	metrics *metrics.Metrics
	aliases *Aliases
}

// NewImporter creates an importer. m and aliases may be nil.
func NewImporter(repo *repository.Repository, logger *zap.SugaredLogger, m *metrics.Metrics, aliases *Aliases) *Importer {
	return &Importer{
		repo:    repo,
		logger:  logger,
		metrics: m,
		aliases: aliases,
	}
}

// Import parses CSV from r and replaces all participants and teams with the
// reconciled result. Check-ins are cleared.
func (i *Importer) Import(ctx context.Context, r io.Reader) (*Result, error) {
	table, err := ReadTable(r)
	if err != nil {
		i.observe(err, time.Now())
		i.logger.Warnw("CSV import rejected", "error", err)
		return nil, err
	}
	return i.ImportTable(ctx, table)
}

// ImportTable is Import for an already parsed table.
func (i *Importer) ImportTable(ctx context.Context, table *Table) (*Result, error) {
	start := time.Now()

	if err := table.Validate(); err != nil {
		i.observe(err, start)
		i.logger.Warnw("CSV import rejected", "error", err)
		return nil, err
	}
	cols := ResolveColumns(table.Header, i.aliases)

	var result *Result
	err := i.repo.Transaction(ctx, func(tx *repository.Tx) error {
		var err error
		result, err = Reconcile(table, cols, tx.Now(), tx.NewID)
		if err != nil {
			return err
		}
		tx.ReplaceAll(result.Participants, result.Teams, model.Checkins{})
		return nil
	})
	i.observe(err, start)
	if err != nil {
		if model.Outcome(err) == "error" {
			i.logger.Errorw("CSV import failed", "error", err)
		} else {
			i.logger.Warnw("CSV import rejected", "error", err)
		}
		return nil, err
	}

	diag := result.Diagnostics
	i.metrics.AddImportRecords("rows", diag.TotalRowsProcessed)
	i.metrics.AddImportRecords("participants", diag.Participants)
	i.metrics.AddImportRecords("teams", len(result.Teams))
	i.metrics.AddImportRecords("missing_member_names", diag.MissingMemberNames)
	i.metrics.SetRosterSize(len(result.Participants), len(result.Teams), 0)

	if len(diag.MissingColumns) > 0 {
		i.logger.Warnw("CSV columns not found", "columns", diag.MissingColumns)
	}
	for _, d := range diag.Discrepancies {
		i.logger.Warnw("Team member count mismatch",
			"row", d.Row,
			"team", d.TeamName,
			"leader", d.LeaderName,
			"declared", d.DeclaredMembers,
			"created", d.CreatedMembers,
			"missing_names", d.MissingMemberNames,
		)
	}
	i.logger.Infow("CSV import completed",
		"rows", diag.TotalRowsProcessed,
		"participants", diag.Participants,
		"teams", len(result.Teams),
		"expected_registrants", diag.ExpectedRegistrants,
	)
	return result, nil
}

func (i *Importer) observe(err error, start time.Time) {
	i.metrics.ObserveOperation("import_csv", model.Outcome(err), time.Since(start))
}
