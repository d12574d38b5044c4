package sheets

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"voterlookup/records"
)

// SearchFunc looks up one name and returns the matching records.
type SearchFunc func(name string) ([]records.Summary, error)

// RunnerConfig locates the names to process within a spreadsheet.
type RunnerConfig struct {
	SpreadsheetID string
	SheetName     string
	// NameColumn holds the names to look up; ResultsStartColumn is where
	// result values are written for the same row.
	NameColumn         string
	ResultsStartColumn string
	// StartRow is 1-based, typically 2 to skip a header row.
	StartRow int
	// RowLimit caps how many rows one run considers, already-populated
	// (skipped) rows included. Zero means no cap.
	RowLimit int
}

// Runner walks a sheet's name column, looks each name up, and writes the
// best match back onto the row. Rows whose result column is already
// populated are skipped, so interrupted runs resume where they left off.
type Runner struct {
	client Client
	search SearchFunc
	cfg    RunnerConfig
	log    *zap.Logger
}

func NewRunner(client Client, search SearchFunc, cfg RunnerConfig, log *zap.Logger) *Runner {
	if cfg.StartRow < 1 {
		cfg.StartRow = 2
	}
	return &Runner{client: client, search: search, cfg: cfg, log: log}
}

// Run processes the sheet and returns how many rows were updated.
func (r *Runner) Run(ctx context.Context) (int, error) {
	names, err := r.client.ReadColumn(ctx, r.cfg.SpreadsheetID, r.cfg.SheetName,
		r.cfg.NameColumn, r.cfg.StartRow, r.cfg.RowLimit)
	if err != nil {
		return 0, fmt.Errorf("failed to read names: %v", err)
	}
	r.log.Info("loaded names from sheet", zap.Int("count", len(names)))

	updated := 0
	for i, cell := range names {
		// The limit counts every considered row, skipped ones included, so
		// a sheet full of processed rows still terminates after RowLimit.
		if r.cfg.RowLimit > 0 && i >= r.cfg.RowLimit {
			r.log.Info("row limit reached", zap.Int("limit", r.cfg.RowLimit))
			break
		}

		populated, err := r.client.IsRowPopulated(ctx, r.cfg.SpreadsheetID,
			r.cfg.SheetName, r.cfg.ResultsStartColumn, cell.Row)
		if err != nil {
			return updated, fmt.Errorf("failed to check row %d: %v", cell.Row, err)
		}
		if populated {
			r.log.Debug("skipping processed row",
				zap.Int("row", cell.Row), zap.String("name", cell.Value))
			continue
		}

		results, err := r.search(cell.Value)
		if err != nil {
			r.log.Warn("lookup failed, marking row",
				zap.String("name", cell.Value), zap.Error(err))
			results = nil
		}

		if err := r.client.UpdateRow(ctx, r.cfg.SpreadsheetID, r.cfg.SheetName,
			cell.Row, r.cfg.ResultsStartColumn, RowValues(results)); err != nil {
			return updated, fmt.Errorf("failed to update row %d: %v", cell.Row, err)
		}
		updated++
		r.log.Info("row updated", zap.Int("row", cell.Row),
			zap.String("name", cell.Value), zap.Int("matches", len(results)))
	}
	return updated, nil
}

// RowValues flattens lookup results into spreadsheet cells. The first match
// provides the fields; the leading cell records the total match count so
// ambiguous names are visible at a glance.
func RowValues(results []records.Summary) []string {
	if len(results) == 0 {
		return []string{"NOT FOUND"}
	}
	best := results[0]
	return []string{
		strconv.Itoa(len(results)),
		best.Name,
		best.Address,
		best.City,
		best.State,
		best.ZipCode,
		best.Phone,
		best.DateOfBirth,
		best.CalculatedParty,
	}
}
