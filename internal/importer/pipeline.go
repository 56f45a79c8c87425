package importer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"dramaverse/pkg/models"
)

const (
	// previewRowCap bounds the number of rows echoed back in a preview
	// response. Counts still cover the whole file.
	previewRowCap = 50

	// maxReportedErrors and maxReportedTitles bound the commit response
	// so a pathological file cannot balloon it.
	maxReportedErrors = 200
	maxReportedTitles = 200

	// checkpointEvery is how often an in-flight job row count is
	// persisted for pollers.
	checkpointEvery = 25
)

// Pipeline runs the bulk import flow: parse, assemble, duplicate check,
// insert. Jobs may be nil, in which case commit progress is not persisted.
type Pipeline struct {
	Store CatalogStore
	Jobs  *JobsRepo
	Log   *zap.Logger
}

func NewPipeline(store CatalogStore, jobs *JobsRepo, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{Store: store, Jobs: jobs, Log: log}
}

// PreviewRow is one row's dry-run verdict.
type PreviewRow struct {
	Row         int      `json:"row"`
	Title       string   `json:"title"`
	Year        *int     `json:"year,omitempty"`
	Country     string   `json:"country"`
	ContentType string   `json:"content_type"`
	Rating      float64  `json:"rating"`
	Genres      []string `json:"genres"`
	Episodes    *int     `json:"episodes,omitempty"`
	Valid       bool     `json:"valid"`
	Issues      []string `json:"issues"`
}

// PreviewReport summarizes a dry run over the whole file. Preview holds
// at most previewRowCap rows; TotalRows, WillImport and WillSkip always
// cover every row.
type PreviewReport struct {
	TotalRows       int          `json:"total_rows"`
	WillImport      int          `json:"will_import"`
	WillSkip        int          `json:"will_skip"`
	DetectedColumns []string     `json:"detected_columns"`
	Preview         []PreviewRow `json:"preview"`
}

// Outcome is the result of a committed import.
type Outcome struct {
	TotalRows         int      `json:"total_rows"`
	SuccessfulImports int      `json:"successful_imports"`
	FailedImports     int      `json:"failed_imports"`
	Errors            []string `json:"errors"`
	ImportedTitles    []string `json:"imported_titles"`
}

// Preview dry-runs the table: rows are assembled and checked for
// duplicates but nothing is written. The duplicate check here matches
// title and year only; commit narrows further by content type.
func (p *Pipeline) Preview(ctx context.Context, table *Table) (*PreviewReport, error) {
	report := &PreviewReport{
		DetectedColumns: table.Columns,
		TotalRows:       len(table.Rows),
		Preview:         []PreviewRow{},
	}

	for i, raw := range table.Rows {
		rowNum := i + 2 // spreadsheet line; the header is line 1
		entry, rowErr := assembleRow(raw)

		pr := PreviewRow{Row: rowNum, Valid: true, Issues: []string{}}
		if rowErr != nil {
			pr.Valid = false
			pr.Issues = append(pr.Issues, rowErr.Message)
			report.WillSkip++
		} else {
			pr.Title = entry.Title
			pr.Year = entry.Year
			pr.Country = entry.Country
			pr.ContentType = entry.ContentType
			pr.Rating = entry.Rating
			pr.Genres = entry.Genres
			pr.Episodes = entry.Episodes

			dup, err := p.Store.FindDuplicate(ctx, entry.Title, entry.Year, entry.ContentType, false)
			if err != nil {
				return nil, fmt.Errorf("preview row %d: %w", rowNum, err)
			}
			if dup {
				pr.Valid = false
				pr.Issues = append(pr.Issues, fmt.Sprintf("duplicate of existing entry %q", entry.Title))
				report.WillSkip++
			} else {
				report.WillImport++
			}
		}

		if len(report.Preview) < previewRowCap {
			report.Preview = append(report.Preview, pr)
		}
	}

	p.Log.Info("import preview",
		zap.Int("total_rows", report.TotalRows),
		zap.Int("will_import", report.WillImport),
		zap.Int("will_skip", report.WillSkip))
	return report, nil
}

// Commit imports the table for real. Every row either succeeds or is
// counted as failed with a reason; a panic while processing one row is
// confined to that row. Progress is checkpointed to the job record as
// rows complete.
func (p *Pipeline) Commit(ctx context.Context, table *Table, job models.ImportJob) (*Outcome, error) {
	out := &Outcome{
		TotalRows:      len(table.Rows),
		Errors:         []string{},
		ImportedTitles: []string{},
	}

	job.Status = models.JobProcessing
	job.TotalRows = out.TotalRows
	if p.Jobs != nil {
		if err := p.Jobs.UpdateProgress(ctx, job); err != nil {
			p.Log.Warn("job checkpoint failed", zap.String("job_id", job.ID), zap.Error(err))
		}
	}

	for i, raw := range table.Rows {
		rowNum := i + 2 // spreadsheet line; the header is line 1
		title, err := p.commitRow(ctx, raw, rowNum)
		if err != nil {
			out.FailedImports++
			if len(out.Errors) < maxReportedErrors {
				out.Errors = append(out.Errors, fmt.Sprintf("row %d: %s", rowNum, err.Error()))
			}
		} else {
			out.SuccessfulImports++
			if len(out.ImportedTitles) < maxReportedTitles {
				out.ImportedTitles = append(out.ImportedTitles, title)
			}
		}

		processed := i + 1
		if p.Jobs != nil && processed%checkpointEvery == 0 {
			job.ProcessedRows = processed
			job.SuccessfulImports = out.SuccessfulImports
			job.FailedImports = out.FailedImports
			job.Errors = out.Errors
			if err := p.Jobs.UpdateProgress(ctx, job); err != nil {
				p.Log.Warn("job checkpoint failed", zap.String("job_id", job.ID), zap.Error(err))
			}
		}
	}

	job.Status = models.JobCompleted
	job.ProcessedRows = out.TotalRows
	job.SuccessfulImports = out.SuccessfulImports
	job.FailedImports = out.FailedImports
	job.Errors = out.Errors
	if p.Jobs != nil {
		if err := p.Jobs.Finish(ctx, job); err != nil {
			p.Log.Warn("job finish failed", zap.String("job_id", job.ID), zap.Error(err))
		}
	}

	p.Log.Info("import committed",
		zap.String("job_id", job.ID),
		zap.Int("total_rows", out.TotalRows),
		zap.Int("successful", out.SuccessfulImports),
		zap.Int("failed", out.FailedImports))
	return out, nil
}

// commitRow processes one row end to end and returns the title as
// stored. The deferred recover keeps a panicking row from taking down
// the rest of the batch.
func (p *Pipeline) commitRow(ctx context.Context, raw map[string]string, rowNum int) (title string, err error) {
	defer func() {
		if r := recover(); r != nil {
			p.Log.Error("import row panicked", zap.Int("row", rowNum), zap.Any("panic", r))
			title = ""
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	entry, rowErr := assembleRow(raw)
	if rowErr != nil {
		return "", rowErr
	}

	dup, err := p.Store.FindDuplicate(ctx, entry.Title, entry.Year, entry.ContentType, true)
	if err != nil {
		return "", fmt.Errorf("duplicate check: %w", err)
	}
	if dup {
		return "", fmt.Errorf("duplicate of existing entry %q", entry.Title)
	}

	if err := p.Store.Insert(ctx, *entry); err != nil {
		return "", fmt.Errorf("insert: %w", err)
	}
	return entry.Title, nil
}
