package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/docnorm/internal/archive"
	"github.com/dgallion1/docnorm/internal/blankline"
	"github.com/dgallion1/docnorm/internal/parser"
	"github.com/dgallion1/docnorm/internal/report"
)

// Worker processes a single normalization job.
type Worker struct {
	archive *archive.Client
	stats   *report.Stats
	log     *slog.Logger
	opts    blankline.Options
}

func NewWorker(arc *archive.Client, stats *report.Stats, log *slog.Logger, opts blankline.Options) *Worker {
	return &Worker{
		archive: arc,
		stats:   stats,
		log:     log,
		opts:    opts,
	}
}

// Process runs the full normalization pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID)

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	tree, err := parser.Parse(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	job.SetContentHash(ContentHashHex(job.FileData()))

	// Phase 2: Capture the snapshot from the untouched tree.
	job.SetStatus(StatusCapturing, "capturing")
	snap := blankline.Capture(tree)
	log.Info("captured snapshot",
		"body_blanks", snap.BodyBlankCount(),
		"cell_blanks", snap.CellBlankCount(),
	)

	// Phase 3: Normalize.
	job.SetStatus(StatusNormalizing, "normalizing")
	start := time.Now()
	counts := blankline.Process(tree, snap, w.opts)
	elapsed := time.Since(start)

	if w.stats != nil {
		w.stats.Record(elapsed.Milliseconds())
	}
	job.SetCounts(counts, elapsed.Milliseconds())
	log.Info("normalized document",
		"removed", counts.Removed,
		"added", counts.Added,
		"preserved", counts.Preserved,
		"indentation_fixed", counts.IndentFixed,
		"duration_ms", elapsed.Milliseconds(),
	)

	// Phase 4: Report.
	job.SetStatus(StatusReporting, "reporting")
	job.SetReport(report.BuildMarkdown(job.Filename, job.DocID, counts, elapsed))

	// Phase 5: Archive, when a results store is configured.
	if w.archive != nil {
		job.SetStatus(StatusArchiving, "archiving")
		err := w.archive.PutResult(ctx, job.DocID, archive.Result{
			DocID:       job.DocID,
			Filename:    job.Filename,
			ContentHash: job.ContentHash,
			Removed:     counts.Removed,
			Added:       counts.Added,
			Preserved:   counts.Preserved,
			IndentFixed: counts.IndentFixed,
			DurationMs:  elapsed.Milliseconds(),
			CreatedAt:   job.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			log.Error("archive failed", "error", err)
			job.AddError(fmt.Sprintf("archive: %s", err))
			job.SetStatus(StatusPartial, "archiving")
			return
		}
	}

	job.SetStatus(StatusCompleted, "done")
}
