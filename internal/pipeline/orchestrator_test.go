package pipeline

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/dgallion1/docnorm/internal/blankline"
	"github.com/dgallion1/docnorm/internal/config"
)

func testOrchestrator(queueSize int) *Orchestrator {
	cfg := config.Config{
		WorkerCount:  1,
		MaxQueueSize: queueSize,
		JobTTL:       time.Hour,
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewOrchestrator(cfg, blankline.DefaultOptions(), nil, nil, log)
}

func TestNewJob_Fields(t *testing.T) {
	data := []byte("document bytes")
	job := NewJob("report.docx", data)

	if len(job.ID) != 26 {
		t.Errorf("expected ULID job id, got %q", job.ID)
	}
	if want := ContentHashHex(data)[:16]; job.DocID != want {
		t.Errorf("expected doc id %q, got %q", want, job.DocID)
	}
	if job.Status != StatusQueued || job.Phase != "queued" {
		t.Errorf("expected queued job, got %s/%s", job.Status, job.Phase)
	}
	if job.Filename != "report.docx" {
		t.Errorf("unexpected filename %q", job.Filename)
	}
	if string(job.FileData()) != string(data) {
		t.Error("expected file data stored on the job")
	}
}

func TestSubmit_QueuesJob(t *testing.T) {
	orch := testOrchestrator(2)
	job := NewJob("a.docx", []byte("a"))

	if err := orch.Submit(job); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if orch.QueueDepth() != 1 {
		t.Errorf("expected queue depth 1, got %d", orch.QueueDepth())
	}
	if got := orch.GetJob(job.ID); got == nil || got.ID != job.ID {
		t.Error("expected submitted job retrievable by id")
	}
}

func TestSubmit_QueueFull(t *testing.T) {
	orch := testOrchestrator(1)

	if err := orch.Submit(NewJob("a.docx", []byte("a"))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	overflow := NewJob("b.docx", []byte("b"))
	if err := orch.Submit(overflow); err == nil {
		t.Fatal("expected queue-full error")
	}
	if overflow.Status != StatusFailed {
		t.Errorf("expected overflow job marked failed, got %s", overflow.Status)
	}
}

func TestGetJob_Missing(t *testing.T) {
	orch := testOrchestrator(1)
	if orch.GetJob("nope") != nil {
		t.Error("expected nil for unknown job id")
	}
}
