package persist

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestJournalRecordsAndSummarizesMetrics(t *testing.T) {
	dir := t.TempDir()
	j, err := OpenJournal(filepath.Join(dir, "journal.db"), zerolog.Nop())
	if err != nil {
		t.Fatalf("OpenJournal failed: %v", err)
	}
	defer j.Close()

	j.RecordWindowEvent(1, 0, "added")
	j.RecordWindowEvent(1, 1, "added")
	j.RecordWindowEvent(1, 0, "removed")

	j.RecordTxnLatency(1, 10*time.Millisecond)
	j.RecordTxnLatency(2, 20*time.Millisecond)
	j.RecordTxnLatency(3, 30*time.Millisecond)

	m, err := j.Metrics(time.Unix(0, 0))
	if err != nil {
		t.Fatalf("Metrics failed: %v", err)
	}
	if m.WindowEventCount != 3 {
		t.Fatalf("expected 3 window events, got %d", m.WindowEventCount)
	}
	if m.SampledTxnLatency != 3 {
		t.Fatalf("expected 3 sampled latencies, got %d", m.SampledTxnLatency)
	}
	if m.AvgTxnLatencyMs != 20 {
		t.Fatalf("expected avg latency 20ms, got %v", m.AvgTxnLatencyMs)
	}
}

func TestJournalMetricsSinceExcludesOlderEvents(t *testing.T) {
	dir := t.TempDir()
	j, err := OpenJournal(filepath.Join(dir, "journal.db"), zerolog.Nop())
	if err != nil {
		t.Fatalf("OpenJournal failed: %v", err)
	}
	defer j.Close()

	j.RecordWindowEvent(1, 0, "added")

	m, err := j.Metrics(time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("Metrics failed: %v", err)
	}
	if m.WindowEventCount != 0 {
		t.Fatalf("expected 0 events after the cutoff, got %d", m.WindowEventCount)
	}
}
