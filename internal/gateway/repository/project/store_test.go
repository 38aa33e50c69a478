package project

import (
	"path/filepath"
	"testing"
	"time"

	"aiba/internal/engine"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects.json")
	s := New(path)
	s.EnsureLoaded()

	rec := Record{
		ProjectID:    "p1",
		ClientName:   "Dana Reyes",
		ProjectTopic: "fleet telemetry",
		ProjectType:  "AI_ML",
		CreatedAt:    time.Now(),
	}
	s.Put(rec)

	got, ok := s.Get("p1")
	if !ok {
		t.Fatal("record not found after Put")
	}
	if got.ProjectType != "ai_ml" {
		t.Fatalf("ProjectType = %q, want normalized ai_ml", got.ProjectType)
	}

	// A fresh store must see the flushed file.
	s2 := New(path)
	got2, ok := s2.Get("p1")
	if !ok || got2.ClientName != "Dana Reyes" {
		t.Fatalf("reloaded record = %+v, ok=%v", got2, ok)
	}
}

func TestFileStoreUpdate(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "projects.json"))
	s.Put(Record{ProjectID: "p1", ClientName: "Dana"})

	updated, ok := s.Update("p1", func(r *Record) {
		r.Transcript = r.Transcript.WithExchange("What is the goal?", "Cut costs.")
		r.PendingQuestion = "What is driving the costs?"
		r.ProjectID = "tampered"
	})
	if !ok {
		t.Fatal("Update on existing record failed")
	}
	if updated.ProjectID != "p1" {
		t.Fatalf("ProjectID = %q, identity must survive the mutation", updated.ProjectID)
	}
	if updated.Transcript.ExchangeCount() != 1 || updated.PendingQuestion != "What is driving the costs?" {
		t.Fatalf("mutation lost: %+v", updated)
	}

	if _, ok := s.Update("ghost", func(*Record) {}); ok {
		t.Fatal("Update on a missing record must report false")
	}
}

func TestRecordContext(t *testing.T) {
	rec := Record{
		ProjectID:   "p1",
		ClientName:  "Dana",
		CompanyName: "Northwind",
		Research:    "a logistics firm",
		CreatedAt:   time.Date(2026, 8, 12, 0, 0, 0, 0, time.UTC),
	}
	var pc engine.ProjectContext = rec.Context()
	if pc.ClientName != "Dana" || pc.ResearchSummary != "a logistics firm" {
		t.Fatalf("Context = %+v", pc)
	}
	if !pc.CreatedAt.Equal(rec.CreatedAt) {
		t.Fatal("CreatedAt must carry over")
	}
}
