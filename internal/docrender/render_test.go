package docrender

import (
	"strings"
	"testing"
	"time"
)

func TestRenderProducesStyledPage(t *testing.T) {
	r := New()
	html, err := r.Render("# Business Requirements Document\n\nSome **bold** text.\n\n| a | b |\n|---|---|\n| 1 | 2 |\n")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	for _, want := range []string{
		"<!DOCTYPE html>",
		"<h1",
		"<strong>bold</strong>",
		"<table>",
		"@page",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered page missing %q", want)
		}
	}
}

func TestWrapDocument(t *testing.T) {
	at := time.Date(2026, 8, 12, 9, 30, 0, 0, time.UTC)
	out := WrapDocument("# Doc\n\nbody", "Dana Reyes", "llama-3.1-70b-versatile", at)
	if !strings.Contains(out, "**Client:** Dana Reyes") {
		t.Error("missing client banner")
	}
	if !strings.Contains(out, "2026-08-12 09:30") {
		t.Error("missing generation timestamp")
	}
	if !strings.Contains(out, "llama-3.1-70b-versatile") {
		t.Error("missing model line")
	}
	if !strings.HasSuffix(strings.TrimSpace(out), "*This document was generated from a structured requirements interview.*") {
		t.Error("missing footer")
	}
}

func TestDocumentFileName(t *testing.T) {
	at := time.Date(2026, 8, 12, 9, 30, 0, 0, time.UTC)
	got := DocumentFileName("Dana Reyes & Co.", at)
	want := "BRD_dana_reyes__co_20260812_093000.md"
	if got != want {
		t.Fatalf("DocumentFileName = %q, want %q", got, want)
	}
	if DocumentFileName("!!!", at) != "BRD_client_20260812_093000.md" {
		t.Fatalf("empty slug fallback failed: %q", DocumentFileName("!!!", at))
	}
}
