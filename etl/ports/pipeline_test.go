package ports

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBuild(t *testing.T) {
	dir := t.TempDir()
	unlocode := filepath.Join(dir, "code-list.csv")
	geonames := filepath.Join(dir, "ports.txt")
	if err := os.WriteFile(unlocode, []byte(codeList), 0o644); err != nil {
		t.Fatal(err)
	}
	gn := tsvLine("2911298", "Hamburg", "Hamburg", "", "53.54", "9.96", "L", "PRT", "DE", "", "04", "", "", "", "0", "", "5", "Europe/Berlin", "") + "\n" +
		tsvLine("294801", "Haifa Port", "Haifa Port", "", "32.82", "35.00", "L", "PRT", "IL", "", "", "", "", "", "0", "", "5", "Asia/Jerusalem", "") + "\n"
	if err := os.WriteFile(geonames, []byte(gn), 0o644); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "sql")
	report, err := Build(context.Background(), Options{
		UNLocodePath:   unlocode,
		GeoNamesPath:   geonames,
		GeoNamesFormat: FormatTSV,
		BatchSize:      2,
		OutDir:         out,
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if report.UNLocode.Kept != 3 || report.GeoNames.Kept != 2 {
		t.Fatalf("parse stats = %+v / %+v", report.UNLocode, report.GeoNames)
	}
	// BRRIO, DEHAM, GN294801, NOBGO
	if report.Clean.Output != 4 || report.Clean.Enriched != 1 {
		t.Fatalf("clean = %+v", report.Clean)
	}
	if len(report.Statements) != 2 || len(report.Files) != 2 {
		t.Fatalf("statements=%d files=%d", len(report.Statements), len(report.Files))
	}
	if !strings.Contains(report.Statements[1].SQL, "'GN294801'") && !strings.Contains(report.Statements[0].SQL, "'GN294801'") {
		t.Error("geonames-only port missing")
	}
}

func TestBuildStopsWhenCancelled(t *testing.T) {
	dir := t.TempDir()
	unlocode := filepath.Join(dir, "code-list.csv")
	if err := os.WriteFile(unlocode, []byte(codeList), 0o644); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Build(ctx, Options{UNLocodePath: unlocode, BatchSize: 10})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestBuildRequiresInput(t *testing.T) {
	if _, err := Build(context.Background(), Options{}); err == nil {
		t.Fatal("expected error without inputs")
	}
}

func TestBuildMissingFile(t *testing.T) {
	_, err := Build(context.Background(), Options{UNLocodePath: filepath.Join(t.TempDir(), "nope.csv")})
	if err == nil || !strings.Contains(err.Error(), "open unlocode") {
		t.Fatalf("err = %v", err)
	}
}
