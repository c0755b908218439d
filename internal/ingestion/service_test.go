package ingestion

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const neoCSV = `id,pdes,name,diameter,pha
a0000433,433,Eros,16.84,N
a0099942,99942,Apophis,0.34,Y
a0000001,2020 XY,,,N
`

const approachJSON = `{
  "fields": ["des", "orbit_id", "jd", "cd", "dist", "v_rel"],
  "data": [
    ["433", "659", "2462240.4", "2029-Jan-02 12:31", "0.15", "5.26"],
    ["99942", "220", "2462240.5", "2029-Apr-13 21:46", "0.00025", "7.42"],
    ["99942", "220", "2469807.9", "2036-Apr-13 09:00", "0.11", "6.40"]
  ]
}`

func TestLoadNeos(t *testing.T) {
	neos, skipped, err := LoadNeos(strings.NewReader(neoCSV))
	if err != nil {
		t.Fatalf("LoadNeos returned error: %v", err)
	}
	if skipped != 0 {
		t.Fatalf("expected no skipped rows, got %d", skipped)
	}
	if len(neos) != 3 {
		t.Fatalf("expected 3 NEOs, got %d", len(neos))
	}

	eros := neos[0]
	if eros.Designation != "433" || eros.Name != "Eros" {
		t.Fatalf("unexpected first NEO: %+v", eros)
	}
	if eros.Diameter != 16.84 || eros.Hazardous {
		t.Fatalf("unexpected Eros attributes: %+v", eros)
	}

	if !neos[1].Hazardous {
		t.Fatalf("expected Apophis to be flagged hazardous")
	}

	unnamed := neos[2]
	if unnamed.Name != "" {
		t.Fatalf("expected empty name, got %q", unnamed.Name)
	}
	if unnamed.HasDiameter() {
		t.Fatalf("empty diameter column must parse as unknown")
	}
}

func TestLoadNeosColumnOrderIndependent(t *testing.T) {
	shuffled := "pha,name,pdes,diameter\nN,Eros,433,16.84\n"

	neos, _, err := LoadNeos(strings.NewReader(shuffled))
	if err != nil {
		t.Fatalf("LoadNeos returned error: %v", err)
	}
	if len(neos) != 1 || neos[0].Designation != "433" || neos[0].Name != "Eros" {
		t.Fatalf("columns must be located by header, got %+v", neos[0])
	}
}

func TestLoadNeosStripsByteOrderMark(t *testing.T) {
	data := "\xEF\xBB\xBFpdes,name,diameter,pha\n433,Eros,16.84,N\n"

	neos, _, err := LoadNeos(strings.NewReader(data))
	if err != nil {
		t.Fatalf("LoadNeos returned error: %v", err)
	}
	if len(neos) != 1 || neos[0].Designation != "433" {
		t.Fatalf("BOM must be stripped before the header, got %+v", neos)
	}
}

func TestLoadNeosSkipsRowsWithoutDesignation(t *testing.T) {
	data := "pdes,name,diameter,pha\n,Ghost,1.0,N\n433,Eros,16.84,N\n"

	neos, skipped, err := LoadNeos(strings.NewReader(data))
	if err != nil {
		t.Fatalf("LoadNeos returned error: %v", err)
	}
	if skipped != 1 {
		t.Fatalf("expected 1 skipped row, got %d", skipped)
	}
	if len(neos) != 1 {
		t.Fatalf("expected 1 NEO, got %d", len(neos))
	}
}

func TestLoadNeosMissingDesignationColumn(t *testing.T) {
	if _, _, err := LoadNeos(strings.NewReader("name,diameter\nEros,16.84\n")); err == nil {
		t.Fatalf("expected error for catalogue without pdes column")
	}
}

func TestLoadApproaches(t *testing.T) {
	approaches, skipped, err := LoadApproaches(strings.NewReader(approachJSON))
	if err != nil {
		t.Fatalf("LoadApproaches returned error: %v", err)
	}
	if skipped != 0 {
		t.Fatalf("expected no skipped rows, got %d", skipped)
	}
	if len(approaches) != 3 {
		t.Fatalf("expected 3 approaches, got %d", len(approaches))
	}

	apophis := approaches[1]
	if apophis.Designation != "99942" {
		t.Fatalf("unexpected designation %q", apophis.Designation)
	}
	want := time.Date(2029, 4, 13, 21, 46, 0, 0, time.UTC)
	if !apophis.Time.Equal(want) {
		t.Fatalf("time parsed as %s, want %s", apophis.Time, want)
	}
	if apophis.Distance != 0.00025 || apophis.Velocity != 7.42 {
		t.Fatalf("unexpected approach values: %+v", apophis)
	}
}

func TestLoadApproachesSkipsMalformedRows(t *testing.T) {
	data := `{
  "fields": ["des", "cd", "dist", "v_rel"],
  "data": [
    ["433", "not a time", "0.15", "5.26"],
    ["433", "2029-Jan-02 12:31", "far", "5.26"],
    ["", "2029-Jan-02 12:31", "0.15", "5.26"],
    ["433", "2029-Jan-02 12:31", "0.15", "5.26"]
  ]
}`

	approaches, skipped, err := LoadApproaches(strings.NewReader(data))
	if err != nil {
		t.Fatalf("LoadApproaches returned error: %v", err)
	}
	if skipped != 3 {
		t.Fatalf("expected 3 skipped rows, got %d", skipped)
	}
	if len(approaches) != 1 {
		t.Fatalf("expected 1 approach, got %d", len(approaches))
	}
}

func TestLoadApproachesMissingField(t *testing.T) {
	data := `{"fields": ["des", "cd"], "data": []}`

	if _, _, err := LoadApproaches(strings.NewReader(data)); err == nil {
		t.Fatalf("expected error for data without dist field")
	}
}

func TestLoadApproachesNumericCells(t *testing.T) {
	data := `{
  "fields": ["des", "cd", "dist", "v_rel"],
  "data": [["433", "2029-Jan-02 12:31", 0.15, 5.26]]
}`

	approaches, skipped, err := LoadApproaches(strings.NewReader(data))
	if err != nil {
		t.Fatalf("LoadApproaches returned error: %v", err)
	}
	if skipped != 0 || len(approaches) != 1 {
		t.Fatalf("numeric cells must parse, got %d approaches, %d skipped", len(approaches), skipped)
	}
	if approaches[0].Distance != 0.15 {
		t.Fatalf("unexpected distance %v", approaches[0].Distance)
	}
}

func TestServiceLoadLinksDatabase(t *testing.T) {
	dir := t.TempDir()
	neoPath := filepath.Join(dir, "neos.csv")
	approachPath := filepath.Join(dir, "cad.json")
	if err := os.WriteFile(neoPath, []byte(neoCSV), 0o644); err != nil {
		t.Fatalf("write neos: %v", err)
	}
	if err := os.WriteFile(approachPath, []byte(approachJSON), 0o644); err != nil {
		t.Fatalf("write approaches: %v", err)
	}

	service := NewService(neoPath, approachPath)
	db, summary, err := service.Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if summary.Neos != 3 || summary.Approaches != 3 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	apophis, err := db.NeoByDesignation(context.Background(), "99942")
	if err != nil {
		t.Fatalf("NeoByDesignation: %v", err)
	}
	if len(apophis.Approaches) != 2 {
		t.Fatalf("expected 2 linked approaches, got %d", len(apophis.Approaches))
	}
}

func TestServiceLoadRejectsUnknownExtension(t *testing.T) {
	service := NewService("neos.txt", "cad.json")

	_, _, err := service.Load(context.Background())
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}
