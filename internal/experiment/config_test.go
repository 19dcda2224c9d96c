package experiment

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDefaults(t *testing.T) {
	sim := DefaultSimulated()
	if sim.Variant != "simulated" {
		t.Fatalf("unexpected variant %q", sim.Variant)
	}
	if err := sim.DriverConfig().Validate(); err != nil {
		t.Fatalf("simulated defaults invalid: %v", err)
	}
	if err := sim.Resampling().Validate(); err != nil {
		t.Fatalf("simulated resampling invalid: %v", err)
	}
	if sim.FoldRepeats != 6 {
		t.Fatalf("expected 6 fold repeats for simulated, got %d", sim.FoldRepeats)
	}

	w := DefaultWine()
	if w.Variant != "winequality" {
		t.Fatalf("unexpected variant %q", w.Variant)
	}
	if w.FoldRepeats != 2 {
		t.Fatalf("expected 2 fold repeats for wine, got %d", w.FoldRepeats)
	}
	if err := w.DriverConfig().Validate(); err != nil {
		t.Fatalf("wine defaults invalid: %v", err)
	}
	if w.DataURL == "" {
		t.Fatal("wine defaults should carry a data URL")
	}
}

func TestLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exp.json")
	body := `{
		"variant": "simulated",
		"sizes": [20, 100],
		"repeats": 3,
		"seed": 7,
		"relevance": 0.2,
		"interaction": 0.05,
		"folds": 5,
		"fold_repeats": 6,
		"trees": 100,
		"mtry": 3,
		"stability_tol": 0.5,
		"db_path": "x.db",
		"plot_path": "x.png"
	}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(c.Sizes, []int{20, 100}) {
		t.Fatalf("unexpected sizes %v", c.Sizes)
	}
	if c.Relevance != 0.2 || c.Interaction != 0.05 {
		t.Fatalf("unexpected signal params %v/%v", c.Relevance, c.Interaction)
	}
	if c.ForestParams().Trees != 100 {
		t.Fatalf("unexpected trees %d", c.ForestParams().Trees)
	}
	if c.StabilityTol != 0.5 {
		t.Fatalf("unexpected tolerance %v", c.StabilityTol)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{nope"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed config")
	}
}
