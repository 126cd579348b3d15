package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hearthkit/hearth/pkg/models"
)

func TestDefaultCatalog_CoversAllDevices(t *testing.T) {
	catalog := DefaultCatalog()

	for _, d := range models.Catalog() {
		p, ok := catalog.Profile(d)
		if !ok {
			t.Errorf("Profile(%s) missing", d)
			continue
		}
		if p.Device != d {
			t.Errorf("Profile(%s).Device = %s", d, p.Device)
		}
		if p.Capabilities == "" {
			t.Errorf("Profile(%s) has empty capabilities", d)
		}
		if p.Summary == "" {
			t.Errorf("Profile(%s) has empty summary", d)
		}
	}
}

func TestPlannerSummary(t *testing.T) {
	summary := DefaultCatalog().PlannerSummary()

	for _, d := range models.Catalog() {
		if !strings.Contains(summary, "- "+string(d)+":") {
			t.Errorf("planner summary missing device %s", d)
		}
	}
}

func TestCollaboratorSummary_ExcludesSelf(t *testing.T) {
	summary := DefaultCatalog().CollaboratorSummary(models.DeviceFridge)

	if strings.Contains(summary, "fridge (") {
		t.Error("collaborator summary includes the worker itself")
	}
	if !strings.Contains(summary, "search_engine (") {
		t.Error("collaborator summary missing other devices")
	}
}

func TestLoadCatalog_MergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "devices.yaml")
	content := `devices:
  - device: fridge
    summary: "track groceries"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write catalog file: %v", err)
	}

	catalog, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog() error = %v", err)
	}

	p, _ := catalog.Profile(models.DeviceFridge)
	if p.Summary != "track groceries" {
		t.Errorf("Summary = %q, want override", p.Summary)
	}
	if p.Capabilities == "" {
		t.Error("Capabilities lost during merge, want default kept")
	}

	// Other devices keep their built-in profiles.
	clock, _ := catalog.Profile(models.DeviceClock)
	def, _ := DefaultCatalog().Profile(models.DeviceClock)
	if clock.Summary != def.Summary {
		t.Errorf("clock summary changed: %q", clock.Summary)
	}
}

func TestLoadCatalog_UnknownDevice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "devices.yaml")
	content := `devices:
  - device: toaster
    summary: "makes toast"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write catalog file: %v", err)
	}

	if _, err := LoadCatalog(path); err == nil {
		t.Error("LoadCatalog() error = nil, want error for unknown device")
	}
}

func TestLoadCatalog_MissingFile(t *testing.T) {
	if _, err := LoadCatalog(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("LoadCatalog() error = nil, want error for missing file")
	}
}
