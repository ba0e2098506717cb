package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultCatalog(t *testing.T) {
	cat := Default()
	for _, facility := range []string{"Talbot House", "Kimmeridge House", "Poole Gateway", "Chapel Gate"} {
		if !cat.ValidFacility(facility) {
			t.Fatalf("facility %q should be valid", facility)
		}
	}
	if cat.ValidFacility("Hogwarts") {
		t.Fatal("unknown facility accepted")
	}
	if !cat.ValidMetric("electricity_usage") || cat.ValidMetric("electricity") {
		t.Fatal("metric enumeration mismatch")
	}
	if unit, ok := cat.ExpectedUnit("water_usage"); !ok || unit != "m³" {
		t.Fatalf("expected unit for water = %q", unit)
	}
	if cat.DefaultMeterCode("gas_usage") != "TH-G-01" {
		t.Fatalf("gas meter code = %q", cat.DefaultMeterCode("gas_usage"))
	}
	if cat.DefaultMeterCode("unknown_metric") != "GEN-01" {
		t.Fatalf("fallback meter code = %q", cat.DefaultMeterCode("unknown_metric"))
	}
}

func TestMetricLabel(t *testing.T) {
	cat := Default()
	cases := map[string]string{
		"electricity_usage": "Electricity",
		"waste_generated":   "Waste",
		"carbon_emissions":  "Carbon",
	}
	for metric, want := range cases {
		if got := cat.MetricLabel(metric); got != want {
			t.Fatalf("MetricLabel(%q) = %q, want %q", metric, got, want)
		}
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	content := []byte(`
facilities:
  - Harbour View
metric_units:
  electricity_usage: MWh
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cat, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cat.ValidFacility("Harbour View") {
		t.Fatal("override facility missing")
	}
	if cat.ValidFacility("Talbot House") {
		t.Fatal("override should replace the facility list")
	}
	if unit, _ := cat.ExpectedUnit("electricity_usage"); unit != "MWh" {
		t.Fatalf("expected unit override = %q", unit)
	}
	// Untouched sections keep their defaults.
	if !cat.ValidMetric("water_usage") {
		t.Fatal("default metrics lost")
	}
}
