package catalog

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Facility is a building or site tracked by the dashboard.
type Facility string

// Metric is a normalized utility metric name.
type Metric string

// Unit is a unit of measurement for a reading value.
type Unit string

const (
	FacilityTalbotHouse     Facility = "Talbot House"
	FacilityKimmeridgeHouse Facility = "Kimmeridge House"
	FacilityPooleGateway    Facility = "Poole Gateway"
	FacilityChapelGate      Facility = "Chapel Gate"

	MetricElectricity Metric = "electricity_usage"
	MetricWater       Metric = "water_usage"
	MetricGas         Metric = "gas_usage"
	MetricWaste       Metric = "waste_generated"
	MetricCarbon      Metric = "carbon_emissions"

	UnitKWh    Unit = "kWh"
	UnitCubicM Unit = "m³"
	UnitLitre  Unit = "L"
	UnitKg     Unit = "kg"
	UnitTonnes Unit = "tons"
)

// Catalog holds the closed facility/metric/unit enumerations. It is built once
// at startup and never mutated afterwards, so it is safe to share across
// concurrent ingestion runs.
type Catalog struct {
	facilities map[Facility]struct{}
	metrics    map[Metric]struct{}
	units      map[Unit]struct{}

	expectedUnit map[Metric]Unit
	meterCode    map[Metric]string
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return build(defaultFile())
}

// File is the YAML shape for catalog overrides.
type File struct {
	Facilities []string          `yaml:"facilities"`
	Metrics    []string          `yaml:"metrics"`
	Units      []string          `yaml:"units"`
	MetricUnit map[string]string `yaml:"metric_units"`
	MeterCodes map[string]string `yaml:"meter_codes"`
}

// Load reads a catalog from a YAML file, falling back to built-in values for
// any section the file omits.
func Load(path string) (*Catalog, error) {
	file := defaultFile()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var override File
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("catalog: parse %s: %w", path, err)
	}
	if len(override.Facilities) > 0 {
		file.Facilities = override.Facilities
	}
	if len(override.Metrics) > 0 {
		file.Metrics = override.Metrics
	}
	if len(override.Units) > 0 {
		file.Units = override.Units
	}
	for metric, unit := range override.MetricUnit {
		file.MetricUnit[metric] = unit
	}
	for metric, code := range override.MeterCodes {
		file.MeterCodes[metric] = code
	}
	return build(file), nil
}

func defaultFile() File {
	return File{
		Facilities: []string{
			string(FacilityTalbotHouse),
			string(FacilityKimmeridgeHouse),
			string(FacilityPooleGateway),
			string(FacilityChapelGate),
		},
		Metrics: []string{
			string(MetricElectricity),
			string(MetricWater),
			string(MetricGas),
			string(MetricWaste),
			string(MetricCarbon),
		},
		Units: []string{
			string(UnitKWh),
			string(UnitCubicM),
			string(UnitLitre),
			string(UnitKg),
			string(UnitTonnes),
		},
		MetricUnit: map[string]string{
			string(MetricElectricity): string(UnitKWh),
			string(MetricWater):       string(UnitCubicM),
			string(MetricGas):         string(UnitCubicM),
			string(MetricWaste):       string(UnitKg),
			string(MetricCarbon):      string(UnitTonnes),
		},
		MeterCodes: map[string]string{
			string(MetricElectricity): "TH-E-01",
			string(MetricWater):       "TH-W-01",
			string(MetricGas):         "TH-G-01",
			string(MetricWaste):       "TH-WS-01",
			string(MetricCarbon):      "TH-C-01",
		},
	}
}

func build(file File) *Catalog {
	cat := &Catalog{
		facilities:   make(map[Facility]struct{}, len(file.Facilities)),
		metrics:      make(map[Metric]struct{}, len(file.Metrics)),
		units:        make(map[Unit]struct{}, len(file.Units)),
		expectedUnit: make(map[Metric]Unit, len(file.MetricUnit)),
		meterCode:    make(map[Metric]string, len(file.MeterCodes)),
	}
	for _, name := range file.Facilities {
		cat.facilities[Facility(name)] = struct{}{}
	}
	for _, name := range file.Metrics {
		cat.metrics[Metric(name)] = struct{}{}
	}
	for _, name := range file.Units {
		cat.units[Unit(name)] = struct{}{}
	}
	for metric, unit := range file.MetricUnit {
		cat.expectedUnit[Metric(metric)] = Unit(unit)
	}
	for metric, code := range file.MeterCodes {
		cat.meterCode[Metric(metric)] = code
	}
	return cat
}

// ValidFacility reports whether name is a member of the facility enumeration.
func (c *Catalog) ValidFacility(name string) bool {
	_, ok := c.facilities[Facility(name)]
	return ok
}

// ValidMetric reports whether name is a member of the metric enumeration.
func (c *Catalog) ValidMetric(name string) bool {
	_, ok := c.metrics[Metric(name)]
	return ok
}

// ValidUnit reports whether name is a member of the unit enumeration.
func (c *Catalog) ValidUnit(name string) bool {
	_, ok := c.units[Unit(name)]
	return ok
}

// ExpectedUnit returns the unit a metric is normally reported in.
func (c *Catalog) ExpectedUnit(metric string) (string, bool) {
	unit, ok := c.expectedUnit[Metric(metric)]
	return string(unit), ok
}

// DefaultMeterCode returns the fallback meter code for a metric.
func (c *Catalog) DefaultMeterCode(metric string) string {
	if code, ok := c.meterCode[Metric(metric)]; ok {
		return code
	}
	return "GEN-01"
}

// MetricLabel renders a metric name for display, e.g. "electricity_usage"
// becomes "Electricity". Used when deriving default meter names.
func (c *Catalog) MetricLabel(metric string) string {
	base := metric
	for _, suffix := range []string{"_usage", "_generated", "_emissions"} {
		base = strings.TrimSuffix(base, suffix)
	}
	if base == "" {
		return metric
	}
	return strings.ToUpper(base[:1]) + base[1:]
}

// Facilities returns the facility enumeration in stable order.
func (c *Catalog) Facilities() []string {
	return sortedKeys(c.facilities)
}

// Metrics returns the metric enumeration in stable order.
func (c *Catalog) Metrics() []string {
	return sortedKeys(c.metrics)
}

// Units returns the unit enumeration in stable order.
func (c *Catalog) Units() []string {
	return sortedKeys(c.units)
}

func sortedKeys[K ~string](set map[K]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, string(key))
	}
	sort.Strings(keys)
	return keys
}
