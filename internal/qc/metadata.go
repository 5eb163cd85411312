package qc

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate checks bound parameter configurations after clamping.
var validate = validator.New()

// StationMetadata holds the per-station configuration table: a flat mapping
// from configuration key (e.g. "hm0_min", "mdir_roc") to a scalar value.
// Keys are matched to a parameter by substring containment of the parameter
// name.
type StationMetadata map[string]string

// LoadStationMetadata reads a two-column key,value delimited file. A header
// row is skipped when its first cell is not a known-looking key (contains no
// parameter-style underscore suffix is fine; we simply skip a literal
// "key,value" header).
func LoadStationMetadata(path string) (StationMetadata, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open station metadata %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = 2

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read station metadata %s: %w", path, err)
	}

	meta := make(StationMetadata, len(rows))
	for i, row := range rows {
		key := strings.TrimSpace(row[0])
		value := strings.TrimSpace(row[1])
		if i == 0 && strings.EqualFold(key, "key") {
			continue
		}
		if key == "" {
			continue
		}
		meta[key] = value
	}

	return meta, nil
}

// ForParameter returns the subset of keys containing the parameter name.
func (m StationMetadata) ForParameter(param string) StationMetadata {
	subset := make(StationMetadata)
	for key, value := range m {
		if strings.Contains(key, param) {
			subset[key] = value
		}
	}
	return subset
}

// Float returns the value of a key parsed as float64.
func (m StationMetadata) Float(key string) (float64, bool) {
	raw, ok := m[key]
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Int returns the value of a key parsed as int.
func (m StationMetadata) Int(key string) (int, bool) {
	v, ok := m.Float(key)
	if !ok {
		return 0, false
	}
	return int(v), true
}

// Bool returns the value of a key parsed as a boolean. Accepts true/false,
// yes/no and numeric values (non-zero is true).
func (m StationMetadata) Bool(key string) (bool, bool) {
	raw, ok := m[key]
	if !ok {
		return false, false
	}
	switch strings.ToLower(raw) {
	case "true", "yes", "t", "y":
		return true, true
	case "false", "no", "f", "n":
		return false, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return false, false
	}
	return v != 0, true
}

// ParamConfig is the resolved per-parameter test configuration, built once
// from station metadata with documented defaults filling the gaps. HasRange
// and HasRoc record whether the feasible-range and rate-of-change tests have
// sufficient metadata to run at all.
type ParamConfig struct {
	Param string `validate:"required"`

	NumStdevs float64 `validate:"gt=0"`

	FlatSuspectRun int     `validate:"gte=2"`
	FlatFailRun    int     `validate:"gte=2,gtefield=FlatSuspectRun"`
	FlatEps        float64 `validate:"gt=0"`

	HasRange      bool
	RangeMin      float64
	RangeMax      float64
	RangeCritical bool

	HasRoc     bool
	RocDelta   float64
	RocAngular bool
}

// BindParamConfig resolves the configuration for one parameter from station
// metadata. Absent keys fall back to the engine defaults with a logged
// notice; the feasible-range test requires min, max and critical to be
// present simultaneously or it is disabled for the parameter. Invalid run
// lengths are clamped to the smallest valid value.
func BindParamConfig(param string, meta StationMetadata, defaults Settings, logger *slog.Logger) (ParamConfig, error) {
	if logger == nil {
		logger = slog.Default()
	}
	scoped := meta.ForParameter(param)

	cfg := ParamConfig{
		Param:          param,
		NumStdevs:      defaults.NumStdevs,
		FlatSuspectRun: defaults.FlatSuspectRun,
		FlatFailRun:    defaults.FlatFailRun,
		FlatEps:        defaults.FlatEps,
		RocAngular:     strings.Contains(param, "dir"),
	}

	if v, ok := scoped.Int(param + "_flatsuspect"); ok {
		cfg.FlatSuspectRun = v
	} else {
		logger.Warn("station metadata missing suspect flatline run, using default",
			slog.String("parameter", param),
			slog.Int("default", defaults.FlatSuspectRun))
	}
	if v, ok := scoped.Int(param + "_flatfail"); ok {
		cfg.FlatFailRun = v
	} else {
		logger.Warn("station metadata missing fail flatline run, using default",
			slog.String("parameter", param),
			slog.Int("default", defaults.FlatFailRun))
	}

	// Run lengths below 2 cannot describe a flatline; clamp rather than fail.
	if cfg.FlatSuspectRun < 2 {
		logger.Warn("suspect flatline run below minimum, clamping to 2",
			slog.String("parameter", param),
			slog.Int("configured", cfg.FlatSuspectRun))
		cfg.FlatSuspectRun = 2
	}
	if cfg.FlatFailRun < cfg.FlatSuspectRun {
		logger.Warn("fail flatline run below suspect run, clamping",
			slog.String("parameter", param),
			slog.Int("configured", cfg.FlatFailRun),
			slog.Int("clamped", cfg.FlatSuspectRun))
		cfg.FlatFailRun = cfg.FlatSuspectRun
	}

	minValue, hasMin := scoped.Float(param + "_min")
	maxValue, hasMax := scoped.Float(param + "_max")
	critical, hasCritical := scoped.Bool(param + "_critical")
	if hasMin && hasMax && hasCritical {
		cfg.HasRange = true
		cfg.RangeMin = minValue
		cfg.RangeMax = maxValue
		cfg.RangeCritical = critical
	} else {
		logger.Warn("insufficient station metadata for feasible-range test, skipping",
			slog.String("parameter", param),
			slog.Bool("has_min", hasMin),
			slog.Bool("has_max", hasMax),
			slog.Bool("has_critical", hasCritical))
	}

	if delta, ok := scoped.Float(param + "_roc"); ok {
		cfg.HasRoc = true
		cfg.RocDelta = delta
	} else {
		logger.Warn("insufficient station metadata for rate-of-change test, skipping",
			slog.String("parameter", param))
	}

	if err := validate.Struct(cfg); err != nil {
		return ParamConfig{}, fmt.Errorf("bind config for %s: %w", param, err)
	}

	return cfg, nil
}
