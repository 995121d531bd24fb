package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/banshee-data/seqstats/internal/blast"
	"github.com/banshee-data/seqstats/internal/contig"
)

// DefaultConfigPath is the path to the canonical defaults file.
const DefaultConfigPath = "config/seqstats.defaults.json"

// Config is the root configuration shared by blast-summary and
// contig-analysis. Fields are pointers so a partial file leaves the rest
// at their defaults; the Get* methods supply those defaults.
type Config struct {
	// Alignment batch
	TableExt  *string `json:"table_ext,omitempty"`  // e.g. ".csv"
	RecordExt *string `json:"record_ext,omitempty"` // e.g. ".fa"
	Separator *string `json:"separator,omitempty"`  // "," or "tab"
	CSVOut    *string `json:"csv_out,omitempty"`
	DBPath    *string `json:"db_path,omitempty"`
	Totals    *bool   `json:"totals,omitempty"`

	// Contiguity
	Denominator   *int          `json:"denominator,omitempty"` // 0 = record count
	DensityPoints *int          `json:"density_points,omitempty"`
	Bands         []contig.Band `json:"bands,omitempty"`
	Assembly      *bool         `json:"assembly,omitempty"`
}

// Helper functions to create pointers
func ptrString(v string) *string { return &v }
func ptrBool(v bool) *bool       { return &v }
func ptrInt(v int) *int          { return &v }

// Empty returns a Config with every field unset.
func Empty() *Config {
	return &Config{}
}

// Resolved returns a copy of c with every unset field filled with its
// default, as the tools will see it.
func (c *Config) Resolved() *Config {
	return &Config{
		TableExt:      ptrString(c.GetTableExt()),
		RecordExt:     ptrString(c.GetRecordExt()),
		Separator:     ptrString(c.GetSeparator()),
		CSVOut:        ptrString(c.GetCSVOut()),
		DBPath:        ptrString(c.GetDBPath()),
		Totals:        ptrBool(c.GetTotals()),
		Denominator:   ptrInt(c.GetDenominator()),
		DensityPoints: ptrInt(c.GetDensityPoints()),
		Bands:         c.GetBands(),
		Assembly:      ptrBool(c.GetAssembly()),
	}
}

// Load loads a Config from a JSON file. The file must have a .json
// extension and be under 1MB. Omitted fields keep their defaults.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Empty()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault loads path when it is non-empty and returns an empty
// Config (all defaults) otherwise.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Empty(), nil
	}
	return Load(path)
}

// Validate checks that set values are usable.
func (c *Config) Validate() error {
	if c.TableExt != nil && *c.TableExt == "" {
		return fmt.Errorf("table_ext must not be empty")
	}
	if c.RecordExt != nil && *c.RecordExt == "" {
		return fmt.Errorf("record_ext must not be empty")
	}
	if c.TableExt != nil && c.RecordExt != nil && *c.TableExt == *c.RecordExt {
		return fmt.Errorf("table_ext and record_ext must differ, both are %q", *c.TableExt)
	}
	if c.Separator != nil {
		if _, err := blast.ParseComma(*c.Separator); err != nil {
			return fmt.Errorf("separator: %w", err)
		}
	}
	if c.Denominator != nil && *c.Denominator < 0 {
		return fmt.Errorf("denominator must be non-negative, got %d", *c.Denominator)
	}
	if c.DensityPoints != nil && *c.DensityPoints < 2 {
		return fmt.Errorf("density_points must be at least 2, got %d", *c.DensityPoints)
	}
	for _, b := range c.Bands {
		if err := b.Validate(); err != nil {
			return fmt.Errorf("bands: %w", err)
		}
	}
	return nil
}

// GetTableExt returns the table_ext value or the default.
func (c *Config) GetTableExt() string {
	if c.TableExt == nil {
		return ".csv"
	}
	return *c.TableExt
}

// GetRecordExt returns the record_ext value or the default.
func (c *Config) GetRecordExt() string {
	if c.RecordExt == nil {
		return ".fa"
	}
	return *c.RecordExt
}

// GetSeparator returns the separator value or the default.
func (c *Config) GetSeparator() string {
	if c.Separator == nil {
		return ","
	}
	return *c.Separator
}

// GetComma returns the separator as a rune. Validate has already rejected
// unusable values, so a parse failure falls back to ','.
func (c *Config) GetComma() rune {
	r, err := blast.ParseComma(c.GetSeparator())
	if err != nil {
		return ','
	}
	return r
}

// GetCSVOut returns the csv_out value or the default (disabled).
func (c *Config) GetCSVOut() string {
	if c.CSVOut == nil {
		return ""
	}
	return *c.CSVOut
}

// GetDBPath returns the db_path value or the default (disabled).
func (c *Config) GetDBPath() string {
	if c.DBPath == nil {
		return ""
	}
	return *c.DBPath
}

// GetTotals returns the totals value or the default.
func (c *Config) GetTotals() bool {
	if c.Totals == nil {
		return false
	}
	return *c.Totals
}

// GetDenominator returns the denominator value or the default.
func (c *Config) GetDenominator() int {
	if c.Denominator == nil {
		return 0 // use the record count
	}
	return *c.Denominator
}

// GetDensityPoints returns the density_points value or the default.
func (c *Config) GetDensityPoints() int {
	if c.DensityPoints == nil {
		return 512
	}
	return *c.DensityPoints
}

// GetBands returns the configured bands or contig.DefaultBands.
func (c *Config) GetBands() []contig.Band {
	if len(c.Bands) == 0 {
		return contig.DefaultBands()
	}
	return append([]contig.Band(nil), c.Bands...)
}

// GetAssembly returns the assembly value or the default.
func (c *Config) GetAssembly() bool {
	if c.Assembly == nil {
		return false
	}
	return *c.Assembly
}
