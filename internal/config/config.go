package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	DataDir         string         `yaml:"data_dir,omitempty"`
	Port            int            `yaml:"port,omitempty"`
	CORSOrigins     []string       `yaml:"cors_origins,omitempty"`
	BaselineYear    int            `yaml:"baseline_year,omitempty"`     // First year with vehicle data (fallback: 2019)
	FiscalYearCap   int            `yaml:"fiscal_year_cap,omitempty"`   // Exclude incomplete fiscal years at or above this
	FiscalYearFloor int            `yaml:"fiscal_year_floor,omitempty"` // Exclude partial data before this
	Files           FileConfig     `yaml:"files,omitempty"`
	Solar           SolarConfig    `yaml:"solar,omitempty"`
	HeatPumps       HeatPumpConfig `yaml:"heat_pumps,omitempty"`
	Vehicles        VehicleConfig  `yaml:"vehicles,omitempty"`
}

// FileConfig overrides individual dataset file names inside the data dir
type FileConfig struct {
	MunicipalEnergy string `yaml:"municipal_energy,omitempty"`
	VehicleCensus   string `yaml:"vehicle_census,omitempty"`
	VehicleFactors  string `yaml:"vehicle_factors,omitempty"`
	EmissionFactors string `yaml:"emission_factors,omitempty"`
	Participation   string `yaml:"clc_participation,omitempty"`
	CLCCensus       string `yaml:"clc_census,omitempty"`
	HeatPumps       string `yaml:"heat_pumps,omitempty"`
	Solar           string `yaml:"solar,omitempty"`
	Assessors       string `yaml:"assessors,omitempty"`
}

// SolarConfig holds solar generation assumptions
type SolarConfig struct {
	CapacityFactorMWhPerKW float64 `yaml:"capacity_factor_mwh_per_kw,omitempty"` // Annual MWh per kW DC
}

// HeatPumpConfig holds heat-pump displacement assumptions
type HeatPumpConfig struct {
	PropaneGallonsPerConversion float64 `yaml:"propane_gallons_per_conversion,omitempty"` // Annual gallons displaced per converted property
}

// VehicleConfig holds fleet comparison assumptions
type VehicleConfig struct {
	BaselineType string `yaml:"baseline_type,omitempty"` // Gasoline type EVs are compared against
}

// Load reads the config file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Return defaults if file doesn't exist
			return withDefaults(&Config{}), nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return withDefaults(&cfg), nil
}

// Save writes the config to file
func Save(configPath string, cfg *Config) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// DefaultConfigPath returns the default config file path (local directory)
func DefaultConfigPath() string {
	return "config.yaml"
}

func withDefaults(cfg *Config) *Config {
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	if cfg.Port <= 0 {
		cfg.Port = 8080
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}
	if cfg.BaselineYear <= 0 {
		cfg.BaselineYear = 2019
	}
	if cfg.FiscalYearFloor <= 0 {
		cfg.FiscalYearFloor = 2009
	}
	if cfg.Solar.CapacityFactorMWhPerKW <= 0 {
		cfg.Solar.CapacityFactorMWhPerKW = 1.2
	}
	if cfg.HeatPumps.PropaneGallonsPerConversion <= 0 {
		cfg.HeatPumps.PropaneGallonsPerConversion = 310
	}
	if cfg.Vehicles.BaselineType == "" {
		cfg.Vehicles.BaselineType = "Passenger"
	}

	if cfg.Files.MunicipalEnergy == "" {
		cfg.Files.MunicipalEnergy = "municipal_energy.csv"
	}
	if cfg.Files.VehicleCensus == "" {
		cfg.Files.VehicleCensus = "vehicle_census.csv"
	}
	if cfg.Files.VehicleFactors == "" {
		cfg.Files.VehicleFactors = "vehicle_factors.csv"
	}
	if cfg.Files.EmissionFactors == "" {
		cfg.Files.EmissionFactors = "emission_factors.csv"
	}
	if cfg.Files.Participation == "" {
		cfg.Files.Participation = "clc_participation.csv"
	}
	if cfg.Files.CLCCensus == "" {
		cfg.Files.CLCCensus = "clc_census.csv"
	}
	if cfg.Files.HeatPumps == "" {
		cfg.Files.HeatPumps = "heat_pumps.csv"
	}
	if cfg.Files.Solar == "" {
		cfg.Files.Solar = "solar.csv"
	}
	if cfg.Files.Assessors == "" {
		cfg.Files.Assessors = "assessors.xlsx"
	}
	return cfg
}

// Path resolves a dataset file name against the data dir
func (c *Config) Path(name string) string {
	return filepath.Join(c.DataDir, name)
}
