package config

import (
	"os"

	"github.com/san-kum/trussim/internal/matrix"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDataDir    = ".trussim"
	DefaultFormat     = "text"
	DefaultPrecision  = 6
	DefaultPlotHeight = 12
	DefaultPlotWidth  = 60
	DefaultSVGScale   = 50.0
	DefaultWorkers    = 4
)

type Config struct {
	DataDir string       `yaml:"data_dir"`
	Solver  SolverConfig `yaml:"solver"`
	Output  OutputConfig `yaml:"output"`
}

type SolverConfig struct {
	PivotTolerance float64 `yaml:"pivot_tolerance"`
	Workers        int     `yaml:"workers"`
}

type OutputConfig struct {
	Format     string  `yaml:"format"` // text or json
	Precision  int     `yaml:"precision"`
	PlotHeight int     `yaml:"plot_height"`
	PlotWidth  int     `yaml:"plot_width"`
	SVGScale   float64 `yaml:"svg_scale"`
	Magnify    float64 `yaml:"magnify"` // 0 = auto
}

func DefaultConfig() *Config {
	return &Config{
		DataDir: DefaultDataDir,
		Solver: SolverConfig{
			PivotTolerance: matrix.DefaultTolerance,
			Workers:        DefaultWorkers,
		},
		Output: OutputConfig{
			Format:     DefaultFormat,
			Precision:  DefaultPrecision,
			PlotHeight: DefaultPlotHeight,
			PlotWidth:  DefaultPlotWidth,
			SVGScale:   DefaultSVGScale,
		},
	}
}

// Load reads a YAML config; fields absent from the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
