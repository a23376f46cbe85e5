package minext

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds the directory conventions shared by the tools.
type Config struct {
	// InputDir holds the plain-text instances.
	InputDir string `yaml:"input_dir"`
	// OutputDir receives the generated data files.
	OutputDir string `yaml:"output_dir"`
	// Skip lists file names the converter never touches.
	Skip []string `yaml:"skip"`

	InstanceExt string `yaml:"instance_ext"`
	DznExt      string `yaml:"dzn_ext"`
	// OutputExt is the extension of saved solver transcripts.
	OutputExt string `yaml:"output_ext"`
}

func DefaultConfig() Config {
	return Config{
		InputDir:    "DatosProyecto",
		OutputDir:   "DatosDZN",
		Skip:        []string{"enunciado.txt"},
		InstanceExt: ".txt",
		DznExt:      ".dzn",
		OutputExt:   ".out",
	}
}

// LoadConfig overlays the YAML file at path on DefaultConfig. An empty path
// returns the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "reading config %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parsing config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Validate checks that every extension is usable.
func (c Config) Validate() error {
	for name, ext := range map[string]string{
		"instance_ext": c.InstanceExt,
		"dzn_ext":      c.DznExt,
		"output_ext":   c.OutputExt,
	} {
		if ext == "" || ext[0] != '.' {
			return errors.Errorf("%s must start with a dot, got %q", name, ext)
		}
	}
	if c.InstanceExt == c.DznExt {
		return errors.Errorf("instance_ext and dzn_ext are both %q", c.DznExt)
	}
	return nil
}
