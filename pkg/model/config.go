package model

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// validate is a singleton validator instance
var validate = validator.New()

// LayerConfig configures one message-passing layer
type LayerConfig struct {
	InDim      int    `yaml:"in_dim" validate:"required,min=1"`
	OutDim     int    `yaml:"out_dim" validate:"required,min=1"`
	Activation string `yaml:"activation" validate:"required,oneof=relu identity leaky_relu"`
}

// HeadConfig configures the fully connected classification head
type HeadConfig struct {
	HiddenDim int `yaml:"hidden_dim" validate:"required,min=1"`
	NClasses  int `yaml:"n_classes" validate:"required,min=1"`
}

// Config is the full classifier configuration
type Config struct {
	// FeatureWidth is the one-hot identity block width F. The readout
	// takes the first F-1 nodes as fixed head positions.
	FeatureWidth int         `yaml:"feature_width" validate:"required,min=2"`
	BiGCN        LayerConfig `yaml:"bigcn"`
	GAT          LayerConfig `yaml:"gat"`
	Head         HeadConfig  `yaml:"head"`
}

// DefaultConfig returns the reference configuration: F=8 one-hot
// features, 16-wide hidden embeddings, a binary head
func DefaultConfig() Config {
	return Config{
		FeatureWidth: 8,
		BiGCN:        LayerConfig{InDim: 8, OutDim: 16, Activation: "relu"},
		GAT:          LayerConfig{InDim: 16, OutDim: 16, Activation: "relu"},
		Head:         HeadConfig{HiddenDim: 32, NClasses: 1},
	}
}

// Validate checks struct tags plus the cross-layer width contract:
// the BiGCN consumes the one-hot features and the GAT consumes the
// BiGCN output.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			f := verrs[0]
			return fmt.Errorf("%w: field %s failed %q", ErrConfigInvalid, f.Namespace(), f.Tag())
		}
		return fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}
	if c.BiGCN.InDim != c.FeatureWidth {
		return fmt.Errorf("%w: bigcn.in_dim %d must equal feature_width %d",
			ErrConfigInvalid, c.BiGCN.InDim, c.FeatureWidth)
	}
	if c.GAT.InDim != c.BiGCN.OutDim {
		return fmt.Errorf("%w: gat.in_dim %d must equal bigcn.out_dim %d",
			ErrConfigInvalid, c.GAT.InDim, c.BiGCN.OutDim)
	}
	return nil
}

// ReadoutWidth returns the fixed flat embedding width produced by the
// readout: F-1 head nodes plus mean and max pools, each GAT.OutDim
// wide.
func (c Config) ReadoutWidth() int {
	return (c.FeatureWidth + 1) * c.GAT.OutDim
}

// LoadConfig reads and validates a YAML model configuration
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
