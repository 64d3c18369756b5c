package internal

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"github.com/doclab/slipway/internal/paths"
)

const (

	// Default containerd socket address.
	DefaultContainerdAddress = "/run/containerd/containerd.sock"

	// Default containerd namespace for images and containers.
	DefaultContainerdNamespace = "slipway"

	// Default directory for exported images, relative to the build root.
	DefaultOutput = "dist"

	configFileName = "config"
	configFileType = "yaml"
	envPrefix      = "SLIPWAY"

	// Config keys.
	cfgKeyContainerdAddress   = "containerd_address"
	cfgKeyContainerdNamespace = "containerd_namespace"
	cfgKeyOutput              = "output"
)

// Tool configuration resolved from the config file and environment.
type Config struct {
	ContainerdAddress   string // Containerd socket address.
	ContainerdNamespace string // Containerd namespace for images and containers.
	Output              string // Default directory for exported images.
}

// Loads configuration from config.yaml in the config directory.
//
// Defaults apply when the file is missing or a key is unset. Every key can
// be overridden through the environment with a SLIPWAY_ prefix (e.g.
// SLIPWAY_CONTAINERD_ADDRESS). A missing config file is not an error.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetDefault(cfgKeyContainerdAddress, DefaultContainerdAddress)
	v.SetDefault(cfgKeyContainerdNamespace, DefaultContainerdNamespace)
	v.SetDefault(cfgKeyOutput, DefaultOutput)

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(paths.Config())

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	return &Config{
		ContainerdAddress:   v.GetString(cfgKeyContainerdAddress),
		ContainerdNamespace: v.GetString(cfgKeyContainerdNamespace),
		Output:              v.GetString(cfgKeyOutput),
	}, nil
}
