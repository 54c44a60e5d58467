package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/marcuscaisey/puml/puml/preview"
)

const (
	configFileName = "pumlls"
	envPrefix      = "PUMLLS"
)

// config holds the configuration of every command.
// Priority: flags > env vars > config file > defaults
type config struct {
	// Server is the PlantUML server which renders previews.
	Server  string        `mapstructure:"server"`
	Log     logConfig     `mapstructure:"log"`
	Preview previewConfig `mapstructure:"preview"`
}

type logConfig struct {
	Level string `mapstructure:"level"`
}

type previewConfig struct {
	// Addr is the address which pumlls preview serves on.
	Addr string `mapstructure:"addr"`
}

// loadConfig loads the configuration into v from cfgFile, or from pumlls.yaml in the user config directory or the
// current directory if cfgFile is empty.
func loadConfig(v *viper.Viper, cfgFile string) (*config, error) {
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "pumlls"))
		}
		v.AddConfigPath(".")
		v.SetConfigName(configFileName)
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(err, &notFoundErr) {
			return nil, fmt.Errorf("loading config: reading %s: %s", v.ConfigFileUsed(), err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("loading config: %s", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server", preview.DefaultServer)
	v.SetDefault("log.level", "info")
	v.SetDefault("preview.addr", "localhost:8123")
}
