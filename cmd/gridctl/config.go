package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/goliatone/go-datagrid/components/grid"
)

const (
	configFileName = "gridctl"
	configFileType = "yaml"
	envPrefix      = "GRIDCTL"

	cfgKeyLocale    = "locale"
	cfgKeyPageSize  = "page_size"
	cfgKeyDatabase  = "database"
	cfgKeyManifests = "manifests"
)

// settings is the resolved configuration: flags, then environment, then the
// config file, then defaults.
type settings struct {
	Locale    string
	PageSize  int
	Database  string
	Manifests []string
}

func newViper(path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeyLocale, grid.DefaultLocale)
	v.SetDefault(cfgKeyPageSize, grid.DefaultPageSize)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("gridctl: read config %s: %w", path, err)
		}
		return v, nil
	}

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("gridctl: read config: %w", err)
	}
	return v, nil
}

func loadSettings(g *Globals) (settings, error) {
	v, err := newViper(g.Config)
	if err != nil {
		return settings{}, err
	}
	cfg := settings{
		Locale:    v.GetString(cfgKeyLocale),
		PageSize:  v.GetInt(cfgKeyPageSize),
		Database:  v.GetString(cfgKeyDatabase),
		Manifests: v.GetStringSlice(cfgKeyManifests),
	}
	if g.Locale != "" {
		cfg.Locale = g.Locale
	}
	if g.PageSize > 0 {
		cfg.PageSize = g.PageSize
	}
	if g.Database != "" {
		cfg.Database = g.Database
	}
	if len(g.Manifest) > 0 {
		cfg.Manifests = append(cfg.Manifests, g.Manifest...)
	}
	if cfg.PageSize <= 0 {
		return settings{}, fmt.Errorf("gridctl: page size must be positive, got %d", cfg.PageSize)
	}
	return cfg, nil
}
