package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/brunobiangulo/doctext"
)

// loadConfig builds a doctext.Config from defaults, the optional YAML file at
// path, a .env file in the working directory and DOCTEXT_* variables.
func loadConfig(path string) (doctext.Config, error) {
	// .env never overrides variables that are already set.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return doctext.Config{}, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")

	def := doctext.DefaultConfig()
	v.SetDefault("pdf_password", def.PDFPassword)
	v.SetDefault("log_level", def.LogLevel)

	v.SetEnvPrefix("DOCTEXT")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return doctext.Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg doctext.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return doctext.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}
