/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package gridstore

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables consulted by FromEnv.
const (
	EnvAccessKey = "GRIDSTORE_API_KEY"
	EnvBaseID    = "GRIDSTORE_BASE_ID"
	EnvTable     = "GRIDSTORE_TABLE_NAME"
)

// FromEnv builds Options from the environment, loading a .env file
// first when one is present. Unset variables leave their fields empty;
// validation happens at call time, not here.
func FromEnv() Options {
	_ = godotenv.Load()
	o := Options{
		AccessKey: os.Getenv(EnvAccessKey),
		BaseID:    os.Getenv(EnvBaseID),
		Table:     os.Getenv(EnvTable),
	}
	applyDefaults(&o)
	return o
}

// fileOptions is the YAML shape of a gridstore configuration file.
type fileOptions struct {
	AccessKey         string `yaml:"accessKey"`
	BaseID            string `yaml:"baseID"`
	Table             string `yaml:"table"`
	KeyCasing         string `yaml:"keyCasing"` // "asis" (default) or "camel"
	Shape             string `yaml:"shape"`     // "plain" (default) or "rich"
	Typecast          bool   `yaml:"typecast"`
	Concurrency       int    `yaml:"concurrency"`
	RequestsPerSecond int    `yaml:"requestsPerSecond"`
}

// LoadOptions reads Options from a YAML configuration file.
func LoadOptions(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("failed to read config file: %w", err)
	}

	var f fileOptions
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Options{}, fmt.Errorf("failed to parse config: %w", err)
	}

	o := Options{
		AccessKey:         f.AccessKey,
		BaseID:            f.BaseID,
		Table:             f.Table,
		Typecast:          f.Typecast,
		Concurrency:       f.Concurrency,
		RequestsPerSecond: f.RequestsPerSecond,
	}

	switch f.KeyCasing {
	case "", "asis":
		o.KeyCasing = KeyCasingAsIs
	case "camel":
		o.KeyCasing = KeyCasingCamel
	default:
		return Options{}, fmt.Errorf("invalid config: unknown keyCasing %q", f.KeyCasing)
	}

	switch f.Shape {
	case "", "plain":
		o.Shape = ShapePlain
	case "rich":
		o.Shape = ShapeRich
	default:
		return Options{}, fmt.Errorf("invalid config: unknown shape %q", f.Shape)
	}

	applyDefaults(&o)
	return o, nil
}
