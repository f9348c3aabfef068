package main

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	segmenter "github.com/next-exp/segmenter_go/pkg"
)

const envPrefix = "SEGMENTER_"

// LoadConfiguration layers, from lowest to highest precedence, the default
// values, the configuration file (JSON or YAML) and SEGMENTER_* environment
// variables, e.g. SEGMENTER_FILE_OUT.
func LoadConfiguration(filename string) (segmenter.Configuration, error) {
	config := segmenter.DefaultConfiguration()
	k := koanf.New(".")

	if filename != "" {
		// JSON is a subset of YAML, one parser covers both
		if err := k.Load(file.Provider(filename), yaml.Parser()); err != nil {
			return config, fmt.Errorf("error reading configuration file %s: %w", filename, err)
		}
	}

	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return config, fmt.Errorf("error reading environment: %w", err)
	}

	if err := k.UnmarshalWithConf("", &config, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return config, fmt.Errorf("error decoding configuration: %w", err)
	}
	return config, nil
}

func printConfiguration(config segmenter.Configuration, logger Logger) {
	logger.Info(fmt.Sprintf("File in: %s", config.FileIn), "config")
	logger.Info(fmt.Sprintf("File out: %s", config.FileOut), "config")
	logger.Info(fmt.Sprintf("Write data: %t", config.WriteData), "config")
	logger.Info(fmt.Sprintf("No DB: %t", config.NoDB), "config")
	logger.Info(fmt.Sprintf("DB driver: %s", config.DBDriver), "config")
	if config.DBDriver == "sqlite" {
		logger.Info(fmt.Sprintf("DB path: %s", config.DBPath), "config")
	} else {
		logger.Info(fmt.Sprintf("Host: %s", config.Host), "config")
		logger.Info(fmt.Sprintf("DB name: %s", config.DBName), "config")
	}
	logger.Info(fmt.Sprintf("Run number: %d", config.RunNumber), "config")
	logger.Info(fmt.Sprintf("Catalog source: %s", config.CatalogSource), "config")
	logger.Info(fmt.Sprintf("Skip: %d", config.Skip), "config")
	logger.Info(fmt.Sprintf("Max events: %d", config.MaxEvents), "config")
	logger.Info(fmt.Sprintf("Verbosity: %d", config.Verbosity), "config")
	logger.Info(fmt.Sprintf("Save multiple digits per trigger: %t", config.SaveMultipleDigitsPerTrigger), "config")
	logger.Info(fmt.Sprintf("Save only failed digits: %t", config.SaveOnlyFailedDigits), "config")
	logger.Info(fmt.Sprintf("Trigger offset: %g ns", config.TriggerOffset), "config")
	logger.Info(fmt.Sprintf("Compression level: %d", config.CompressionLevel), "config")
	logger.Info(fmt.Sprintf("Number of workers: %d", config.NumWorkers), "config")
	logger.Info(fmt.Sprintf("Parallel: %t", config.Parallel), "config")
	if config.MetricsFile != "" {
		logger.Info(fmt.Sprintf("Metrics file: %s", config.MetricsFile), "config")
	}
}
