package segmenter

import "fmt"

type Configuration struct {
	MaxEvents                    int     `json:"max_events"`
	Skip                         int     `json:"skip"`
	Verbosity                    int     `json:"verbosity"`
	FileIn                       string  `json:"file_in"`
	FileOut                      string  `json:"file_out"`
	WriteData                    bool    `json:"write_data"`
	NoDB                         bool    `json:"no_db"`
	DBDriver                     string  `json:"db_driver"`
	DBPath                       string  `json:"db_path"`
	Host                         string  `json:"host"`
	User                         string  `json:"user"`
	Passwd                       string  `json:"pass"`
	DBName                       string  `json:"dbname"`
	RunNumber                    int     `json:"run_number"`
	CatalogSource                string  `json:"catalog_source"`
	NumWorkers                   int     `json:"num_workers"`
	Parallel                     bool    `json:"parallel"`
	CompressionLevel             int     `json:"compression_level"`
	SaveMultipleDigitsPerTrigger bool    `json:"save_multiple_digits_per_trigger"`
	SaveOnlyFailedDigits         bool    `json:"save_only_failed_digits"`
	TriggerOffset                float64 `json:"trigger_offset"`
	HasOD                        bool    `json:"has_od"`
	IDNPMTs                      int     `json:"id_npmts"`
	ODNPMTs                      int     `json:"od_npmts"`
	MetricsFile                  string  `json:"metrics_file"`
}

const (
	CatalogFromFile = "file"
	CatalogFromDB   = "db"
)

func DefaultConfiguration() Configuration {
	return Configuration{
		MaxEvents:                    1000000000,
		Skip:                         0,
		Verbosity:                    0,
		WriteData:                    true,
		NoDB:                         false,
		DBDriver:                     "mysql",
		Host:                         "localhost",
		User:                         "reader",
		Passwd:                       "readonly",
		DBName:                       "TRIGGERS",
		CatalogSource:                CatalogFromFile,
		NumWorkers:                   1,
		Parallel:                     false,
		CompressionLevel:             4,
		SaveMultipleDigitsPerTrigger: true,
		SaveOnlyFailedDigits:         false,
		TriggerOffset:                0,
	}
}

// Validate checks the settings the pipeline cannot run without.
func (c Configuration) Validate() error {
	if c.FileIn == "" {
		return fmt.Errorf("file_in not set: %w", ErrMissingOutput)
	}
	if c.WriteData && c.FileOut == "" {
		return fmt.Errorf("file_out not set: %w", ErrMissingOutput)
	}
	switch c.CatalogSource {
	case CatalogFromFile:
	case CatalogFromDB:
		if c.NoDB {
			return fmt.Errorf("catalog_source %q requires a database", c.CatalogSource)
		}
	default:
		return fmt.Errorf("invalid catalog_source: %s", c.CatalogSource)
	}
	if c.CompressionLevel < 0 || c.CompressionLevel > 9 {
		return fmt.Errorf("invalid compression_level: %d", c.CompressionLevel)
	}
	return nil
}

func (c Configuration) Options() Options {
	return Options{
		SaveMultipleDigitsPerTrigger: c.SaveMultipleDigitsPerTrigger,
		SaveOnlyFailedDigits:         c.SaveOnlyFailedDigits,
		TriggerOffset:                NewTimeDeltaNs(c.TriggerOffset),
		Verbosity:                    c.Verbosity,
	}
}

// Geometry returns the detector geometry given in the configuration, used
// when running without a database.
func (c Configuration) Geometry() Geometry {
	return Geometry{
		IDNPMTs: c.IDNPMTs,
		ODNPMTs: c.ODNPMTs,
		HasOD:   c.HasOD,
	}
}
