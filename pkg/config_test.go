package segmenter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfiguration() Configuration {
	config := DefaultConfiguration()
	config.FileIn = "events.jsonl"
	config.FileOut = "events.h5"
	return config
}

func TestValidate(t *testing.T) {
	assert.NoError(t, validConfiguration().Validate())

	config := validConfiguration()
	config.FileIn = ""
	assert.True(t, errors.Is(config.Validate(), ErrMissingOutput))

	config = validConfiguration()
	config.FileOut = ""
	assert.True(t, errors.Is(config.Validate(), ErrMissingOutput))
	config.WriteData = false
	assert.NoError(t, config.Validate())

	config = validConfiguration()
	config.CatalogSource = CatalogFromDB
	assert.NoError(t, config.Validate())
	config.NoDB = true
	assert.ErrorContains(t, config.Validate(), "requires a database")

	config = validConfiguration()
	config.CatalogSource = "ftp"
	assert.ErrorContains(t, config.Validate(), "invalid catalog_source")

	config = validConfiguration()
	config.CompressionLevel = 10
	assert.ErrorContains(t, config.Validate(), "invalid compression_level")
}

func TestConfigurationOptions(t *testing.T) {
	config := validConfiguration()
	config.TriggerOffset = 950.5
	config.SaveMultipleDigitsPerTrigger = false
	config.Verbosity = 2
	assert.Equal(t, Options{
		SaveMultipleDigitsPerTrigger: false,
		TriggerOffset:                NewTimeDeltaNs(950.5),
		Verbosity:                    2,
	}, config.Options())

	config.IDNPMTs = 100
	config.ODNPMTs = 20
	config.HasOD = true
	assert.Equal(t, Geometry{IDNPMTs: 100, ODNPMTs: 20, HasOD: true}, config.Geometry())
}
