package main

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	sqlx "github.com/jmoiron/sqlx"
	segmenter "github.com/next-exp/segmenter_go/pkg"
	"github.com/next-exp/segmenter_go/pkg/writer"
)

func run(configuration segmenter.Configuration) error {
	start := time.Now()
	VerbosityLevel = configuration.Verbosity
	if VerbosityLevel > 0 {
		printConfiguration(configuration, logger)
	}
	if err := configuration.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	var dbConn *sqlx.DB
	geometry := configuration.Geometry()
	if !configuration.NoDB {
		var err error
		dbConn, err = segmenter.OpenDatabase(configuration)
		if err != nil {
			return fmt.Errorf("error connecting to database: %w", err)
		}
		defer dbConn.Close()

		geometry, err = segmenter.LoadDetectorGeometry(dbConn, configuration.RunNumber, VerbosityLevel)
		if err != nil {
			return fmt.Errorf("error loading detector geometry: %w", err)
		}
	}
	verboseInfo("Geometry: %d ID PMTs, %d OD PMTs, OD present: %t", geometry.IDNPMTs, geometry.ODNPMTs, geometry.HasOD)

	file, err := os.Open(configuration.FileIn)
	if err != nil {
		return &segmenter.ErrOpenFile{Filename: configuration.FileIn, Err: err}
	}
	defer file.Close()

	if VerbosityLevel > 0 {
		evtCount, err := segmenter.CountEvents(file)
		if err != nil {
			return fmt.Errorf("error counting events: %w", err)
		}
		verboseInfo("Number of events: %d", evtCount)
		if _, err := file.Seek(0, 0); err != nil {
			return fmt.Errorf("error rewinding %s: %w", configuration.FileIn, err)
		}
	}
	reader := segmenter.NewEventReader(file, configuration.FileIn, configuration.Skip, configuration.MaxEvents)

	productionID := uuid.New()
	verboseInfo("Production ID: %s", productionID)

	var out *writer.Writer
	if configuration.WriteData {
		out, err = writer.NewWriter(configuration.FileOut, writer.Options{
			CompressionLevel: configuration.CompressionLevel,
			RunNumber:        configuration.RunNumber,
			ProductionID:     productionID,
		})
		if err != nil {
			return fmt.Errorf("error creating output file: %w", err)
		}
	}

	metrics := segmenter.NewMetrics()
	summary := &segmenter.RunSummary{}
	opts := configuration.Options()

	next := func() (*segmenter.RawEvent, error) {
		raw, err := reader.Next()
		if err != nil {
			return nil, err
		}
		if !geometry.HasOD && raw.OD != nil {
			if VerbosityLevel > 1 {
				logger.Info(fmt.Sprintf("Ignoring OD readout of event %d", raw.EventNumber), "main")
			}
			raw.OD = nil
		}
		if configuration.CatalogSource == segmenter.CatalogFromDB {
			if err := segmenter.LoadEventCatalogs(dbConn, configuration.RunNumber, raw); err != nil {
				return nil, fmt.Errorf("error loading trigger windows of event %d: %w", raw.SourceEventNumber, err)
			}
		}
		return raw, nil
	}

	handle := func(res WorkerResult) error {
		if res.Err != nil {
			logger.Error(res.Err.Error())
			logger.Error(fmt.Sprintf("discarding event %d", res.Raw.EventNumber))
			return nil
		}
		summary.Add(res.Raw, res.Result)
		if out == nil {
			return nil
		}
		if err := out.WriteEvent(segmenter.Flatten(res.Raw)); err != nil {
			return fmt.Errorf("error writing event %d: %w", res.Raw.EventNumber, err)
		}
		return nil
	}

	numWorkers := 1
	if configuration.Parallel {
		numWorkers = configuration.NumWorkers
	}
	newSegmenter := func() *segmenter.Segmenter {
		return segmenter.NewSegmenter(opts, geometry, metrics)
	}
	runErr := processEvents(next, numWorkers, newSegmenter, handle)

	if out != nil {
		if err := out.Close(); err != nil {
			logger.Error(fmt.Errorf("error closing output file: %w", err).Error())
			if runErr == nil {
				runErr = err
			}
		}
	}
	if configuration.MetricsFile != "" {
		if err := metrics.WriteToTextfile(configuration.MetricsFile); err != nil {
			logger.Error(fmt.Errorf("error writing metrics: %w", err).Error())
		}
	}

	logger.Info(summary.Report().String(), "main")
	logger.Info(fmt.Sprintf("Total time: %d ms", time.Since(start).Milliseconds()), "main")
	return runErr
}
