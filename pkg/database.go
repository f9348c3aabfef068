package segmenter

import (
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/goccy/go-json"
	sqlx "github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Geometry is the part of the detector description the segmentation needs.
type Geometry struct {
	IDNPMTs int
	ODNPMTs int
	HasOD   bool
}

func ConnectToDatabase(user string, pass string, host string, dbname string) (*sqlx.DB, error) {
	port := "3306"
	dbURI := fmt.Sprintf("%s:%s@(%s:%s)/%s?parseTime=true", user, pass, host, port, dbname)
	db, err := sqlx.Connect("mysql", dbURI)
	return db, err
}

// OpenDatabase connects to the database selected in the configuration:
// the MySQL server, or a local SQLite file for offline processing.
func OpenDatabase(config Configuration) (*sqlx.DB, error) {
	switch config.DBDriver {
	case "", "mysql":
		return ConnectToDatabase(config.User, config.Passwd, config.Host, config.DBName)
	case "sqlite":
		if config.DBPath == "" {
			return nil, fmt.Errorf("db_path not set for sqlite database")
		}
		return sqlx.Connect("sqlite", config.DBPath)
	default:
		return nil, fmt.Errorf("unsupported db_driver: %s", config.DBDriver)
	}
}

type geometryEntry struct {
	Detector int `db:"Detector"`
	NPMTs    int `db:"NPMTs"`
}

func LoadDetectorGeometry(db *sqlx.DB, runNumber int, verbosity int) (Geometry, error) {
	query := "SELECT Detector, NPMTs FROM DetectorGeometry WHERE MinRun <= ? and MaxRun >= ?"
	if verbosity > 0 {
		logger.Info("Detector geometry read from DB", "database")
	}
	if verbosity > 2 {
		message := fmt.Sprintf("Query: %s [%d]", query, runNumber)
		logger.Info(message, "database")
	}

	rows, err := db.Queryx(query, runNumber, runNumber)
	if err != nil {
		return Geometry{}, fmt.Errorf("error querying database: %w", err)
	}
	defer rows.Close()

	geometry := Geometry{}
	found := false
	for rows.Next() {
		result := geometryEntry{}
		if err := rows.StructScan(&result); err != nil {
			return Geometry{}, fmt.Errorf("error scanning DB row: %w", err)
		}
		found = true
		switch Detector(result.Detector) {
		case InnerDetector:
			geometry.IDNPMTs = result.NPMTs
		case OuterDetector:
			geometry.ODNPMTs = result.NPMTs
			geometry.HasOD = result.NPMTs > 0
		}
	}
	if err := rows.Err(); err != nil {
		return Geometry{}, fmt.Errorf("error reading DB rows: %w", err)
	}
	if !found {
		return Geometry{}, fmt.Errorf("no detector geometry for run %d", runNumber)
	}
	return geometry, nil
}

type triggerWindowEntry struct {
	WindowIndex  int            `db:"WindowIndex"`
	ReadoutStart float64        `db:"ReadoutStart"`
	ReadoutEnd   float64        `db:"ReadoutEnd"`
	TriggerTime  float64        `db:"TriggerTime"`
	TriggerType  int            `db:"TriggerType"`
	Info         sql.NullString `db:"Info"`
}

// LoadTriggerCatalog reads the trigger windows found for one event and
// detector, in the order they were found. Times are stored in ns.
func LoadTriggerCatalog(db *sqlx.DB, runNumber int, eventNumber int, det Detector) (*TriggerCatalog, error) {
	query := "SELECT WindowIndex, ReadoutStart, ReadoutEnd, TriggerTime, TriggerType, Info " +
		"FROM TriggerWindows WHERE RunNumber = ? and EventNumber = ? and Detector = ? ORDER BY WindowIndex"
	rows, err := db.Queryx(query, runNumber, eventNumber, int(det))
	if err != nil {
		return nil, fmt.Errorf("error querying database: %w", err)
	}
	defer rows.Close()

	catalog := NewTriggerCatalog()
	for rows.Next() {
		result := triggerWindowEntry{}
		if err := rows.StructScan(&result); err != nil {
			return nil, fmt.Errorf("error scanning DB row: %w", err)
		}
		var info []float64
		if result.Info.Valid && result.Info.String != "" {
			if err := json.Unmarshal([]byte(result.Info.String), &info); err != nil {
				return nil, fmt.Errorf("error decoding info of trigger window %d: %w", result.WindowIndex, err)
			}
		}
		catalog.Add(TriggerWindow{
			ReadoutStart: NewTimeDeltaNs(result.ReadoutStart),
			ReadoutEnd:   NewTimeDeltaNs(result.ReadoutEnd),
			TriggerTime:  NewTimeDeltaNs(result.TriggerTime),
			Type:         TriggerType(result.TriggerType),
			Info:         info,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading DB rows: %w", err)
	}
	return catalog, nil
}

// LoadEventCatalogs replaces the trigger windows of raw with those stored in
// the database.
func LoadEventCatalogs(db *sqlx.DB, runNumber int, raw *RawEvent) error {
	var err error
	raw.IDTriggers, err = LoadTriggerCatalog(db, runNumber, raw.SourceEventNumber, InnerDetector)
	if err != nil {
		return err
	}
	if raw.OD != nil {
		raw.ODTriggers, err = LoadTriggerCatalog(db, runNumber, raw.SourceEventNumber, OuterDetector)
		if err != nil {
			return err
		}
	}
	return nil
}
