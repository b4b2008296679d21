package output

import (
	"database/sql"
	"encoding/json"

	_ "github.com/mattn/go-sqlite3"
	"github.com/plonxyz/convertctl/internal/models"
)

// SQLiteWriter writes conversion results to a SQLite database
type SQLiteWriter struct {
	db    *sql.DB
	runID string
}

// compile-time interface check
var _ Writer = (*SQLiteWriter)(nil)

// NewSQLiteWriter creates a new SQLite writer tagged with the run ID
func NewSQLiteWriter(outputPath, runID string) (*SQLiteWriter, error) {
	db, err := sql.Open("sqlite3", outputPath)
	if err != nil {
		return nil, err
	}

	writer := &SQLiteWriter{db: db, runID: runID}

	if err := writer.createSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return writer, nil
}

// createSchema creates the database schema
func (w *SQLiteWriter) createSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS conversions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		source_filename TEXT NOT NULL,
		source_path TEXT NOT NULL,
		detected_type TEXT NOT NULL,
		mimetype TEXT NOT NULL,
		converted_at TEXT NOT NULL,
		size INTEGER NOT NULL,
		mtime REAL NOT NULL,
		sha256 TEXT,
		sha1 TEXT,
		md5 TEXT,
		data TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_run_id ON conversions(run_id);
	CREATE INDEX IF NOT EXISTS idx_detected_type ON conversions(detected_type);
	CREATE INDEX IF NOT EXISTS idx_sha256 ON conversions(sha256);
	`

	_, err := w.db.Exec(schema)
	return err
}

// Write writes a conversion result to the SQLite database
func (w *SQLiteWriter) Write(result *models.ConversionResult) error {
	dataJSON, err := json.Marshal(result.Data)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO conversions (
			run_id, source_filename, source_path, detected_type, mimetype,
			converted_at, size, mtime, sha256, sha1, md5, data
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = w.db.Exec(
		query,
		w.runID,
		result.SourceFilename,
		result.SourcePath,
		result.DetectedType,
		result.Mimetype,
		result.ConvertedAt,
		result.Metadata.Size,
		result.Metadata.Mtime,
		result.Metadata.SHA256,
		result.Metadata.SHA1,
		result.Metadata.MD5,
		string(dataJSON),
	)

	return err
}

// Close closes the database
func (w *SQLiteWriter) Close() error {
	return w.db.Close()
}
