package modelstore

import (
	"database/sql"
	"path/filepath"

	"github.com/dekarrin/rezi"
	_ "modernc.org/sqlite"

	"github.com/dekarrin/eagerparse/internal/parseerr"
)

// SQLite is a Store backed by a single-table SQLite database, keyed by
// model name, so one database file can hold several named models.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (creating if necessary) the SQLite database at
// filepath.Join(dir, "models.db") and ensures its models table exists.
func NewSQLite(dir string) (*SQLite, error) {
	path := filepath.Join(dir, "models.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, parseerr.NewModelStore(err, "open sqlite model store %s", path)
	}

	const schema = `CREATE TABLE IF NOT EXISTS models (
		name TEXT PRIMARY KEY,
		data BLOB NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, parseerr.NewModelStore(err, "create models table")
	}

	return &SQLite{db: db}, nil
}

// Close closes the underlying database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) Save(name string, m Model) error {
	if name == "" {
		return parseerr.NewModelStore(nil, "model name must not be empty")
	}
	data := rezi.EncBinary(toWire(m))
	const q = `INSERT INTO models (name, data) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET data = excluded.data`
	if _, err := s.db.Exec(q, name, data); err != nil {
		return parseerr.NewModelStore(err, "save model %q", name)
	}
	return nil
}

func (s *SQLite) Load(name string) (Model, error) {
	if name == "" {
		return Model{}, parseerr.NewModelStore(nil, "model name must not be empty")
	}
	var data []byte
	row := s.db.QueryRow(`SELECT data FROM models WHERE name = ?`, name)
	if err := row.Scan(&data); err != nil {
		return Model{}, parseerr.NewModelStore(err, "load model %q", name)
	}

	var w wireModel
	if _, err := rezi.DecBinary(data, &w); err != nil {
		return Model{}, parseerr.NewModelStore(err, "decode model %q", name)
	}
	return fromWire(w)
}
