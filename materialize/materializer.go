// Package materialize builds the derived relational artifact from a
// validated document pair. The artifact is disposable: it is recreated
// wholesale on every run and owns no identity of its own.
package materialize

import (
	"database/sql"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"

	"github.com/fleetdata/vparams/catalog"
	"github.com/fleetdata/vparams/db"
	"github.com/fleetdata/vparams/errors"
)

// Materializer writes validated catalogs into a six-table SQLite database.
// It performs no validation: callers must have confirmed overall_valid
// first. Any non-nil result means the artifact is in unknown state and must
// be regenerated.
type Materializer struct {
	log *zap.SugaredLogger
}

// New builds a Materializer. A nil logger disables logging.
func New(log *zap.SugaredLogger) *Materializer {
	return &Materializer{log: log}
}

// Materialize replaces the artifact at targetPath with a fresh database
// built from the two documents. The database is assembled in a temp file
// next to the target and atomically renamed into place, so readers never
// observe a partially written artifact.
func (m *Materializer) Materialize(paramDoc *catalog.ParameterDocument, protoDoc *catalog.ProtocolDocument, targetPath string) error {
	if err := os.MkdirAll(filepath.Dir(targetPath), 0o755); err != nil {
		return errors.Wrap(errors.ErrMaterialize, err.Error())
	}

	tmpPath := targetPath + ".tmp"
	os.Remove(tmpPath)

	if err := m.build(paramDoc, protoDoc, tmpPath); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, targetPath); err != nil {
		os.Remove(tmpPath)
		return errors.Wrapf(errors.ErrMaterialize, "replace artifact: %v", err)
	}

	if m.log != nil {
		m.log.Infow("Relational artifact materialized",
			"path", targetPath,
			"parameters", len(paramDoc.Parameters),
			"protocol_groups", len(protoDoc.ProtocolGroups),
			"protocols", len(protoDoc.Protocols),
		)
	}
	return nil
}

func (m *Materializer) build(paramDoc *catalog.ParameterDocument, protoDoc *catalog.ProtocolDocument, path string) error {
	conn, err := db.Open(path, m.log)
	if err != nil {
		return errors.Wrapf(errors.ErrMaterialize, "open artifact: %v", err)
	}
	defer conn.Close()

	if err := createTables(conn); err != nil {
		return wrapWriteError("create tables", err)
	}

	tx, err := conn.Begin()
	if err != nil {
		return wrapWriteError("begin transaction", err)
	}

	if err := insertDocuments(tx, paramDoc, protoDoc); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return wrapWriteError("commit", err)
	}
	return nil
}

func wrapWriteError(op string, err error) error {
	if db.IsConstraintViolation(err) {
		return errors.Wrapf(errors.ErrMaterialize, "%s: constraint violation: %v", op, err)
	}
	return errors.Wrapf(errors.ErrMaterialize, "%s: %v", op, err)
}

func createTables(conn *sql.DB) error {
	statements := []string{
		`CREATE TABLE parameters (
			id INTEGER PRIMARY KEY,
			field_name VARCHAR(255) UNIQUE NOT NULL,
			reserved_enum_val INTEGER,
			description TEXT,
			unit TEXT,
			reason_added VARCHAR(255),
			protobuf_field VARCHAR(255),
			protocol_reference VARCHAR(255),
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE breadcrumb_fields (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			parameter_id INTEGER,
			breadcrumb_link TEXT,
			note TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (parameter_id) REFERENCES parameters(id)
		)`,
		`CREATE TABLE vg5_fields (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			parameter_id INTEGER,
			vg5_link TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (parameter_id) REFERENCES parameters(id)
		)`,
		`CREATE TABLE abbr_metrics (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			parameter_id INTEGER,
			abbr_value VARCHAR(50),
			abbr_link TEXT,
			metrics_link TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (parameter_id) REFERENCES parameters(id)
		)`,
		`CREATE TABLE protocol_groups (
			id INTEGER PRIMARY KEY,
			group_name VARCHAR(100) UNIQUE NOT NULL,
			description TEXT,
			parameter_reference VARCHAR(255),
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE protocols (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			group_id INTEGER,
			abbr VARCHAR(50),
			protocol_standard VARCHAR(50),
			pgn_pid VARCHAR(100),
			spn VARCHAR(50),
			precision VARCHAR(100),
			spec_range VARCHAR(200),
			max_valid_val VARCHAR(50),
			units VARCHAR(50),
			description TEXT,
			states TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (group_id) REFERENCES protocol_groups(id)
		)`,
	}

	for _, stmt := range statements {
		if _, err := conn.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// insertDocuments inserts every record in document order. Owning tables keep
// their source-document IDs; dependent tables get artifact-local rowids.
func insertDocuments(tx *sql.Tx, paramDoc *catalog.ParameterDocument, protoDoc *catalog.ProtocolDocument) error {
	for _, p := range paramDoc.Parameters {
		_, err := tx.Exec(`INSERT INTO parameters
			(id, field_name, reserved_enum_val, description, unit, reason_added, protobuf_field, protocol_reference)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.FieldName, p.ReservedEnumVal, p.Description, p.Unit, p.ReasonAdded, p.ProtobufField, p.ProtocolReference)
		if err != nil {
			return wrapWriteError("insert parameter "+p.FieldName, err)
		}
	}

	for i, b := range paramDoc.BreadcrumbFields {
		_, err := tx.Exec(`INSERT INTO breadcrumb_fields (parameter_id, breadcrumb_link, note) VALUES (?, ?, ?)`,
			b.ParameterID, b.BreadcrumbLink, b.Note)
		if err != nil {
			return wrapWriteError(positionOp("insert breadcrumb field", i), err)
		}
	}

	for i, vg5 := range paramDoc.VG5Fields {
		_, err := tx.Exec(`INSERT INTO vg5_fields (parameter_id, vg5_link) VALUES (?, ?)`,
			vg5.ParameterID, vg5.VG5Link)
		if err != nil {
			return wrapWriteError(positionOp("insert vg5 field", i), err)
		}
	}

	for i, a := range paramDoc.AbbrMetrics {
		_, err := tx.Exec(`INSERT INTO abbr_metrics (parameter_id, abbr_value, abbr_link, metrics_link) VALUES (?, ?, ?, ?)`,
			a.ParameterID, a.AbbrValue, a.AbbrLink, a.MetricsLink)
		if err != nil {
			return wrapWriteError(positionOp("insert abbr metric", i), err)
		}
	}

	for _, g := range protoDoc.ProtocolGroups {
		_, err := tx.Exec(`INSERT INTO protocol_groups (id, group_name, description, parameter_reference) VALUES (?, ?, ?, ?)`,
			g.ID, g.GroupName, g.Description, g.ParameterReference)
		if err != nil {
			return wrapWriteError("insert protocol group "+g.GroupName, err)
		}
	}

	for i, p := range protoDoc.Protocols {
		_, err := tx.Exec(`INSERT INTO protocols
			(group_id, abbr, protocol_standard, pgn_pid, spn, precision, spec_range, max_valid_val, units, description, states)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.GroupID, p.Abbr, p.ProtocolStandard, p.PgnPid, p.Spn, p.Precision, p.SpecRange, p.MaxValidVal, p.Units, p.Description, p.States)
		if err != nil {
			return wrapWriteError(positionOp("insert protocol", i), err)
		}
	}

	return nil
}

func positionOp(op string, index int) string {
	return op + " " + strconv.Itoa(index+1)
}
