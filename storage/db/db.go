// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package db archives the canonical records of report runs in a SQL
// database.
//
// The archive is write-only as far as report generation is concerned:
// every run inserts one Runs row and one Records row per canonical
// record, and nothing the renderer produces is ever read back from it.
package db

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/pkg/errors"

	"github.com/mqttcompare/perfreport/canonical"
)

// DB is a high-level interface to the archive database. It's safe for
// concurrent use by multiple goroutines.
type DB struct {
	sql *sql.DB // underlying database connection
	// prepared statements
	insertRun    *sql.Stmt
	insertRecord *sql.Stmt
	countDay     *sql.Stmt
}

// OpenSQL creates a DB backed by a SQL database. The parameters are
// the same as the parameters for sql.Open. Only mysql and sqlite3 are
// explicitly supported; other database engines will receive MySQL
// query syntax which may or may not be compatible.
func OpenSQL(driverName, dataSourceName string) (*DB, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}
	if hook := openHooks[driverName]; hook != nil {
		if err := hook(db); err != nil {
			db.Close()
			return nil, err
		}
	}
	d := &DB{sql: db}
	if err := d.createTables(driverName); err != nil {
		db.Close()
		return nil, err
	}
	if err := d.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

var openHooks = make(map[string]func(*sql.DB) error)

// RegisterOpenHook registers a hook to be called after opening a connection to driverName.
// This is used by the sqlite3 package to configure its connections.
// It must be called from an init function.
func RegisterOpenHook(driverName string, hook func(*sql.DB) error) {
	openHooks[driverName] = hook
}

// createTmpl is the template used to prepare the CREATE statements
// for the database. It is evaluated with . as a map containing one
// entry whose key is the driver name.
var createTmpl = template.Must(template.New("create").Parse(`
CREATE TABLE IF NOT EXISTS Runs (
	RunID {{if .sqlite3}}INTEGER PRIMARY KEY AUTOINCREMENT{{else}}SERIAL PRIMARY KEY AUTO_INCREMENT{{end}},
	Day CHAR(8) NOT NULL,
	Seq INT NOT NULL,
	StartedAt VARCHAR(32) NOT NULL,
	ResultsRoot VARCHAR(1024) NOT NULL,
	Files INT NOT NULL,
	Errors INT NOT NULL,
	UNIQUE (Day, Seq)
);
CREATE TABLE IF NOT EXISTS Records (
	RunID BIGINT UNSIGNED,
	RecordID BIGINT UNSIGNED,
	Lang VARCHAR(255) NOT NULL,
	Role VARCHAR(255) NOT NULL,
	Enc VARCHAR(255) NOT NULL,
	Variant VARCHAR(255) NOT NULL,
	QoS INT NOT NULL,
	Bytes BIGINT NOT NULL,
	PubMS DOUBLE NOT NULL,
	RecvMS DOUBLE NOT NULL,
	TPS DOUBLE NOT NULL,
	TS VARCHAR(64) NOT NULL,
	PRIMARY KEY (RunID, RecordID),
{{if not .sqlite3}}
	INDEX (Lang(100), Enc(100)),
{{end}}
	FOREIGN KEY (RunID) REFERENCES Runs(RunID) ON UPDATE CASCADE ON DELETE CASCADE
);
{{if .sqlite3}}
CREATE INDEX IF NOT EXISTS RecordsLangEnc ON Records(Lang, Enc);
{{end}}
`))

// createTables creates any missing tables on the connection in
// db.sql. driverName is the same driver name passed to sql.Open and
// is used to select the correct syntax.
func (db *DB) createTables(driverName string) error {
	var buf bytes.Buffer
	if err := createTmpl.Execute(&buf, map[string]bool{driverName: true}); err != nil {
		return err
	}
	for _, q := range strings.Split(buf.String(), ";") {
		if strings.TrimSpace(q) == "" {
			continue
		}
		if _, err := db.sql.Exec(q); err != nil {
			return errors.Wrap(err, "create table")
		}
	}
	return nil
}

// prepareStatements calls db.sql.Prepare on reusable SQL statements.
func (db *DB) prepareStatements() error {
	var err error
	db.insertRun, err = db.sql.Prepare("INSERT INTO Runs(Day, Seq, StartedAt, ResultsRoot, Files, Errors) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	db.insertRecord, err = db.sql.Prepare("INSERT INTO Records(RunID, RecordID, Lang, Role, Enc, Variant, QoS, Bytes, PubMS, RecvMS, TPS, TS) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	db.countDay, err = db.sql.Prepare("SELECT COUNT(*) FROM Runs WHERE Day = ?")
	if err != nil {
		return err
	}
	return nil
}

// A Run describes one report run.
type Run struct {
	// StartedAt is when the run started. Its UTC date is the date
	// part of the run ID.
	StartedAt time.Time

	// ResultsRoot is the results directory the run read.
	ResultsRoot string

	// Files is the number of result files read, and Errors the
	// number of error records among them.
	Files, Errors int
}

// InsertRun stores run and records in a single transaction and
// returns the run's ID, which has the form YYYYMMDD.N where N counts
// the runs started on that day from 1.
func (db *DB) InsertRun(ctx context.Context, run Run, records []*canonical.Record) (id string, err error) {
	tx, err := db.sql.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	day := run.StartedAt.UTC().Format("20060102")
	var n int
	if err := tx.StmtContext(ctx, db.countDay).QueryRowContext(ctx, day).Scan(&n); err != nil {
		return "", errors.Wrap(err, "counting runs")
	}
	seq := n + 1
	res, err := tx.StmtContext(ctx, db.insertRun).ExecContext(ctx,
		day, seq, run.StartedAt.UTC().Format(time.RFC3339Nano), run.ResultsRoot, run.Files, run.Errors)
	if err != nil {
		return "", errors.Wrap(err, "inserting run")
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return "", err
	}

	stmt := tx.StmtContext(ctx, db.insertRecord)
	for i, r := range records {
		_, err := stmt.ExecContext(ctx, runID, i,
			r.Lang, r.Role, r.Enc, r.Variant, r.QoS, r.Bytes, r.PubMS, r.RecvMS, r.TPS, r.TS)
		if err != nil {
			return "", errors.Wrapf(err, "inserting record %d", i)
		}
	}
	return fmt.Sprintf("%s.%d", day, seq), nil
}

// CountRuns returns the number of runs in the archive.
func (db *DB) CountRuns(ctx context.Context) (int, error) {
	var n int
	err := db.sql.QueryRowContext(ctx, "SELECT COUNT(*) FROM Runs").Scan(&n)
	return n, err
}

// CountRecords returns the number of records stored for the run with
// the given ID.
func (db *DB) CountRecords(ctx context.Context, id string) (int, error) {
	day, s, ok := strings.Cut(id, ".")
	seq, err := strconv.Atoi(s)
	if !ok || err != nil {
		return 0, errors.Errorf("malformed run ID %q", id)
	}
	var n int
	err = db.sql.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM Records JOIN Runs ON Records.RunID = Runs.RunID WHERE Runs.Day = ? AND Runs.Seq = ?",
		day, seq).Scan(&n)
	return n, err
}

// Close closes the database connections, releasing any open resources.
func (db *DB) Close() error {
	for _, stmt := range []*sql.Stmt{db.insertRun, db.insertRecord, db.countDay} {
		if err := stmt.Close(); err != nil {
			return err
		}
	}
	return db.sql.Close()
}
