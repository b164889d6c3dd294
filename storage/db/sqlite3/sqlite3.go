// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sqlite3 provides the sqlite3 driver for
// github.com/mqttcompare/perfreport/storage/db. It must be imported
// instead of go-sqlite3 to ensure foreign keys are properly honored.
package sqlite3

import (
	"database/sql"

	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/mqttcompare/perfreport/storage/db"
)

func init() {
	db.RegisterOpenHook("sqlite3", func(db *sql.DB) error {
		// Each connection to ":memory:" is a separate database,
		// and foreign_keys is a per-connection setting.
		db.SetMaxOpenConns(1)
		_, err := db.Exec("PRAGMA foreign_keys = ON")
		return err
	})
}

// Version returns the version of the linked SQLite library.
func Version() string {
	v, _, _ := sqlite3.Version()
	return v
}
