// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package desc

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

const (
	host = "localhost"
)

var (
	usr = "username"
	pwd = "s3cr3t"

	drvName = "mysql"
)

// DB is a descriptor stored in the descriptors table of a MySQL database.
//
// The table holds one row per (device, name) key:
//
//	CREATE TABLE descriptors (
//	  device VARCHAR(64),
//	  name   VARCHAR(64),
//	  value  INT UNSIGNED
//	);
type DB struct {
	db   *sql.DB
	name string // name of the database
	dev  string // name of the device
}

// OpenDB opens a connection to the dbname database and
// reads the descriptor of device from it.
func OpenDB(dbname, device string) (*DB, error) {
	db, err := sql.Open(drvName, dsn(dbname))
	if err != nil {
		return nil, fmt.Errorf("desc: could not open %q db: %w", dbname, err)
	}

	err = ping(db, dbname)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &DB{db: db, name: dbname, dev: device}, nil
}

func dsn(db string) string {
	return fmt.Sprintf("%s:%s@tcp(%s)/%s", usr, pwd, host, db)
}

func ping(db *sql.DB, dbname string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := db.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("desc: could not ping %q db: %w", dbname, err)
	}

	return nil
}

// Uint32 implements Reader.
func (db *DB) Uint32(key string, def uint32) (uint32, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rows, err := db.db.QueryContext(
		ctx,
		"SELECT value FROM descriptors WHERE device=? AND name=? LIMIT 1",
		db.dev, key,
	)
	if err != nil {
		return def, fmt.Errorf("desc: could not query key %q: %w", key, err)
	}
	defer rows.Close()

	var (
		v     uint32
		found bool
	)
	for rows.Next() {
		err = rows.Scan(&v)
		if err != nil {
			return def, fmt.Errorf("desc: could not get value of key %q: %w", key, err)
		}
		found = true
	}

	if err := rows.Err(); err != nil {
		return def, fmt.Errorf("desc: could not scan db for key %q: %w", key, err)
	}

	if err := ctx.Err(); err != nil {
		return def, fmt.Errorf("desc: context error while retrieving key %q: %w", key, err)
	}

	if !found {
		return def, ErrKeyNotFound
	}

	return v, nil
}

// Close implements Reader.
func (db *DB) Close() error {
	return db.db.Close()
}

// Ident identifies the descriptor source.
func (db *DB) Ident() string {
	return fmt.Sprintf("%s (db=%q, device=%q)", Ident(), db.name, db.dev)
}
