// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fakedb holds types to fake an in-memory key/value DB.
package fakedb // import "github.com/go-lpc/m199/internal/fakedb"

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"io"
	"reflect"
	"sync"
)

var query struct {
	mu    sync.Mutex
	table Table
	args  [][]driver.Value
}

// Run runs f with table as the content of the fake DB.
// All queries issued by f return the rows of table whose keys
// match the query arguments.
func Run(ctx context.Context, table Table, f func(ctx context.Context) error) error {
	query.mu.Lock()
	defer query.mu.Unlock()
	query.table = table
	query.args = nil

	return f(ctx)
}

// Queries returns the arguments of the queries issued during the
// current (or last) Run.
func Queries() [][]driver.Value {
	return query.args
}

func init() {
	sql.Register("fakedb", &Driver{})
}

// Table is the content of the fake DB.
type Table struct {
	Names  []string         // names of the selected columns
	Keys   [][]driver.Value // query arguments selecting each row
	Values [][]driver.Value // selected values, one slice per row
	Err    error            // error returned by all queries, if any
}

type Driver struct{}

// Open returns a new connection to the database.
func (drv *Driver) Open(name string) (driver.Conn, error) {
	return &Conn{}, nil
}

type Conn struct{}

// Prepare returns a prepared statement, bound to this connection.
func (c *Conn) Prepare(query string) (driver.Stmt, error) {
	return &Stmt{}, nil
}

// Close invalidates the connection.
func (c *Conn) Close() error {
	return nil
}

// Begin starts and returns a new transaction.
//
// Deprecated: Drivers should implement ConnBeginTx instead (or additionally).
func (c *Conn) Begin() (driver.Tx, error) {
	panic("not implemented")
}

type Stmt struct{}

// Close closes the statement.
func (stmt *Stmt) Close() error {
	return nil
}

// NumInput returns the number of placeholder parameters.
func (stmt *Stmt) NumInput() int {
	return -1
}

// Exec executes a query that doesn't return rows.
//
// Deprecated: Drivers should implement StmtExecContext instead (or additionally).
func (stmt *Stmt) Exec(args []driver.Value) (driver.Result, error) {
	panic("not implemented")
}

// Query executes a query that may return rows, such as a SELECT.
//
// Deprecated: Drivers should implement StmtQueryContext instead (or additionally).
func (stmt *Stmt) Query(args []driver.Value) (driver.Rows, error) {
	query.args = append(query.args, args)

	tbl := query.table
	if tbl.Err != nil {
		return nil, tbl.Err
	}

	rows := &Rows{Names: tbl.Names}
	for i, vs := range tbl.Values {
		if tbl.Keys != nil {
			if i >= len(tbl.Keys) {
				return nil, fmt.Errorf("fakedb: missing keys for row %d", i)
			}
			if !match(tbl.Keys[i], args) {
				continue
			}
		}
		rows.Values = append(rows.Values, vs)
	}
	return rows, nil
}

func match(keys, args []driver.Value) bool {
	if len(keys) != len(args) {
		return false
	}
	for i := range keys {
		if !reflect.DeepEqual(keys[i], args[i]) {
			return false
		}
	}
	return true
}

type Rows struct {
	Names  []string
	Values [][]driver.Value
}

// Columns returns the names of the columns.
func (rows *Rows) Columns() []string {
	return rows.Names
}

// Close closes the rows iterator.
func (rows *Rows) Close() error {
	return nil
}

// Next is called to populate the next row of data into
// the provided slice.
//
// Next should return io.EOF when there are no more rows.
func (rows *Rows) Next(dest []driver.Value) error {
	if len(rows.Values) == 0 {
		return io.EOF
	}
	copy(dest, rows.Values[0])
	rows.Values = rows.Values[1:]
	return nil
}

var (
	_ driver.Driver = (*Driver)(nil)
	_ driver.Conn   = (*Conn)(nil)
	_ driver.Stmt   = (*Stmt)(nil)
	_ driver.Rows   = (*Rows)(nil)
)
