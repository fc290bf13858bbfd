package repositories

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"strings"
	"sync"
)

// recordingConn is a database/sql driver that answers queries from a
// script and records which ones ran inside a transaction.
type recordingConn struct {
	mu      sync.Mutex
	answer  func(query string) ([]string, [][]driver.Value)
	txOpts  []driver.TxOptions
	inTx    bool
	queries []recordedQuery
	commits int
}

type recordedQuery struct {
	sql  string
	inTx bool
}

func openRecording(answer func(query string) ([]string, [][]driver.Value)) (*sql.DB, *recordingConn) {
	conn := &recordingConn{answer: answer}
	db := sql.OpenDB(recordingConnector{conn})
	db.SetMaxOpenConns(1)
	return db, conn
}

type recordingConnector struct{ conn *recordingConn }

func (c recordingConnector) Connect(context.Context) (driver.Conn, error) { return c.conn, nil }
func (c recordingConnector) Driver() driver.Driver                        { return recordingDriver{c.conn} }

type recordingDriver struct{ conn *recordingConn }

func (d recordingDriver) Open(string) (driver.Conn, error) { return d.conn, nil }

func (c *recordingConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("prepare not supported")
}

func (c *recordingConn) Close() error { return nil }

func (c *recordingConn) Begin() (driver.Tx, error) {
	return c.BeginTx(context.Background(), driver.TxOptions{})
}

func (c *recordingConn) BeginTx(_ context.Context, opts driver.TxOptions) (driver.Tx, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.txOpts = append(c.txOpts, opts)
	c.inTx = true
	return recordingTx{c}, nil
}

func (c *recordingConn) QueryContext(_ context.Context, query string, _ []driver.NamedValue) (driver.Rows, error) {
	c.mu.Lock()
	c.queries = append(c.queries, recordedQuery{sql: strings.TrimSpace(query), inTx: c.inTx})
	c.mu.Unlock()
	cols, vals := c.answer(query)
	return &recordingRows{cols: cols, vals: vals}, nil
}

type recordingTx struct{ c *recordingConn }

func (t recordingTx) Commit() error {
	t.c.mu.Lock()
	defer t.c.mu.Unlock()
	t.c.commits++
	t.c.inTx = false
	return nil
}

func (t recordingTx) Rollback() error {
	t.c.mu.Lock()
	defer t.c.mu.Unlock()
	t.c.inTx = false
	return nil
}

type recordingRows struct {
	cols []string
	vals [][]driver.Value
}

func (r *recordingRows) Columns() []string { return r.cols }
func (r *recordingRows) Close() error      { return nil }

func (r *recordingRows) Next(dest []driver.Value) error {
	if len(r.vals) == 0 {
		return io.EOF
	}
	copy(dest, r.vals[0])
	r.vals = r.vals[1:]
	return nil
}
