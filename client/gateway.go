package client

import (
	"context"
	"strings"
)

// Filters map column names to encoded filter expressions. Values are built
// with Eq, Gte, Lt, In and friends; a plain value is treated as equality by
// the backend.
type Filters map[string]string

func Eq(v string) string  { return "eq." + v }
func Gt(v string) string  { return "gt." + v }
func Gte(v string) string { return "gte." + v }
func Lt(v string) string  { return "lt." + v }
func Lte(v string) string { return "lte." + v }

func In(vals ...string) string {
	return "in.(" + strings.Join(vals, ",") + ")"
}

// ReadOpts carries the list modifiers of a read.
type ReadOpts struct {
	Order  string // "created_at.desc" or "name.asc"
	Limit  int
	Offset int
}

// Gateway is the data surface of the hosted backend: table reads and writes
// plus named RPC calls. Everything above the session layer talks through
// this interface, so tests can swap in an in-memory fake.
type Gateway interface {
	ReadFiltered(ctx context.Context, table string, filters Filters, opts ReadOpts, dest interface{}) error
	ReadOne(ctx context.Context, table string, filters Filters, dest interface{}) (bool, error)
	Insert(ctx context.Context, table string, row, dest interface{}) error
	InsertMany(ctx context.Context, table string, rows, dest interface{}) error
	Update(ctx context.Context, table, id string, patch map[string]interface{}, dest interface{}) error
	Delete(ctx context.Context, table, id string) error
	RPC(ctx context.Context, name string, args map[string]interface{}, dest interface{}) error
}
