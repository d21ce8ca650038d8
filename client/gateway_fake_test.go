package client

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/hazirlageldim/pickup-app/models"
)

// fakeGateway is the in-memory Gateway used across the package tests.
// Responses are preset per operation key ("insert:orders"), list reads come
// from lists[table], and every call is recorded for assertions. Data moves
// through a JSON round-trip so struct tags behave like the real wire.
type fakeGateway struct {
	mu    sync.Mutex
	calls []fakeCall

	lists     map[string]interface{} // table -> slice returned by reads
	responses map[string]interface{} // op key -> object written into dest
	errs      map[string]error       // op key -> injected failure
	rpcQueue  []interface{}          // successive RPC responses
}

type fakeCall struct {
	op      string
	table   string
	filters Filters
	opts    ReadOpts
	payload interface{}
	patch   map[string]interface{}
	id      string
	rpcName string
	args    map[string]interface{}
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		lists:     make(map[string]interface{}),
		responses: make(map[string]interface{}),
		errs:      make(map[string]error),
	}
}

func roundTrip(src, dest interface{}) error {
	if src == nil || dest == nil {
		return nil
	}
	data, err := json.Marshal(src)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

func (f *fakeGateway) record(c fakeCall) {
	f.mu.Lock()
	f.calls = append(f.calls, c)
	f.mu.Unlock()
}

func (f *fakeGateway) callCount(op, table string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.op == op && (table == "" || c.table == table) {
			n++
		}
	}
	return n
}

func (f *fakeGateway) lastCall(op string) (fakeCall, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.calls) - 1; i >= 0; i-- {
		if f.calls[i].op == op {
			return f.calls[i], true
		}
	}
	return fakeCall{}, false
}

func (f *fakeGateway) ReadFiltered(ctx context.Context, table string, filters Filters, opts ReadOpts, dest interface{}) error {
	f.record(fakeCall{op: "read", table: table, filters: filters, opts: opts})
	if err := f.errs["read:"+table]; err != nil {
		return err
	}
	f.mu.Lock()
	list := f.lists[table]
	f.mu.Unlock()
	if list == nil {
		return nil
	}
	return roundTrip(list, dest)
}

func (f *fakeGateway) ReadOne(ctx context.Context, table string, filters Filters, dest interface{}) (bool, error) {
	var rows []json.RawMessage
	if err := f.ReadFiltered(ctx, table, filters, ReadOpts{Limit: 1}, &rows); err != nil {
		return false, err
	}
	if len(rows) == 0 {
		return false, nil
	}
	return true, json.Unmarshal(rows[0], dest)
}

func (f *fakeGateway) Insert(ctx context.Context, table string, row, dest interface{}) error {
	f.record(fakeCall{op: "insert", table: table, payload: row})
	if err := f.errs["insert:"+table]; err != nil {
		return err
	}
	if resp, ok := f.responses["insert:"+table]; ok {
		return roundTrip(resp, dest)
	}
	return roundTrip(row, dest)
}

func (f *fakeGateway) InsertMany(ctx context.Context, table string, rows, dest interface{}) error {
	f.record(fakeCall{op: "insertmany", table: table, payload: rows})
	if err := f.errs["insertmany:"+table]; err != nil {
		return err
	}
	if resp, ok := f.responses["insertmany:"+table]; ok {
		return roundTrip(resp, dest)
	}
	return roundTrip(rows, dest)
}

func (f *fakeGateway) Update(ctx context.Context, table, id string, patch map[string]interface{}, dest interface{}) error {
	f.record(fakeCall{op: "update", table: table, id: id, patch: patch})
	if err := f.errs["update:"+table]; err != nil {
		return err
	}
	if resp, ok := f.responses["update:"+table]; ok {
		return roundTrip(resp, dest)
	}
	return nil
}

func (f *fakeGateway) Delete(ctx context.Context, table, id string) error {
	f.record(fakeCall{op: "delete", table: table, id: id})
	return f.errs["delete:"+table]
}

func (f *fakeGateway) RPC(ctx context.Context, name string, args map[string]interface{}, dest interface{}) error {
	f.record(fakeCall{op: "rpc", rpcName: name, args: args})
	if err := f.errs["rpc:"+name]; err != nil {
		return err
	}
	f.mu.Lock()
	var resp interface{}
	if len(f.rpcQueue) > 0 {
		resp = f.rpcQueue[0]
		f.rpcQueue = f.rpcQueue[1:]
	}
	f.mu.Unlock()
	if resp == nil {
		return nil
	}
	return roundTrip(resp, dest)
}

// fakeAuth backs Session tests without a server.
type fakeAuth struct {
	user  interface{}
	token string
	fail  error
}

func (a *fakeAuth) Register(ctx context.Context, req RegisterRequest) (string, error) {
	if a.fail != nil {
		return "", a.fail
	}
	return "user-1", nil
}

func (a *fakeAuth) Login(ctx context.Context, email, password string) (LoginResult, error) {
	if a.fail != nil {
		return LoginResult{}, a.fail
	}
	var result LoginResult
	result.Token = a.token
	if err := roundTrip(a.user, &result.User); err != nil {
		return LoginResult{}, err
	}
	return result, nil
}

func (a *fakeAuth) ResetPassword(ctx context.Context, email string) error { return a.fail }

func (a *fakeAuth) Profile(ctx context.Context) (models.User, error) {
	var user models.User
	err := roundTrip(a.user, &user)
	return user, err
}
