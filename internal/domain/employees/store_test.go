package employees

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// fakeConn records every statement and transaction event so tests can
// check that the joint employee+user writes share one commit boundary.
type fakeConn struct {
	events       []string
	failOn       string // statement substring that should error
	username     string
	noRows       bool
	noLinkedUser bool
}

func (c *fakeConn) Begin(ctx context.Context) (pgx.Tx, error) {
	c.events = append(c.events, "begin")
	return &fakeTx{conn: c}, nil
}

func (c *fakeConn) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	c.events = append(c.events, "autocommit "+stmtName(sql))
	return pgconn.NewCommandTag("UPDATE 1"), nil
}

func (c *fakeConn) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	c.events = append(c.events, "autocommit "+stmtName(sql))
	return nil, errors.New("not used in these tests")
}

func (c *fakeConn) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	c.events = append(c.events, "autocommit "+stmtName(sql))
	return fakeRow{conn: c}
}

type fakeTx struct {
	pgx.Tx
	conn     *fakeConn
	nested   bool
	finished bool
}

func (tx *fakeTx) Begin(ctx context.Context) (pgx.Tx, error) {
	tx.conn.events = append(tx.conn.events, "savepoint")
	return &fakeTx{conn: tx.conn, nested: true}, nil
}

func (tx *fakeTx) Commit(ctx context.Context) error {
	if tx.finished {
		return pgx.ErrTxClosed
	}
	tx.finished = true
	if tx.nested {
		tx.conn.events = append(tx.conn.events, "release")
	} else {
		tx.conn.events = append(tx.conn.events, "commit")
	}
	return nil
}

func (tx *fakeTx) Rollback(ctx context.Context) error {
	if tx.finished {
		return pgx.ErrTxClosed
	}
	tx.finished = true
	if tx.nested {
		tx.conn.events = append(tx.conn.events, "rollback savepoint")
	} else {
		tx.conn.events = append(tx.conn.events, "rollback")
	}
	return nil
}

func (tx *fakeTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	tx.conn.events = append(tx.conn.events, stmtName(sql))
	if tx.conn.failOn != "" && strings.Contains(sql, tx.conn.failOn) {
		return pgconn.CommandTag{}, errors.New("connection lost")
	}
	if tx.conn.noLinkedUser && strings.Contains(sql, " users ") {
		return pgconn.NewCommandTag("UPDATE 0"), nil
	}
	return pgconn.NewCommandTag("UPDATE 1"), nil
}

func (tx *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	tx.conn.events = append(tx.conn.events, stmtName(sql))
	return fakeRow{conn: tx.conn}
}

type fakeRow struct{ conn *fakeConn }

func (r fakeRow) Scan(dest ...any) error {
	if r.conn.noRows {
		return pgx.ErrNoRows
	}
	if p, ok := dest[0].(*string); ok {
		*p = r.conn.username
	}
	return nil
}

func stmtName(sql string) string {
	fields := strings.Fields(strings.ToLower(sql))
	switch fields[0] {
	case "update":
		return "update " + fields[1]
	case "delete":
		return "delete " + fields[2]
	case "select":
		return "select"
	default:
		return fields[0]
	}
}

func checkEvents(t *testing.T, conn *fakeConn, want string) {
	t.Helper()
	got := strings.Join(conn.events, ", ")
	if got != want {
		t.Fatalf("wrong statement flow:\n got  %s\n want %s", got, want)
	}
}

var updated = Employee{FirstName: "Maria", LastName: "Lopez", Username: "mlopez", Status: StatusActive}

func TestUpdateRunsInOneTransaction(t *testing.T) {
	conn := &fakeConn{username: "maria"}
	store := &Store{DB: conn}

	_, warning, err := store.Update(context.Background(), 7, updated)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if warning != "" {
		t.Fatalf("unexpected warning: %q", warning)
	}
	checkEvents(t, conn, "begin, select, update employees, savepoint, update users, release, commit")
}

func TestUpdateSyncFailureStillCommits(t *testing.T) {
	conn := &fakeConn{username: "maria", failOn: "UPDATE users"}
	store := &Store{DB: conn}

	_, warning, err := store.Update(context.Background(), 7, updated)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(warning, "could not be updated") {
		t.Fatalf("expected sync warning, got %q", warning)
	}
	checkEvents(t, conn, "begin, select, update employees, savepoint, update users, rollback savepoint, commit")
}

func TestUpdateMissingLinkedUserWarns(t *testing.T) {
	conn := &fakeConn{username: "maria", noLinkedUser: true}
	store := &Store{DB: conn}

	_, warning, err := store.Update(context.Background(), 7, updated)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(warning, "no linked user account") {
		t.Fatalf("expected missing-account warning, got %q", warning)
	}
	checkEvents(t, conn, "begin, select, update employees, savepoint, update users, release, commit")
}

func TestUpdateEmployeeFailureRollsBack(t *testing.T) {
	conn := &fakeConn{username: "maria", failOn: "UPDATE employees"}
	store := &Store{DB: conn}

	if _, _, err := store.Update(context.Background(), 7, updated); err == nil {
		t.Fatal("expected error from failed employee write")
	}
	checkEvents(t, conn, "begin, select, update employees, rollback")
}

func TestUpdateMissingEmployee(t *testing.T) {
	conn := &fakeConn{noRows: true}
	store := &Store{DB: conn}

	if _, _, err := store.Update(context.Background(), 7, updated); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	checkEvents(t, conn, "begin, select, rollback")
}

func TestDeleteRunsInOneTransaction(t *testing.T) {
	conn := &fakeConn{username: "maria"}
	store := &Store{DB: conn}

	warning, err := store.Delete(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if warning != "" {
		t.Fatalf("unexpected warning: %q", warning)
	}
	checkEvents(t, conn, "begin, select, delete employees, savepoint, delete users, release, commit")
}

func TestDeleteCleanupFailureStillCommits(t *testing.T) {
	conn := &fakeConn{username: "maria", failOn: "DELETE FROM users"}
	store := &Store{DB: conn}

	warning, err := store.Delete(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(warning, "could not be removed") {
		t.Fatalf("expected cleanup warning, got %q", warning)
	}
	checkEvents(t, conn, "begin, select, delete employees, savepoint, delete users, rollback savepoint, commit")
}

func TestDeleteEmployeeFailureRollsBack(t *testing.T) {
	conn := &fakeConn{username: "maria", failOn: "DELETE FROM employees"}
	store := &Store{DB: conn}

	if _, err := store.Delete(context.Background(), 7); err == nil {
		t.Fatal("expected error from failed employee delete")
	}
	checkEvents(t, conn, "begin, select, delete employees, rollback")
}
