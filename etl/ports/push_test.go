package ports

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

type fakeExecer struct {
	calls  []string
	failOn map[int]bool
}

func (f *fakeExecer) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	f.calls = append(f.calls, sql)
	if f.failOn[len(f.calls)] {
		return pgconn.CommandTag{}, errors.New("statement timeout")
	}
	return pgconn.NewCommandTag("INSERT 0 2"), nil
}

func TestPusherContinuesAfterFailure(t *testing.T) {
	db := &fakeExecer{failOn: map[int]bool{2: true}}
	stmts := []Statement{
		{Index: 1, Rows: 2, SQL: "a"},
		{Index: 2, Rows: 2, SQL: "b"},
		{Index: 3, Rows: 2, SQL: "c"},
	}

	summary := NewPusher(db, 0, time.Second).Push(context.Background(), stmts)

	if len(db.calls) != 3 {
		t.Fatalf("calls = %v", db.calls)
	}
	if summary.Batches != 3 || summary.Failed != 1 || summary.Rows != 4 {
		t.Fatalf("summary = %+v", summary)
	}
	if summary.Err == nil || !strings.Contains(summary.Err.Error(), "batch 2") {
		t.Fatalf("err = %v", summary.Err)
	}
}

func TestPusherStopsOnCancel(t *testing.T) {
	db := &fakeExecer{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary := NewPusher(db, 1, time.Second).Push(ctx, []Statement{{Index: 1, SQL: "a"}, {Index: 2, SQL: "b"}})

	if len(db.calls) != 0 {
		t.Fatalf("calls = %v", db.calls)
	}
	if summary.Failed != 2 {
		t.Fatalf("summary = %+v", summary)
	}
}
