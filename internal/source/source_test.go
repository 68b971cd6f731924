// internal/source/source_test.go
package source

import (
	"testing"
	"time"
)

func TestMailbox_FreshOncePerPut(t *testing.T) {
	var box Mailbox

	if _, fresh := box.Poll(); fresh {
		t.Fatalf("empty mailbox reported fresh")
	}

	box.Put(Command{PeriodUs: 20000})

	cmd, fresh := box.Poll()
	if !fresh {
		t.Fatalf("expected fresh command")
	}
	if cmd.PeriodUs != 20000 {
		t.Fatalf("PeriodUs = %d, want 20000", cmd.PeriodUs)
	}

	// Same snapshot again: stale, but still readable.
	cmd, fresh = box.Poll()
	if fresh {
		t.Fatalf("second poll must be stale")
	}
	if cmd.PeriodUs != 20000 {
		t.Fatalf("stale poll lost the value")
	}
}

func TestMailbox_LastWriteWins(t *testing.T) {
	var box Mailbox

	box.Put(Command{PeriodUs: 10000})
	box.Put(Command{PeriodUs: 30000})

	cmd, fresh := box.Poll()
	if !fresh || cmd.PeriodUs != 30000 {
		t.Fatalf("got (%d, %v), want (30000, true)", cmd.PeriodUs, fresh)
	}
}

func TestNew_Validation(t *testing.T) {
	client := clientFunc(func() (Command, error) { return Command{}, nil })

	if _, err := New(Config{Interval: 0}, client); err == nil {
		t.Fatalf("expected error for zero interval")
	}
	if _, err := New(Config{Interval: time.Millisecond}, nil); err == nil {
		t.Fatalf("expected error for nil client")
	}
	if _, err := New(Config{Interval: time.Millisecond}, client); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

type clientFunc func() (Command, error)

func (f clientFunc) ReadCommand() (Command, error) { return f() }
