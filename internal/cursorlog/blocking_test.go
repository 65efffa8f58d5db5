package cursorlog

import (
	"context"
	"testing"
	"time"
)

func TestWaitForAppendWakesOnAdd(t *testing.T) {
	l := newTestLog(t, time.Hour)

	done := make(chan bool, 1)
	go func() {
		done <- l.WaitForAppend(5 * time.Second)
	}()

	time.Sleep(10 * time.Millisecond)
	if _, err := l.Add(context.Background(), [][]byte{[]byte("x")}, 0); err != nil {
		t.Fatalf("add: %v", err)
	}
	select {
	case woken := <-done:
		if !woken {
			t.Fatalf("waiter timed out despite append")
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("waiter never returned")
	}
}

func TestWaitForAppendTimesOut(t *testing.T) {
	l := newTestLog(t, time.Hour)
	if l.WaitForAppend(20 * time.Millisecond) {
		t.Fatalf("expected timeout with no appends")
	}
}

func TestAppendSignalCapturedBeforeCheck(t *testing.T) {
	l := newTestLog(t, time.Hour)
	ctx := context.Background()

	// capture first, then append: the captured channel must still fire
	ch := l.AppendSignal()
	if _, err := l.Add(ctx, [][]byte{[]byte("x")}, 0); err != nil {
		t.Fatalf("add: %v", err)
	}
	select {
	case <-ch:
	default:
		t.Fatalf("signal channel not closed by append")
	}
}
