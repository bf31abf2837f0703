package jsengine

import (
	"errors"
	"testing"
	"time"

	"github.com/dop251/goja"

	"github.com/jonwraymond/playground/code"
)

var _ code.Scheduler = (*Host)(nil)

func TestHost_DoRequiresStart(t *testing.T) {
	h := NewHost()
	if err := h.Do(func(*goja.Runtime) {}); !errors.Is(err, ErrNotRunning) {
		t.Errorf("expected ErrNotRunning, got %v", err)
	}
}

func TestHost_DoRunsOnLoop(t *testing.T) {
	h := NewHost()
	h.Start()
	defer h.Stop()

	var got int64
	err := h.Do(func(vm *goja.Runtime) {
		v, _ := vm.RunString("6 * 7")
		got = v.ToInteger()
	})
	if err != nil {
		t.Fatal(err)
	}
	if got != 42 {
		t.Errorf("got %d", got)
	}
}

func TestHost_PostRunsAfterCurrentTask(t *testing.T) {
	h := NewHost()
	h.Start()
	defer h.Stop()

	var order []string
	done := make(chan struct{})
	err := h.Do(func(*goja.Runtime) {
		h.Post(func() {
			order = append(order, "posted")
			close(done)
		})
		order = append(order, "current")
	})
	if err != nil {
		t.Fatal(err)
	}
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("posted task did not run")
	}
	if len(order) != 2 || order[0] != "current" || order[1] != "posted" {
		t.Errorf("order = %v", order)
	}
}

func TestHost_DoReraisesPanic(t *testing.T) {
	h := NewHost()
	h.Start()
	defer h.Stop()

	defer func() {
		if r := recover(); r != "boom" {
			t.Errorf("recovered %v, want boom", r)
		}
	}()
	_ = h.Do(func(*goja.Runtime) { panic("boom") })
}

func TestHost_StopIsIdempotent(t *testing.T) {
	h := NewHost()
	h.Start()
	h.Stop()
	h.Stop()
	if h.Running() {
		t.Error("host should be stopped")
	}
	h.Post(func() { t.Error("posted work must be dropped after Stop") })
}
