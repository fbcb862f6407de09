package monitoring

import (
	"errors"
	"testing"
	"time"
)

type fakeMonitor struct {
	errs   []error
	tags   map[string]string
	panics []any
}

func (f *fakeMonitor) CaptureException(err error, tags map[string]string) {
	f.errs = append(f.errs, err)
	f.tags = tags
}
func (f *fakeMonitor) CapturePanic(v any)    { f.panics = append(f.panics, v) }
func (f *fakeMonitor) Flush(time.Duration) {}

func TestCaptureException(t *testing.T) {
	f := &fakeMonitor{}
	Init(f)
	defer Init(NopMonitor{})

	CaptureException(nil, nil)
	CaptureException(errors.New("boom"), map[string]string{"vehicle": "Leaf"})
	if len(f.errs) != 1 || f.tags["vehicle"] != "Leaf" {
		t.Fatalf("unexpected capture %+v", f)
	}
}

func TestRecoverRepanics(t *testing.T) {
	f := &fakeMonitor{}
	Init(f)
	defer Init(NopMonitor{})

	defer func() {
		if r := recover(); r != "bad" {
			t.Fatalf("expected re-panic, got %v", r)
		}
		if len(f.panics) != 1 {
			t.Fatalf("panic not captured")
		}
	}()
	func() {
		defer Recover()
		panic("bad")
	}()
}
