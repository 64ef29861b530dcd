package player

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

type failingStop struct {
	*Memory
}

func (f failingStop) Stop() error { return errors.New("stop failed") }

type engineBridge struct {
	*Memory
	order *[]string
}

func (e engineBridge) ReleaseEngine() error {
	*e.order = append(*e.order, "engine")
	return nil
}

func TestToggle(t *testing.T) {
	m := NewMemory(time.Minute)
	if err := m.Load("clip.mp4"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := Toggle(m); err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if playing, _ := m.IsPlaying(); !playing {
		t.Fatalf("expected playing after toggle")
	}
	if err := Toggle(m); err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if playing, _ := m.IsPlaying(); playing {
		t.Fatalf("expected paused after second toggle")
	}
}

func TestTeardownOrder(t *testing.T) {
	var order []string
	m := NewMemory(time.Minute)
	b := engineBridge{Memory: m, order: &order}
	if err := Teardown(b); err != nil {
		t.Fatalf("Teardown: %v", err)
	}
	calls := append(m.Calls(), order...)
	if !reflect.DeepEqual(calls, []string{"stop", "release", "engine"}) {
		t.Fatalf("unexpected teardown order %v", calls)
	}
	if err := Teardown(nil); err != nil {
		t.Fatalf("expected nil bridge teardown to succeed")
	}
}

func TestTeardownReportsFirstErrorButReleases(t *testing.T) {
	m := NewMemory(time.Minute)
	err := Teardown(failingStop{Memory: m})
	if err == nil || err.Error() != "stop failed" {
		t.Fatalf("expected stop error, got %v", err)
	}
	if _, err := m.PositionMs(); !errors.Is(err, ErrReleased) {
		t.Fatalf("expected bridge released despite stop error")
	}
}
