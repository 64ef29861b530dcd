package transport

import (
	"errors"
	"testing"
	"unicode/utf8"
)

func TestSliderCallbackAttachDetach(t *testing.T) {
	var s Slider
	var seen []int
	s.Attach(func(v int) error {
		seen = append(seen, v)
		return nil
	})
	_ = s.SetValue(1500)
	if s.Value() != SliderMax || len(seen) != 1 || seen[0] != SliderMax {
		t.Fatalf("expected clamped value reported once, got %d %v", s.Value(), seen)
	}
	fn := s.Detach()
	if s.Attached() {
		t.Fatalf("expected slider detached")
	}
	_ = s.SetValue(-3)
	if s.Value() != 0 || len(seen) != 1 {
		t.Fatalf("expected detached set to skip the callback")
	}
	s.Attach(fn)
	_ = s.SetValue(10)
	if len(seen) != 2 {
		t.Fatalf("expected reattached callback to run")
	}
}

func TestSliderCallbackError(t *testing.T) {
	var s Slider
	s.Attach(func(int) error { return errors.New("seek failed") })
	if err := s.SetValue(5); err == nil {
		t.Fatalf("expected callback error")
	}
}

func TestSliderBar(t *testing.T) {
	var s Slider
	_ = s.SetValue(500)
	bar := s.Bar(11)
	if utf8.RuneCountInString(bar) != 11 {
		t.Fatalf("expected 11 cells, got %q", bar)
	}
	if []rune(bar)[5] != '●' {
		t.Fatalf("expected knob in the middle, got %q", bar)
	}
	if s.Bar(0) != "" {
		t.Fatalf("expected empty bar for zero width")
	}
}

func TestValueAt(t *testing.T) {
	if ValueAt(0, 11) != 0 || ValueAt(10, 11) != SliderMax || ValueAt(5, 11) != 500 {
		t.Fatalf("unexpected column mapping")
	}
	if ValueAt(40, 11) != SliderMax || ValueAt(-1, 11) != 0 {
		t.Fatalf("expected mapping to clamp")
	}
	if ValueAt(3, 1) != 0 {
		t.Fatalf("expected zero for degenerate width")
	}
}
