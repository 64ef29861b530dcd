package transport

import "strings"

// SliderMax is the normalized value of the slider at the end of the video.
const SliderMax = 1000

// Slider holds a normalized 0..SliderMax position. Setting the value calls
// the attached change callback, so programmatic updates must detach it first.
type Slider struct {
	value    int
	onChange func(int) error
}

// Attach installs the change callback.
func (s *Slider) Attach(fn func(int) error) {
	s.onChange = fn
}

// Detach removes the change callback and returns it for reattaching.
func (s *Slider) Detach() func(int) error {
	fn := s.onChange
	s.onChange = nil
	return fn
}

func (s *Slider) Attached() bool {
	return s.onChange != nil
}

func (s *Slider) Value() int {
	return s.value
}

// SetValue clamps v to the slider range and notifies the callback.
func (s *Slider) SetValue(v int) error {
	s.value = clampValue(v)
	if s.onChange != nil {
		return s.onChange(s.value)
	}
	return nil
}

// ValueAt maps a column inside a bar of the given width to a slider value.
func ValueAt(col, width int) int {
	if width <= 1 {
		return 0
	}
	return clampValue(col * SliderMax / (width - 1))
}

// Bar renders the slider as a single line of the given width.
func (s *Slider) Bar(width int) string {
	if width <= 0 {
		return ""
	}
	knob := 0
	if width > 1 {
		knob = s.value * (width - 1) / SliderMax
	}
	var b strings.Builder
	b.WriteString(strings.Repeat("━", knob))
	b.WriteString("●")
	b.WriteString(strings.Repeat("─", width-knob-1))
	return b.String()
}

func clampValue(v int) int {
	if v < 0 {
		return 0
	}
	if v > SliderMax {
		return SliderMax
	}
	return v
}
