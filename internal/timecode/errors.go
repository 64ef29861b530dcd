package timecode

import "fmt"

// FormatError is returned for colon-delimited text that is not mm:ss or
// hh:mm:ss with non-negative integer parts.
type FormatError struct {
	Text string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid time %q: use hh:mm:ss, mm:ss or digits only", e.Text)
}

// InvalidTimeError is returned when free text contains no digits at all.
type InvalidTimeError struct {
	Text string
}

func (e *InvalidTimeError) Error() string {
	if e.Text == "" {
		return "invalid time: empty value"
	}
	return fmt.Sprintf("invalid time %q: no digits", e.Text)
}
