// Package timecode converts between whole seconds and the text shown in and
// typed into the chapter editor.
package timecode

import (
	"fmt"
	"strconv"
	"strings"
)

// maxDigits bounds the raw-digit form; older digits are dropped first.
const maxDigits = 6

// Format renders seconds as mm:ss, or hh:mm:ss once an hour is reached.
// Negative input is treated as zero.
func Format(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// ParseStrict accepts exactly mm:ss or hh:mm:ss. Components are not range
// checked, so 00:75 is 75 seconds.
func ParseStrict(text string) (int, error) {
	parts := strings.Split(strings.TrimSpace(text), ":")
	values := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			return 0, &FormatError{Text: text}
		}
		values = append(values, n)
	}
	switch len(values) {
	case 2:
		return values[0]*60 + values[1], nil
	case 3:
		return values[0]*3600 + values[1]*60 + values[2], nil
	default:
		return 0, &FormatError{Text: text}
	}
}

// ParseFlexible accepts the colon forms of ParseStrict or free text from
// which the digits are read right to left: ss, mmss or hhmmss.
func ParseFlexible(text string) (int, error) {
	if strings.Contains(text, ":") {
		return ParseStrict(text)
	}
	digits := Digits(text)
	if digits == "" {
		return 0, &InvalidTimeError{Text: text}
	}
	h, m, s := split(digits)
	return atoi(h)*3600 + atoi(m)*60 + atoi(s), nil
}

// Digits returns the last six ASCII digits found in text.
func Digits(text string) string {
	var b strings.Builder
	for _, r := range text {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) > maxDigits {
		digits = digits[len(digits)-maxDigits:]
	}
	return digits
}

// LiveFormat punctuates the digits of text while it is being typed. It
// never fails; committing still goes through ParseFlexible.
func LiveFormat(text string) string {
	digits := Digits(text)
	h, m, s := split(digits)
	switch {
	case h != "":
		return h + ":" + m + ":" + s
	case m != "":
		return m + ":" + s
	default:
		return s
	}
}

func split(digits string) (h, m, s string) {
	n := len(digits)
	switch {
	case n > 4:
		return digits[:n-4], digits[n-4 : n-2], digits[n-2:]
	case n > 2:
		return "", digits[:n-2], digits[n-2:]
	default:
		return "", "", digits
	}
}

func atoi(digits string) int {
	if digits == "" {
		return 0
	}
	n, _ := strconv.Atoi(digits)
	return n
}
