package timecode

import (
	"errors"
	"testing"
)

func TestFormat(t *testing.T) {
	cases := map[int]string{
		-5:    "00:00",
		0:     "00:00",
		90:    "01:30",
		3599:  "59:59",
		3600:  "01:00:00",
		3723:  "01:02:03",
		36000: "10:00:00",
	}
	for in, want := range cases {
		if got := Format(in); got != want {
			t.Fatalf("Format(%d) = %s, want %s", in, got, want)
		}
	}
}

func TestParseStrict(t *testing.T) {
	if got, err := ParseStrict("02:00"); err != nil || got != 120 {
		t.Fatalf("expected 120, got %d (%v)", got, err)
	}
	if got, err := ParseStrict(" 1:02:03 "); err != nil || got != 3723 {
		t.Fatalf("expected 3723, got %d (%v)", got, err)
	}
	for _, bad := range []string{"5", "1:2:3:4", "a:10", "1:", "-1:30"} {
		_, err := ParseStrict(bad)
		var fe *FormatError
		if !errors.As(err, &fe) {
			t.Fatalf("expected FormatError for %q, got %v", bad, err)
		}
	}
}

func TestParseFlexibleDigits(t *testing.T) {
	cases := map[string]int{
		"5":       5,
		"45":      45,
		"130":     90,
		"1234":    12*60 + 34,
		"12345":   1*3600 + 23*60 + 45,
		"1:02:03": 3723,
		"2:00":    120,
		"1h 30":   90,
	}
	for in, want := range cases {
		got, err := ParseFlexible(in)
		if err != nil {
			t.Fatalf("ParseFlexible(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseFlexible(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestParseFlexibleKeepsLastSixDigitsAndSkipsRangeChecks(t *testing.T) {
	got, err := ParseFlexible("9999999")
	if err != nil {
		t.Fatalf("ParseFlexible: %v", err)
	}
	if got != 99*3600+99*60+99 {
		t.Fatalf("expected 362439, got %d", got)
	}
	got, err = ParseFlexible("12010203")
	if err != nil || got != 1*3600+2*60+3 {
		t.Fatalf("expected oldest digits dropped, got %d (%v)", got, err)
	}
}

func TestParseFlexibleRejectsNoDigits(t *testing.T) {
	for _, bad := range []string{"", "abc", "  "} {
		_, err := ParseFlexible(bad)
		var ie *InvalidTimeError
		if !errors.As(err, &ie) {
			t.Fatalf("expected InvalidTimeError for %q, got %v", bad, err)
		}
	}
	var fe *FormatError
	if _, err := ParseFlexible("1:2:3:4"); !errors.As(err, &fe) {
		t.Fatalf("expected colon path to report FormatError, got %v", err)
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	for _, in := range []string{"130", "01:30", "1:02:03", "5959", "100000"} {
		sec, err := ParseFlexible(in)
		if err != nil {
			t.Fatalf("ParseFlexible(%q): %v", in, err)
		}
		formatted := Format(sec)
		again, err := ParseFlexible(formatted)
		if err != nil || again != sec {
			t.Fatalf("round trip of %q via %s gave %d (%v)", in, formatted, again, err)
		}
	}
	if Format(90) != "01:30" {
		t.Fatalf("expected canonical 01:30")
	}
}

func TestLiveFormat(t *testing.T) {
	cases := map[string]string{
		"":          "",
		"1":         "1",
		"12":        "12",
		"123":       "1:23",
		"1:234":     "12:34",
		"12345":     "1:23:45",
		"123456":    "12:34:56",
		"1234567":   "23:45:67",
		"ab1c2":     "12",
		"01:02:03x": "01:02:03",
	}
	for in, want := range cases {
		if got := LiveFormat(in); got != want {
			t.Fatalf("LiveFormat(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestErrorMessages(t *testing.T) {
	if (&InvalidTimeError{}).Error() != "invalid time: empty value" {
		t.Fatalf("unexpected empty message")
	}
	if (&FormatError{Text: "x"}).Error() == "" {
		t.Fatalf("expected format message")
	}
}
