package extractors

import (
	"testing"

	"github.com/agritrust/batchcert/internal/models"
)

func TestParseDateNormalizes(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"2025-03-14", "2025-03-14"},
		{"2025/3/4", "2025-03-04"},
		{"12/31/2026", "2026-12-31"},
		{"March 5, 2025", "2025-03-05"},
		{"Mar 5 2025", "2025-03-05"},
	}

	for _, tc := range cases {
		got := parseDate(tc.raw)
		if got == nil {
			t.Errorf("parseDate(%q) = nil", tc.raw)
			continue
		}
		if got.ISO != tc.want {
			t.Errorf("parseDate(%q).ISO = %q, want %q", tc.raw, got.ISO, tc.want)
		}
		if got.Raw != tc.raw {
			t.Errorf("parseDate(%q).Raw = %q, want the input retained", tc.raw, got.Raw)
		}
	}
}

func TestParseDateLiteralPrecedence(t *testing.T) {
	// Trailing label text must not defeat normalization of the embedded
	// literal.
	got := parseDate("12/31/2026 keep refrigerated")
	if got == nil || got.ISO != "2026-12-31" {
		t.Fatalf("got %+v, want ISO 2026-12-31", got)
	}
	if got.Raw != "12/31/2026 keep refrigerated" {
		t.Errorf("Raw = %q, want full input", got.Raw)
	}
}

func TestParseDateNonstandardMonthAbbreviation(t *testing.T) {
	got := parseDate("SEPT 5, 2025")
	if got == nil || got.ISO != "2025-09-05" {
		t.Fatalf("got %+v, want ISO 2025-09-05", got)
	}
}

func TestParseDateUnparsableKeepsRaw(t *testing.T) {
	got := parseDate("next Tuesday")
	if got == nil {
		t.Fatal("expected a value carrying the raw input")
	}
	if got.ISO != "" || got.Raw != "next Tuesday" {
		t.Errorf("got %+v, want Raw-only", got)
	}
}

func TestParseDateInvalidCalendarDate(t *testing.T) {
	got := parseDate("13/13/2026")
	if got == nil {
		t.Fatal("expected a value carrying the raw input")
	}
	if got.ISO != "" {
		t.Errorf("ISO = %q, want empty for month 13", got.ISO)
	}
}

func TestParseDateEmpty(t *testing.T) {
	if got := parseDate("   "); got != nil {
		t.Errorf("got %+v, want nil", got)
	}
}

func TestColumnDate(t *testing.T) {
	if got := columnDate(nil); got != nil {
		t.Errorf("columnDate(nil) = %v, want nil", got)
	}
	if got := columnDate(&models.DateValue{ISO: "2025-01-02", Raw: "1/2/2025"}); got == nil || *got != "2025-01-02" {
		t.Errorf("got %v, want normalized form preferred", got)
	}
	if got := columnDate(&models.DateValue{Raw: "next Tuesday"}); got == nil || *got != "next Tuesday" {
		t.Errorf("got %v, want raw fallback", got)
	}
}
