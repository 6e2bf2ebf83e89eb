package internal

import (
	"strconv"
	"testing"
)

func TestSessionIDRoundTrip(t *testing.T) {
	sid, err := NewSessionID()
	if err != nil {
		t.Fatalf("NewSessionID failed: %v", err)
	}

	encoded := sid.String()
	if len(encoded) != 22 { // 16 bytes, unpadded base64url
		t.Fatalf("unexpected encoded length %d: %q", len(encoded), encoded)
	}

	parsed, err := ParseSessionID(encoded)
	if err != nil {
		t.Fatalf("ParseSessionID failed: %v", err)
	}
	if parsed != sid {
		t.Fatalf("round trip mismatch: %v != %v", parsed, sid)
	}
}

func TestParseSessionIDRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "!!!!", "short", "dG9vbG9uZ3Rvb2xvbmd0b29sb25ndG9vbG9uZw"} {
		if _, err := ParseSessionID(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

func TestNewOTPCodeWidthAndRange(t *testing.T) {
	for digits := 6; digits <= 8; digits++ {
		for i := 0; i < 50; i++ {
			code, err := NewOTPCode(digits)
			if err != nil {
				t.Fatalf("NewOTPCode(%d) failed: %v", digits, err)
			}
			if len(code) != digits {
				t.Fatalf("NewOTPCode(%d) = %q, wrong width", digits, code)
			}
			if code[0] == '0' {
				t.Fatalf("leading zero in %q", code)
			}
			if _, err := strconv.Atoi(code); err != nil {
				t.Fatalf("non-numeric code %q", code)
			}
		}
	}
}

func TestNewOTPCodeRejectsBadWidth(t *testing.T) {
	for _, digits := range []int{0, 5, 9, -1} {
		if _, err := NewOTPCode(digits); err == nil {
			t.Fatalf("expected error for width %d", digits)
		}
	}
}
