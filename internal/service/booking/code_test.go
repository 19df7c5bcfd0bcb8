package booking

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"time"
)

var codeRe = regexp.MustCompile(`^BK\d{6}[0-9A-F]{10}$`)

func TestNewCode(t *testing.T) {
	now := time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)

	code := NewCode(42, 7, now)

	if !codeRe.MatchString(code) {
		t.Fatalf("code %q does not match BK + yymmdd + 10 uppercase hex", code)
	}
	if !strings.HasPrefix(code, "BK260910") {
		t.Errorf("code %q should embed the booking date 260910", code)
	}
}

func TestNewCodeUnique(t *testing.T) {
	now := time.Now()

	seen := make(map[string]bool)
	for range 100 {
		code := NewCode(1, 1, now)
		if seen[code] {
			t.Fatalf("duplicate code %q for identical inputs", code)
		}
		seen[code] = true
	}
}

var suffixedCodeRe = regexp.MustCompile(`^BK\d{6}[0-9A-F]{10}(\d{2})?$`)

func TestUniqueCodeRetriesUntilFree(t *testing.T) {
	now := time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)

	var tried []string
	collisions := 3
	exists := func(_ context.Context, code string) (bool, error) {
		tried = append(tried, code)
		return len(tried) <= collisions, nil
	}

	code, err := uniqueCode(context.Background(), 42, 7, now, exists)
	if err != nil {
		t.Fatalf("uniqueCode: %v", err)
	}

	if len(tried) != collisions+1 {
		t.Fatalf("existence checks = %d, want %d", len(tried), collisions+1)
	}
	if code != tried[len(tried)-1] {
		t.Errorf("returned %q, want the last checked code %q", code, tried[len(tried)-1])
	}

	base := tried[0]
	for _, c := range tried {
		if !suffixedCodeRe.MatchString(c) {
			t.Errorf("candidate %q leaves the code format", c)
		}
		if !strings.HasPrefix(c, base) {
			t.Errorf("candidate %q should re-suffix the base %q, not stack suffixes", c, base)
		}
	}
}

func TestUniqueCodeNoCollision(t *testing.T) {
	now := time.Now()

	code, err := uniqueCode(context.Background(), 1, 2, now, func(context.Context, string) (bool, error) {
		return false, nil
	})
	if err != nil {
		t.Fatalf("uniqueCode: %v", err)
	}
	if !codeRe.MatchString(code) {
		t.Errorf("code %q should carry no suffix when the first candidate is free", code)
	}
}

func TestWithCollisionSuffix(t *testing.T) {
	base := NewCode(1, 2, time.Now())

	for range 50 {
		code := WithCollisionSuffix(base)
		if !strings.HasPrefix(code, base) {
			t.Fatalf("suffixed code %q should extend %q", code, base)
		}
		suffix := strings.TrimPrefix(code, base)
		if len(suffix) != 2 || suffix[0] < '1' || suffix[0] > '9' || suffix[1] < '0' || suffix[1] > '9' {
			t.Fatalf("suffix %q is not a 2-digit number in 10..99", suffix)
		}
	}
}
