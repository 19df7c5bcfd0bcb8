package schedule

import (
	"strings"
	"testing"
	"time"

	"github.com/mkoval/cinetix/internal/domain"
)

var now = time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)

func at(hour, min int) time.Time {
	return time.Date(2026, 9, 11, hour, min, 0, 0, time.UTC)
}

func TestValidateTimes(t *testing.T) {
	tests := []struct {
		name       string
		start, end time.Time
		isUpdate   bool
		wantFields []string
		wantFatal  bool
	}{
		{
			name:  "valid evening slot",
			start: at(18, 0),
			end:   at(20, 0),
		},
		{
			name:       "end before start is fatal",
			start:      at(20, 0),
			end:        at(18, 0),
			wantFields: []string{"end_time"},
			wantFatal:  true,
		},
		{
			name:       "end equal to start is fatal",
			start:      at(18, 0),
			end:        at(18, 0),
			wantFields: []string{"end_time"},
			wantFatal:  true,
		},
		{
			name:       "too short",
			start:      at(18, 0),
			end:        at(18, 20),
			wantFields: []string{"duration"},
		},
		{
			name:       "too long",
			start:      at(14, 0),
			end:        at(18, 30),
			wantFields: []string{"duration"},
		},
		{
			name:       "past start on create",
			start:      time.Date(2026, 9, 9, 18, 0, 0, 0, time.UTC),
			end:        time.Date(2026, 9, 9, 20, 0, 0, 0, time.UTC),
			wantFields: []string{"start_time"},
		},
		{
			name:     "past start allowed on update",
			start:    time.Date(2026, 9, 9, 18, 0, 0, 0, time.UTC),
			end:      time.Date(2026, 9, 9, 20, 0, 0, 0, time.UTC),
			isUpdate: true,
		},
		{
			name:       "before opening hour",
			start:      at(7, 30),
			end:        at(9, 30),
			wantFields: []string{"start_time"},
		},
		{
			name:  "hour check ignores minutes at closing",
			start: at(21, 30),
			end:   at(23, 59),
		},
		{
			name:       "ends past midnight",
			start:      at(23, 0),
			end:        time.Date(2026, 9, 12, 0, 30, 0, 0, time.UTC),
			wantFields: []string{"end_time"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs, fatal := ValidateTimes(now, tt.start, tt.end, tt.isUpdate)

			if fatal != tt.wantFatal {
				t.Errorf("fatal = %v, want %v", fatal, tt.wantFatal)
			}
			if len(errs) != len(tt.wantFields) {
				t.Fatalf("got %d field errors %v, want %d", len(errs), errs, len(tt.wantFields))
			}
			for _, f := range tt.wantFields {
				if _, ok := errs[f]; !ok {
					t.Errorf("missing field error %q in %v", f, errs)
				}
			}
		})
	}
}

func TestSlotOverlaps(t *testing.T) {
	slot := domain.ScreeningSlot{Title: "Heat", Start: at(18, 0), End: at(20, 0)}

	tests := []struct {
		name       string
		start, end time.Time
		want       bool
	}{
		{"identical interval", at(18, 0), at(20, 0), true},
		{"starts inside", at(19, 0), at(21, 0), true},
		{"ends inside", at(17, 0), at(19, 0), true},
		{"contains slot", at(17, 0), at(21, 0), true},
		{"contained by slot", at(18, 30), at(19, 30), true},
		{"back to back before", at(16, 0), at(18, 0), false},
		{"back to back after", at(20, 0), at(22, 0), false},
		{"disjoint before", at(15, 0), at(16, 0), false},
		{"disjoint after", at(21, 0), at(23, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SlotOverlaps(tt.start, tt.end, slot); got != tt.want {
				t.Errorf("SlotOverlaps(%v, %v) = %v, want %v", tt.start, tt.end, got, tt.want)
			}
		})
	}
}

func TestOverlapMessage(t *testing.T) {
	slot := func(title string, sh, eh int) domain.ScreeningSlot {
		return domain.ScreeningSlot{Title: title, Start: at(sh, 0), End: at(eh, 0)}
	}

	t.Run("empty means no conflict", func(t *testing.T) {
		if msg := OverlapMessage(nil); msg != "" {
			t.Errorf("want empty message, got %q", msg)
		}
	})

	t.Run("single conflict", func(t *testing.T) {
		msg := OverlapMessage([]domain.ScreeningSlot{slot("Solaris", 18, 20)})
		want := "'Solaris' (18:00-20:00)"
		if !strings.Contains(msg, want) {
			t.Errorf("message %q does not contain %q", msg, want)
		}
	})

	t.Run("more than five conflicts are truncated", func(t *testing.T) {
		conflicts := []domain.ScreeningSlot{
			slot("A", 9, 10), slot("B", 10, 11), slot("C", 11, 12),
			slot("D", 12, 13), slot("E", 13, 14), slot("F", 14, 15),
			slot("G", 15, 16),
		}
		msg := OverlapMessage(conflicts)
		if !strings.Contains(msg, "and 2 more") {
			t.Errorf("message %q should mention the 2 extra conflicts", msg)
		}
		if strings.Contains(msg, "'F'") || strings.Contains(msg, "'G'") {
			t.Errorf("message %q should not list conflicts past the fifth", msg)
		}
	})
}

func TestValidateMovieFit(t *testing.T) {
	tests := []struct {
		name     string
		duration int
		start    time.Time
		end      time.Time
		wantErr  bool
	}{
		{"exact fit", 120, at(18, 0), at(20, 0), false},
		{"with trailer slack", 120, at(18, 0), at(20, 30), false},
		{"shorter than movie", 120, at(18, 0), at(19, 30), true},
		{"too much slack", 120, at(18, 0), at(20, 31), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateMovieFit(tt.duration, tt.start, tt.end)
			if got := len(errs) > 0; got != tt.wantErr {
				t.Errorf("errs = %v, wantErr = %v", errs, tt.wantErr)
			}
		})
	}
}

func TestValidatePrices(t *testing.T) {
	tests := []struct {
		name       string
		std, vip   int
		wantFields []string
	}{
		{"valid", 100, 150, nil},
		{"equal prices", 100, 100, nil},
		{"free screening", 0, 0, nil},
		{"negative standard", -1, 150, []string{"price_standard"}},
		{"negative vip", 100, -1, []string{"price_vip"}},
		{"vip cheaper than standard", 150, 100, []string{"price_vip"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidatePrices(tt.std, tt.vip)
			if len(errs) != len(tt.wantFields) {
				t.Fatalf("got %v, want fields %v", errs, tt.wantFields)
			}
			for _, f := range tt.wantFields {
				if _, ok := errs[f]; !ok {
					t.Errorf("missing field %q in %v", f, errs)
				}
			}
		})
	}
}
