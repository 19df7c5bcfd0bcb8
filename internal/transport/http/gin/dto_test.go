package httpgin

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

// Price bounds are enforced by the schedule validator, not by binding
// tags, so a free screening must survive request binding.
func TestScreeningRequestBindsZeroPrices(t *testing.T) {
	gin.SetMode(gin.TestMode)

	body := `{"movie_id":1,"hall_id":2,"starts_at":"2026-09-01T10:00:00Z",` +
		`"ends_at":"2026-09-01T12:00:00Z","price_standard":0,"price_vip":0}`

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("POST", "/admin/screenings", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	var req ScreeningRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		t.Fatalf("ShouldBindJSON: %v", err)
	}
	if req.PriceStandard != 0 || req.PriceVIP != 0 {
		t.Errorf("prices = %d/%d, want 0/0", req.PriceStandard, req.PriceVIP)
	}
	if req.MovieID != 1 || req.HallID != 2 {
		t.Errorf("ids = %d/%d, want 1/2", req.MovieID, req.HallID)
	}
}
