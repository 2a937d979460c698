package routes

import (
	"testing"
	"time"

	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/config"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestSetupRegistersRouteTable(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.RateLimit.Requests = 10
	cfg.RateLimit.Duration = 60

	router := Setup(&Handlers{}, &Deps{
		JWTManager: utils.NewJWTManager("test-secret", 15*time.Minute, 24*time.Hour),
		Cfg:        cfg,
		Logger:     zerolog.Nop(),
	})

	registered := make(map[string]bool)
	for _, r := range router.Routes() {
		registered[r.Method+" "+r.Path] = true
	}

	want := []string{
		"GET /health",
		"POST /api/v1/auth/login",
		"POST /api/v1/invoices",
		"PATCH /api/v1/invoices/:id",
		"POST /api/v1/invoices/:id/attachments",
		"POST /api/v1/invoices/:id/attachments/multiple",
		"PATCH /api/v1/payments/:id",
		"DELETE /api/v1/payments/:id",
		"PATCH /api/v1/recurring/templates/:id",
		"POST /api/v1/recurring/templates/:id/generate",
		"POST /api/v1/recurring/process",
		"POST /api/v1/notifications/overdue",
		"POST /api/v1/notifications/reminders",
		"GET /api/v1/exports/invoices",
	}
	for _, route := range want {
		assert.True(t, registered[route], "missing route %s", route)
	}
}
