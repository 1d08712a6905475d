package web

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// NewRouter wires the HTTP surface consumed by the dashboard frontend and
// the CSV download buttons.
func NewRouter(svc ReportService) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		c.Next()
		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Msg("http request")
	})

	h := NewHandlers(svc)

	r.GET("/healthz", h.Healthz)
	r.GET("/api/report", h.Report)
	r.GET("/api/report/detail.csv", h.DetailCSV)
	r.GET("/api/report/pivot.csv", h.PivotCSV)
	r.GET("/api/report/issues.csv", h.IssuesCSV)
	r.POST("/api/refresh", h.Refresh)

	return r
}
