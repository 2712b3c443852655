package admin

import (
	"time"

	"github.com/danmuck/bbctl/internal/observability"
	"github.com/danmuck/bbctl/internal/sim"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// statusKey holds the runner snapshot a handler answered from.
const statusKey = "bbctl.status"

// snapshot reads the runner once per request and keeps it for the request log.
func (s *Server) snapshot(c *gin.Context) sim.Status {
	st := s.source.Status()
	c.Set(statusKey, st)
	return st
}

// requestLogger logs each admin request against the node. Requests answered
// from a runner snapshot also carry the scheduler state they reported.
func requestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		event := logger.Debug()
		if status >= 500 {
			event = logger.Error()
		} else if status >= 400 {
			event = logger.Warn()
		}
		event = event.
			Str("method", c.Request.Method).
			Str("path", routePath(c)).
			Int("status", status).
			Dur("duration", time.Since(start))

		if v, ok := c.Get(statusKey); ok {
			if st, ok := v.(sim.Status); ok {
				event = event.
					Bool("initialized", st.Scheduler.Initialized).
					Str("active_protocol", st.Scheduler.ActiveProtocol).
					Bool("on_air", st.OnAir).
					Int("pending", st.Pending).
					Uint32("now", st.Now)
			}
		}
		event.Msg("admin request")
	}
}

func requestMetrics(node string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		observability.RecordHTTPRequest(node, c.Request.Method, routePath(c), c.Writer.Status(), time.Since(start))
	}
}

// routePath prefers the registered route so unknown paths share one label.
func routePath(c *gin.Context) string {
	if p := c.FullPath(); p != "" {
		return p
	}
	return "unmatched"
}
