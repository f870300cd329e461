package middleware

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/seo-optimizer/content-analyzer/logging"
)

// KeywordKey is the gin context key the analyze handler sets to the primary
// keyword of the report
const KeywordKey = "primaryKeyword"

// saveEvery is the number of analyze requests between statistics snapshots
const saveEvery = 100

// StatsMiddleware tracks visitors and analyze requests
func StatsMiddleware(stats *logging.Statistics) gin.HandlerFunc {
	var tracked atomic.Int64

	return func(c *gin.Context) {
		start := time.Now()
		stats.TrackVisitor(c.ClientIP())

		c.Next()

		if c.Request.Method != http.MethodPost || c.FullPath() != "/api/analyze" {
			return
		}
		stats.TrackAnalysis(c.GetString(KeywordKey), time.Since(start), c.Writer.Status() >= http.StatusBadRequest)

		if tracked.Add(1)%saveEvery == 0 {
			go func() {
				if err := stats.Save(); err != nil {
					logging.Log.Warnf("could not save statistics: %v", err)
				}
			}()
		}
	}
}
