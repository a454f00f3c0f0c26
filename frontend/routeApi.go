package frontend

import (
	"net/http"
	"sort"

	"github.com/bdfreeman1421/WoWAnalyzer/analysis"
	"github.com/bdfreeman1421/WoWAnalyzer/parser"
	"github.com/bdfreeman1421/WoWAnalyzer/parser/analyzers"
	"github.com/bdfreeman1421/WoWAnalyzer/share"
	"github.com/bdfreeman1421/WoWAnalyzer/wow"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

const (
	maxUploadBytes  = 64 << 20
	recaptchaHeader = "X-Recaptcha-Token"
)

func routeSpecs(c *gin.Context) {
	specs := make([]string, 0, len(analyzers.Presets))
	for name := range analyzers.Presets {
		specs = append(specs, name)
	}
	sort.Slice(specs, func(i, k int) bool {
		return wow.SpecOrder[specs[i]] < wow.SpecOrder[specs[k]]
	})

	c.JSON(http.StatusOK, specs)
}

func (s *server) routeStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"queue": s.pool.Len(),
	})
}

// routeAnalyze replays an uploaded log file and answers with its statistics.
// Only a few uploads are replayed at once; the rest are refused.
func (s *server) routeAnalyze(c *gin.Context) {
	if s.confirm != nil && !s.confirm(remoteAddr(c), c.GetHeader(recaptchaHeader)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "verification failed"})
		return
	}

	if !s.uploads.TryAcquire(1) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests, try again later"})
		return
	}
	defer s.uploads.Release(1)

	body := http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	lf, err := parser.ReadLogFile(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid log file"})
		return
	}

	fr, err := analysis.Analyze(lf)
	if err != nil {
		switch {
		case errors.Cause(err) == analyzers.ErrUnsupportedSpec:
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			if !share.IsContextClosedError(err) {
				sentry.CaptureException(err)
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "analysis failed"})
		}
		return
	}

	c.JSON(http.StatusOK, fr)
}
