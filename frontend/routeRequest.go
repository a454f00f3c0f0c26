package frontend

import (
	"fmt"
	"strings"

	"github.com/bdfreeman1421/WoWAnalyzer/analysispool"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

func remoteAddr(c *gin.Context) string {
	if v := c.GetHeader("X-Forwarded-For"); v != "" {
		if idx := strings.IndexByte(v, ','); idx >= 0 {
			v = v[:idx]
		}
		return strings.TrimSpace(v)
	}
	if v := c.GetHeader("X-Real-Ip"); v != "" {
		return v
	}

	addr := c.Request.RemoteAddr
	if idx := strings.LastIndexByte(addr, ':'); idx >= 0 {
		addr = addr[:idx]
	}
	return addr
}

func (s *server) routeRequest(c *gin.Context) {
	ws, err := analysispool.WebsocketUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		fmt.Printf("%+v\n", errors.WithStack(err))
		return
	}

	var verify analysispool.Verifier
	if s.confirm != nil {
		addr := remoteAddr(c)
		verify = func(token string) bool {
			return s.confirm(addr, token)
		}
	}

	s.pool.Do(c.Request.Context(), ws, verify)
}
