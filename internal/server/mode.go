package server

import (
	"log/slog"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
)

// Mode picks the gin mode. An explicit GIN_MODE wins; otherwise gin only
// runs in debug mode when the process logs at debug level.
func Mode(level slog.Level) string {
	if mode := strings.TrimSpace(os.Getenv(gin.EnvGinMode)); mode != "" {
		return mode
	}
	if level <= slog.LevelDebug {
		return gin.DebugMode
	}
	return gin.ReleaseMode
}
