package health

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler for health API. The report id is echoed so callers can tell which
// report the server is answering for.
func Handler(runID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Report-Run", runID)
		c.Data(http.StatusOK, gin.MIMEPlain, []byte(http.StatusText(http.StatusOK)))
	}
}
