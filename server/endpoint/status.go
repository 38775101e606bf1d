package endpoint

import (
	"context"

	"github.com/gin-gonic/gin"
)

// StatusSource returns a JSON-serializable snapshot, or an error when none
// is available yet.
type StatusSource func(ctx context.Context) (any, error)

// Status serves the value returned by source wrapped in a data envelope.
func Status(source StatusSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, err := source(c.Request.Context())
		if err != nil {
			RespondWithError(c, err)
			return
		}
		RespondOK(c, v)
	}
}
