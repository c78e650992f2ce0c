package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/artcove/artcove/internal/types"
)

const headerRequestID = "X-Request-ID"

// RequestID attaches a request id to the context and response headers,
// generating one when the caller did not supply it
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(headerRequestID)
		if requestID == "" {
			requestID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_REQUEST)
		}

		ctx := types.SetRequestID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Header(headerRequestID, requestID)

		c.Next()
	}
}
