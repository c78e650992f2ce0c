package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/artcove/artcove/internal/api/v1"
	"github.com/artcove/artcove/internal/logger"
	"github.com/artcove/artcove/internal/rest/middleware"
)

// Handlers groups the route handlers wired into the router
type Handlers struct {
	Payment *v1.PaymentHandler
	Account *v1.AccountHandler
}

// NewRouter builds the gin engine with middleware and v1 routes
func NewRouter(handlers Handlers, log *logger.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.ErrorHandler())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiV1 := router.Group("/v1")
	{
		payments := apiV1.Group("/payments")
		{
			payments.POST("/topup", handlers.Payment.TopUp)
		}

		accounts := apiV1.Group("/accounts")
		{
			accounts.GET("/:id", handlers.Account.GetAccount)
			accounts.GET("/:id/payments", handlers.Account.ListPayments)
		}
	}

	return router
}
