package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/artcove/artcove/internal/api/dto"
	ierr "github.com/artcove/artcove/internal/errors"
	"github.com/artcove/artcove/internal/logger"
	"github.com/artcove/artcove/internal/service"
)

type PaymentHandler struct {
	ledger service.LedgerService
	log    *logger.Logger
}

func NewPaymentHandler(ledger service.LedgerService, log *logger.Logger) *PaymentHandler {
	return &PaymentHandler{ledger: ledger, log: log}
}

// @Summary Verify and credit a gateway payment
// @Description Verifies a claimed PayPal payment and credits the account balance exactly once
// @Tags Payments
// @Accept json
// @Produce json
// @Param payment body dto.TopUpRequest true "Claimed payment"
// @Success 200 {object} dto.TopUpResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 422 {object} ierr.ErrorResponse
// @Failure 502 {object} ierr.ErrorResponse
// @Router /payments/topup [post]
func (h *PaymentHandler) TopUp(c *gin.Context) {
	var req dto.TopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("Failed to bind JSON", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.ledger.SubmitTopUp(c.Request.Context(), &req)
	if err != nil {
		h.log.Error("Failed to process top-up", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
