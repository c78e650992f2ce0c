package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	ierr "github.com/artcove/artcove/internal/errors"
	"github.com/artcove/artcove/internal/logger"
	"github.com/artcove/artcove/internal/service"
)

type AccountHandler struct {
	service service.AccountService
	log     *logger.Logger
}

func NewAccountHandler(service service.AccountService, log *logger.Logger) *AccountHandler {
	return &AccountHandler{service: service, log: log}
}

// @Summary Get an account
// @Description Get an account by ID with its balance normalized to major units
// @Tags Accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /accounts/{id} [get]
func (h *AccountHandler) GetAccount(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("id is required").
			WithHint("Account ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.GetAccount(c.Request.Context(), id)
	if err != nil {
		h.log.Error("Failed to get account", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary List an account's payments
// @Description List the recorded gateway payments credited to an account
// @Tags Accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} dto.ListPaymentsResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /accounts/{id}/payments [get]
func (h *AccountHandler) ListPayments(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("id is required").
			WithHint("Account ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.ListAccountPayments(c.Request.Context(), id)
	if err != nil {
		h.log.Error("Failed to list account payments", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
