package leavebalance

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-pto/internal/shared/apperror"
	"go-pto/internal/shared/response"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) ListMine(c *gin.Context) {
	companyID := c.GetString("company_id")
	employeeID := c.GetString("employee_id")

	resp, err := h.service.ListMine(c.Request.Context(), companyID, employeeID)
	if err != nil {
		mapped := apperror.ToHTTP(err)
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, mapped.Details)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Summary(c *gin.Context) {
	companyID := c.GetString("company_id")
	employeeID := c.GetString("employee_id")

	resp, err := h.service.Summary(c.Request.Context(), companyID, employeeID)
	if err != nil {
		mapped := apperror.ToHTTP(err)
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, mapped.Details)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
