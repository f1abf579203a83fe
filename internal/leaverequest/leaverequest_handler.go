package leaverequest

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

func (h *Handler) Submit(c *gin.Context) {
	companyID := c.GetString("company_id")
	employeeID := c.GetString("employee_id")

	var req SubmitLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, mapped.Details)
		return
	}

	resp, err := h.service.Submit(c.Request.Context(), companyID, employeeID, req)
	if err != nil {
		mapped := apperror.ToHTTP(err)
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, mapped.Details)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	companyID := c.GetString("company_id")
	employeeID := c.Query("employee_id")

	resp, err := h.service.GetAll(c.Request.Context(), companyID, employeeID)
	if err != nil {
		mapped := apperror.ToHTTP(err)
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, mapped.Details)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetMine(c *gin.Context) {
	companyID := c.GetString("company_id")
	employeeID := c.GetString("employee_id")

	resp, err := h.service.GetAll(c.Request.Context(), companyID, employeeID)
	if err != nil {
		mapped := apperror.ToHTTP(err)
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, mapped.Details)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetByID(c *gin.Context) {
	companyID := c.GetString("company_id")
	id := c.Param("id")

	resp, err := h.service.GetByID(c.Request.Context(), companyID, id)
	if err != nil {
		mapped := apperror.ToHTTP(err)
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, mapped.Details)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Cancel(c *gin.Context) {
	companyID := c.GetString("company_id")
	employeeID := c.GetString("employee_id")
	id := c.Param("id")

	// The cancellation note is optional; a body-less POST cancels without one.
	var req CancelLeaveRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			mapped := apperror.ToHTTP(apperror.MapValidationError(err))
			response.Error(c, mapped.Status, mapped.Code, mapped.Message, mapped.Details)
			return
		}
	}

	resp, err := h.service.Cancel(c.Request.Context(), companyID, employeeID, id, req)
	if err != nil {
		mapped := apperror.ToHTTP(err)
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, mapped.Details)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Approve(c *gin.Context) {
	companyID := c.GetString("company_id")
	approverID := c.GetString("employee_id")
	id := c.Param("id")

	// Comments are optional on approval; only a present body is parsed.
	var req ApproveLeaveRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			mapped := apperror.ToHTTP(apperror.MapValidationError(err))
			response.Error(c, mapped.Status, mapped.Code, mapped.Message, mapped.Details)
			return
		}
	}

	resp, err := h.service.Approve(c.Request.Context(), companyID, approverID, id, req)
	if err != nil {
		mapped := apperror.ToHTTP(err)
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, mapped.Details)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Deny(c *gin.Context) {
	companyID := c.GetString("company_id")
	approverID := c.GetString("employee_id")
	id := c.Param("id")

	var req DenyLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, mapped.Details)
		return
	}

	resp, err := h.service.Deny(c.Request.Context(), companyID, approverID, id, req)
	if err != nil {
		mapped := apperror.ToHTTP(err)
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, mapped.Details)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
