package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/itou/backend/internal/application/employeerecord"
	"github.com/itou/backend/internal/interfaces/http/dto"
)

// EmployeeRecordHandler serves the employee record API used by the
// structures' payroll software
type EmployeeRecordHandler struct {
	BaseHandler
	service   *employeerecord.Service
	baseURL   string
	logoutURL string
}

// NewEmployeeRecordHandler creates a new EmployeeRecordHandler
func NewEmployeeRecordHandler(service *employeerecord.Service, baseURL, logoutURL string) *EmployeeRecordHandler {
	return &EmployeeRecordHandler{
		service:   service,
		baseURL:   baseURL,
		logoutURL: logoutURL,
	}
}

// List godoc
// @Summary      List employee records
// @Description  Records of the caller's structures in the agency format, newest first, 20 per page.
// @Description  Without status only PROCESSED records are listed. A token caller without membership gets 403.
// @Tags         employee-records
// @Produce      json
// @Param        status query string false "Record status, any case" Enums(NEW, READY, SENT, REJECTED, PROCESSED, DISABLED)
// @Param        page query int false "Page number" minimum(1)
// @Success      200 {object} dto.PageResponse[employeerecord.EmployeeRecordResponse]
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     TokenAuth
// @Router       /api/v1/employee-records/ [get]
func (h *EmployeeRecordHandler) List(c *gin.Context) {
	principal, err := getPrincipal(c)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	page, err := pageParam(c)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	result, err := h.service.ListForUser(c.Request.Context(), principal.UserID, employeerecord.ListQuery{
		Status: c.Query("status"),
		Page:   page,
	})
	if employeerecord.IsNoMembership(err) {
		if principal.ViaToken {
			h.Forbidden(c, err.Error())
			return
		}
		c.Redirect(http.StatusFound, h.logoutURL)
		return
	}
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	if page > 1 && len(result.Items) == 0 {
		h.HandleDomainError(c, ErrInvalidPage)
		return
	}

	c.JSON(http.StatusOK, dto.NewPageResponse(result, absoluteURL(c, h.baseURL)))
}

// ListDummy godoc
// @Summary      List synthetic employee records
// @Description  Fixed sample listing for integrators, whatever the caller's memberships
// @Tags         employee-records
// @Produce      json
// @Param        page query int false "Page number" minimum(1)
// @Success      200 {object} dto.PageResponse[employeerecord.EmployeeRecordResponse]
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     TokenAuth
// @Router       /api/v1/dummy-employee-records/ [get]
func (h *EmployeeRecordHandler) ListDummy(c *gin.Context) {
	page, err := pageParam(c)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	result := employeerecord.DummyRecords(page)
	if page > 1 && len(result.Items) == 0 {
		h.HandleDomainError(c, ErrInvalidPage)
		return
	}

	c.JSON(http.StatusOK, dto.NewPageResponse(result, absoluteURL(c, h.baseURL)))
}
