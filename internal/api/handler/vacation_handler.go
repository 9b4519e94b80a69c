package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AlanDanielGC/hr-hub-main-sub001/internal/dto"
	"github.com/AlanDanielGC/hr-hub-main-sub001/internal/service"
	"github.com/AlanDanielGC/hr-hub-main-sub001/pkg/response"
)

// VacationHandler 假期日历 HTTP 处理器
type VacationHandler struct {
	vacSvc service.VacationService
}

// NewVacationHandler 创建 VacationHandler
func NewVacationHandler(vacSvc service.VacationService) *VacationHandler {
	return &VacationHandler{vacSvc: vacSvc}
}

// Calendar 已批准假期的 iCalendar
// GET /api/v1/vacations/calendar.ics?from=&to=
func (h *VacationHandler) Calendar(c *gin.Context) {
	var rng dto.DateRangeRequest
	if err := c.ShouldBindQuery(&rng); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	ics, err := h.vacSvc.Calendar(c.Request.Context(), &rng)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDateRange) {
			response.BadRequest(c, 14001, err.Error())
			return
		}
		response.InternalError(c)
		return
	}

	c.Header("Content-Disposition", `inline; filename="vacaciones.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(ics))
}
