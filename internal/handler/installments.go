package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/josecarlos19/top-vendas-sub000/internal/dto"
	"github.com/josecarlos19/top-vendas-sub000/internal/service"
)

type InstallmentHandler struct{ svc service.InstallmentService }

func NewInstallmentHandler(svc service.InstallmentService) *InstallmentHandler {
	return &InstallmentHandler{svc: svc}
}

// SetStatus settles or reopens one installment. Settling an installment
// that does not exist is a no-op and still answers 204.
func (h *InstallmentHandler) SetStatus(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req dto.SetInstallmentStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.SetStatus(c.Request.Context(), id, req); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *InstallmentHandler) ListBySale(c *gin.Context) {
	saleID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ListBySale(c.Request.Context(), saleID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
