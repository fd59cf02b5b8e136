package handlers

import (
	"net/http"

	"terminalpay/internal/controller/apperror"
	"terminalpay/internal/domain/gateway"

	"github.com/gin-gonic/gin"
)

type GatewayHandler struct {
	registry *gateway.Registry
}

func NewGatewayHandler(registry *gateway.Registry) GatewayHandler {
	return GatewayHandler{registry: registry}
}

type gatewayView struct {
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

func (h *GatewayHandler) List(c *gin.Context) {
	active, _ := h.registry.Current()

	descriptors := h.registry.Descriptors()
	out := make([]gatewayView, 0, len(descriptors))
	for _, d := range descriptors {
		out = append(out, gatewayView{Label: d.Label, Active: d == active})
	}
	c.JSON(http.StatusOK, gin.H{"gateways": out})
}

func (h *GatewayHandler) Select(c *gin.Context) {
	if err := h.registry.Select(c.Param("label")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"active": c.Param("label")})
}

func (h *GatewayHandler) Current(c *gin.Context) {
	current, ok := h.registry.Current()
	if !ok {
		writeError(c, apperror.ErrNoActiveGateway)
		return
	}
	c.JSON(http.StatusOK, gatewayView{Label: current.Label, Active: true})
}
