package handlers

import (
	"net/http"

	"terminalpay/internal/controller/apperror"
	"terminalpay/internal/domain/gateway"
	"terminalpay/internal/domain/payment"
	"terminalpay/internal/domain/session"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	registry     *gateway.Registry
	sessions     *session.Model
	orchestrator *payment.Orchestrator
}

func NewPaymentHandler(registry *gateway.Registry, sessions *session.Model, orchestrator *payment.Orchestrator) PaymentHandler {
	return PaymentHandler{registry: registry, sessions: sessions, orchestrator: orchestrator}
}

type payRequest struct {
	// Amount is the operator-entered string, e.g. "12.50"; parsing happens
	// in the domain so the same rules apply to every entry point.
	Amount string `json:"amount" binding:"required"`
}

type transactionView struct {
	ID            string `json:"id"`
	State         string `json:"state"`
	DisplayAmount string `json:"display_amount"`
	LastError     string `json:"last_error,omitempty"`
}

func viewOf(tx payment.Transaction) transactionView {
	return transactionView{
		ID:            tx.ID,
		State:         string(tx.State),
		DisplayAmount: tx.DisplayAmount(),
		LastError:     tx.LastError,
	}
}

func (h *PaymentHandler) Pay(c *gin.Context) {
	current, ok := h.registry.Current()
	if !ok {
		writeError(c, apperror.ErrNoActiveGateway)
		return
	}

	var req payRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pay body", "details": err.Error()})
		return
	}

	tx, err := h.orchestrator.Pay(c.Request.Context(), current.Driver, h.sessions.Session(current.Label), req.Amount)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, viewOf(tx))
}

func (h *PaymentHandler) Check(c *gin.Context) {
	current, ok := h.registry.Current()
	if !ok {
		writeError(c, apperror.ErrNoActiveGateway)
		return
	}

	tx, err := h.orchestrator.CheckTransaction(c.Request.Context(), current.Driver, h.sessions.Session(current.Label))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, viewOf(tx))
}
