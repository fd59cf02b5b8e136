package handlers

import (
	"net/http"

	"terminalpay/internal/controller/apperror"
	"terminalpay/internal/domain/gateway"
	"terminalpay/internal/domain/session"

	"github.com/gin-gonic/gin"
)

// SessionHandler exposes reader discovery/selection and credential entry
// for the active gateway.
type SessionHandler struct {
	registry *gateway.Registry
	sessions *session.Model
}

func NewSessionHandler(registry *gateway.Registry, sessions *session.Model) SessionHandler {
	return SessionHandler{registry: registry, sessions: sessions}
}

func (h *SessionHandler) active(c *gin.Context) (*gateway.Descriptor, bool) {
	current, ok := h.registry.Current()
	if !ok {
		writeError(c, apperror.ErrNoActiveGateway)
		return nil, false
	}
	return current, true
}

// ListReaders discovers the readers registered to the active gateway's
// account. Gateways with operator-named devices report not supported.
func (h *SessionHandler) ListReaders(c *gin.Context) {
	current, ok := h.active(c)
	if !ok {
		return
	}

	sess := h.sessions.Session(current.Label)
	if sess.Credentials == nil {
		writeError(c, apperror.ErrAuth)
		return
	}

	readers, err := current.Driver.ListReaders(c.Request.Context(), *sess.Credentials)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"readers": readers})
}

func (h *SessionHandler) SelectReader(c *gin.Context) {
	current, ok := h.active(c)
	if !ok {
		return
	}

	var reader gateway.Reader
	if err := c.ShouldBindJSON(&reader); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reader body", "details": err.Error()})
		return
	}
	if reader.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reader id is required"})
		return
	}

	if err := h.sessions.SelectReader(current.Label, reader); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reader": reader})
}

func (h *SessionHandler) DeselectReader(c *gin.Context) {
	current, ok := h.active(c)
	if !ok {
		return
	}

	h.sessions.DeselectReader(current.Label)
	c.Status(http.StatusNoContent)
}

func (h *SessionHandler) SetCredentials(c *gin.Context) {
	current, ok := h.active(c)
	if !ok {
		return
	}

	var creds gateway.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid credentials body", "details": err.Error()})
		return
	}

	if err := h.sessions.SetCredentials(current.Label, creds); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
