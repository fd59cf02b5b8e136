package rest

import (
	"terminalpay/internal/controller/rest/handlers"

	"github.com/gin-gonic/gin"
)

type Router struct {
	gateway handlers.GatewayHandler
	session handlers.SessionHandler
	payment handlers.PaymentHandler
}

func (r *Router) SetUp(engine *gin.Engine) {
	engine.GET("/gateways", r.gateway.List)
	engine.POST("/gateways/:label/select", r.gateway.Select)
	engine.GET("/gateways/current", r.gateway.Current)

	engine.GET("/readers", r.session.ListReaders)
	engine.POST("/readers/select", r.session.SelectReader)
	engine.POST("/readers/deselect", r.session.DeselectReader)
	engine.PUT("/credentials", r.session.SetCredentials)

	engine.POST("/payments", r.payment.Pay)
	engine.POST("/payments/check", r.payment.Check)
}

func NewRouter(gateway handlers.GatewayHandler, session handlers.SessionHandler, payment handlers.PaymentHandler) *Router {
	return &Router{
		gateway: gateway,
		session: session,
		payment: payment,
	}
}
