package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"order-admin/internal/domain"
	"order-admin/internal/services"
)

const ordersPath = "/orders"

type Handler struct {
	dashboard     *services.OrderDashboard
	log           zerolog.Logger
	sessionTTL    time.Duration
	secureCookies bool
	metrics       http.Handler
}

func NewHandler(d *services.OrderDashboard, log zerolog.Logger, sessionTTL time.Duration, secureCookies bool) *Handler {
	return &Handler{
		dashboard:     d,
		log:           log,
		sessionTTL:    sessionTTL,
		secureCookies: secureCookies,
		metrics:       promhttp.Handler(),
	}
}

// WithMetricsHandler replaces the default /metrics handler, e.g. to serve a
// private registry.
func (h *Handler) WithMetricsHandler(m http.Handler) *Handler {
	h.metrics = m
	return h
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.SetHTMLTemplate(newTemplates())

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(h.metrics))

	ui := r.Group("/", ViewSession(h.sessionTTL, h.secureCookies))
	ui.GET("/", h.Dashboard)
	ui.GET("/log-in", h.LogIn)

	orders := ui.Group(ordersPath)
	orders.GET("", h.Orders)
	orders.GET("/view.json", h.OrdersJSON)
	orders.POST("/page", h.SetPage)
	orders.POST("/page-size", h.SetPageSize)
	orders.POST("/pending-status", h.SelectStatus)
	orders.POST("/refetch", h.Refetch)
	orders.POST("/:id/toggle", h.ToggleExpand)
	orders.POST("/:id/update-status", h.UpdateStatus)
}

func (h *Handler) Dashboard(c *gin.Context) {
	c.HTML(http.StatusOK, tmplDashboard, layoutData{Title: "Dashboard", Nav: sideMenu("/")})
}

// LogIn is where the side menu's Logout lands: the view session is dropped.
func (h *Handler) LogIn(c *gin.Context) {
	sess := currentSession(c)
	if err := h.dashboard.Unmount(c.Request.Context(), sess.ID); err != nil {
		h.log.Warn().Err(err).Str("session_id", sess.ID).Msg("could not discard view session")
	}
	clearViewSession(c, h.secureCookies)
	c.HTML(http.StatusOK, tmplLogin, layoutData{Title: "Log in", Nav: sideMenu("/log-in")})
}

func (h *Handler) Orders(c *gin.Context) {
	page, ok := h.page(c)
	if !ok {
		return
	}
	data := layoutData{Title: "Orders", Nav: sideMenu(ordersPath), Content: page}
	if page.IsLoading {
		data.Refresh = 1
	}
	c.HTML(http.StatusOK, tmplOrders, data)
}

func (h *Handler) OrdersJSON(c *gin.Context) {
	page, ok := h.page(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ViewResponse{
		View:      page.View,
		Table:     page.Table,
		IsLoading: page.IsLoading,
		IsError:   page.IsError,
		Error:     page.Error,
		Toast:     page.Toast,
	})
}

func (h *Handler) SetPage(c *gin.Context) {
	var req SetPageRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Page < 0 {
		req.Page = 0
	}
	h.intent(c, h.dashboard.SetPage(c.Request.Context(), currentSession(c).ID, req.Page))
}

func (h *Handler) SetPageSize(c *gin.Context) {
	var req SetPageSizeRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.intent(c, h.dashboard.SetPageSize(c.Request.Context(), currentSession(c).ID, req.Size))
}

func (h *Handler) ToggleExpand(c *gin.Context) {
	h.intent(c, h.dashboard.ToggleExpand(c.Request.Context(), currentSession(c).ID, c.Param("id")))
}

func (h *Handler) SelectStatus(c *gin.Context) {
	var req SelectStatusRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	status, err := domain.ParseDeliveryStatus(req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.intent(c, h.dashboard.SelectStatus(c.Request.Context(), currentSession(c).ID, req.OrderID, status))
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	_, err := h.dashboard.UpdateStatus(c.Request.Context(), currentSession(c).ID, c.Param("id"))
	h.intent(c, err)
}

func (h *Handler) Refetch(c *gin.Context) {
	h.dashboard.Refetch(c.Request.Context())
	h.intent(c, nil)
}

func (h *Handler) page(c *gin.Context) (services.Page, bool) {
	page, err := h.dashboard.View(c.Request.Context(), currentSession(c))
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return services.Page{}, false
	}
	return page, true
}

// intent finishes a state-changing request: validation errors are 400,
// anything else 500, success redirects back to the orders view.
func (h *Handler) intent(c *gin.Context, err error) {
	switch {
	case err == nil:
		c.Redirect(http.StatusSeeOther, ordersPath)
	case errors.Is(err, domain.ErrInvalidPageSize), errors.Is(err, domain.ErrUnknownStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
