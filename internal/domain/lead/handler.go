package lead

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"leadintake/internal/pkg/response"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

// Handler handles lead HTTP requests
type Handler struct {
	service  *Service
	hub      *Hub
	upgrader websocket.Upgrader
	log      *zap.Logger
}

// NewHandler creates lead handler. allowedOrigins are accepted for the
// websocket upgrade in addition to same-origin requests.
func NewHandler(service *Service, hub *Hub, allowedOrigins []string, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	origins := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = true
	}

	return &Handler{
		service: service,
		hub:     hub,
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || origins[origin] {
					return true
				}
				u, err := url.Parse(origin)
				return err == nil && u.Host == r.Host
			},
		},
	}
}

// SubmitLead handles POST /api/leads (public)
// @Summary Submit an immigration case inquiry
// @Tags Leads
// @Accept multipart/form-data
// @Produce json
// @Param firstName formData string true "First name"
// @Param lastName formData string true "Last name"
// @Param email formData string true "Email"
// @Param citizenship formData string true "Country of citizenship"
// @Param website formData string false "LinkedIn / personal website"
// @Param visaCategories formData string true "JSON array of visa categories"
// @Param helpText formData string true "How can we help you?"
// @Param resume formData file true "Resume"
// @Success 201 {object} Lead
// @Failure 400 {object} response.Response
// @Failure 413 {object} response.Response
// @Failure 422 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /leads [post]
func (h *Handler) SubmitLead(c *gin.Context) {
	var req SubmitLeadRequest
	if err := c.ShouldBind(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Request body is too large")
			return
		}
		response.Error(c, http.StatusBadRequest, "INVALID_FORM", "Invalid form body")
		return
	}

	cats, err := ParseVisaCategories(c.PostFormArray("visaCategories"))
	if err != nil {
		response.CustomError(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", map[string]string{
			"visaCategories": "Malformed visa category list",
		})
		return
	}
	req.VisaCategories = cats

	if fh, err := c.FormFile("resume"); err == nil {
		req.Resume = fh
	}

	if v := c.PostForm("submittedAt"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			req.SubmittedAt = &t
		}
	}

	lead, err := h.service.Submit(c.Request.Context(), &req)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			response.CustomError(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", verr.Fields)
			return
		}
		h.log.Error("lead submission failed", zap.Error(err))
		response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err)
		return
	}

	c.JSON(http.StatusCreated, lead)
}

// GetForm handles GET /api/form (public)
// @Summary Intake form description
// @Tags Leads
// @Produce json
// @Success 200 {object} response.Response
// @Router /form [get]
func (h *Handler) GetForm(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"sections": FormSchema})
}

// ListLeads handles GET /api/leads
// @Summary List all leads
// @Description Every lead in creation order; filtering and paging are done by /leads/view
// @Tags Admin Leads
// @Produce json
// @Security BearerAuth
// @Success 200 {array} Lead
// @Failure 500 {object} response.Response
// @Router /leads [get]
func (h *Handler) ListLeads(c *gin.Context) {
	leads, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err)
		return
	}

	c.JSON(http.StatusOK, leads)
}

// GetLead handles GET /api/leads/:id
// @Summary Get lead by ID
// @Tags Admin Leads
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lead ID"
// @Success 200 {object} response.Response{data=Lead}
// @Failure 404 {object} response.Response
// @Router /leads/{id} [get]
func (h *Handler) GetLead(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}

	lead, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, lead)
}

// UpdateStatus handles PATCH /api/leads
// @Summary Update lead state
// @Tags Admin Leads
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateLeadStatusRequest true "Lead id and new state"
// @Success 200 {object} Lead
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /leads [patch]
func (h *Handler) UpdateStatus(c *gin.Context) {
	var req UpdateLeadStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Body must be {\"id\": number, \"state\": string}")
		return
	}

	state, err := ParseState(req.State)
	if err != nil {
		h.writeError(c, err)
		return
	}

	lead, err := h.service.UpdateStatus(c.Request.Context(), req.ID, state)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, lead)
}

// ReachOut handles POST /api/leads/:id/reach-out
// @Summary Mark lead as reached out
// @Tags Admin Leads
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lead ID"
// @Success 200 {object} response.Response{data=Lead}
// @Failure 404 {object} response.Response
// @Router /leads/{id}/reach-out [post]
func (h *Handler) ReachOut(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}

	lead, err := h.service.AdvanceToReachedOut(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, lead)
}

// GetStats handles GET /api/leads/stats
// @Summary Lead counts by state
// @Tags Admin Leads
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=StatsResponse}
// @Router /leads/stats [get]
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err)
		return
	}

	response.Success(c, http.StatusOK, stats)
}

// Events handles GET /api/leads/ws?token=JWT
//
// Streams lead.created / lead.updated events to the admin view.
func (h *Handler) Events(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	h.hub.Register(conn)
	defer h.hub.Unregister(conn)

	done := make(chan struct{})
	defer close(done)
	go pingLoop(conn, done)

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Clients never send anything meaningful; reading keeps pong handling alive.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func pingLoop(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrLeadNotFound):
		response.Error(c, http.StatusNotFound, "LEAD_NOT_FOUND", "Lead not found")
	case errors.Is(err, ErrInvalidState):
		response.Error(c, http.StatusBadRequest, "INVALID_STATE", "State must be \"Pending\" or \"Reached Out\"")
	case errors.Is(err, ErrInvalidTransition):
		response.Error(c, http.StatusConflict, "INVALID_TRANSITION", "Lead has already been reached out")
	default:
		h.log.Error("lead request failed", zap.Error(err))
		response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err)
	}
}

func leadID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid lead ID")
		return 0, false
	}
	return id, true
}
