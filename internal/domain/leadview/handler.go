package leadview

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"leadintake/internal/domain/lead"
	"leadintake/internal/pkg/response"
)

// LeadLister supplies the snapshot the view is built from.
type LeadLister interface {
	ListAll(ctx context.Context) ([]lead.Lead, error)
}

// SeqSource reports the sequence number of the last published lead event.
type SeqSource interface {
	Seq() int64
}

// Handler serves the admin lead table
type Handler struct {
	leads    LeadLister
	events   SeqSource
	pageSize int
}

// NewHandler creates view handler. events may be nil.
func NewHandler(leads LeadLister, events SeqSource, pageSize int) *Handler {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Handler{leads: leads, events: events, pageSize: pageSize}
}

// RegisterRoutes registers admin view routes
func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	r.GET("/leads/view", handler.GetView)
}

type viewQuery struct {
	Search string `form:"search" binding:"max=200"`
	Status string `form:"status"`
	Sort   string `form:"sort"`
	Dir    string `form:"dir"`
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Seq    int64  `form:"seq"`
}

// GetView handles GET /api/leads/view
// @Summary Filtered, sorted and paginated lead table
// @Tags Admin Leads
// @Produce json
// @Security BearerAuth
// @Param search query string false "Substring of first or last name"
// @Param status query string false "All, Pending or Reached Out"
// @Param sort query string false "firstName, submittedAt, state or citizenship"
// @Param dir query string false "asc or desc"
// @Param page query int false "Page number (1-based)"
// @Param seq query int false "Client request sequence, echoed back"
// @Success 200 {object} response.Response{data=Page}
// @Failure 400 {object} response.Response
// @Router /leads/view [get]
func (h *Handler) GetView(c *gin.Context) {
	var q viewQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_QUERY", "Invalid query parameters")
		return
	}

	params, err := h.params(q)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_QUERY", err.Error())
		return
	}

	var eventSeq int64
	if h.events != nil {
		eventSeq = h.events.Seq()
	}

	leads, err := h.leads.ListAll(c.Request.Context())
	if err != nil {
		response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err)
		return
	}

	page := Build(leads, params)
	page.Seq = q.Seq
	page.EventSeq = eventSeq

	response.Success(c, http.StatusOK, page)
}

func (h *Handler) params(q viewQuery) (Params, error) {
	p := DefaultParams()
	p.PageSize = h.pageSize
	p.Search = q.Search
	if q.Page > 0 {
		p.Page = q.Page
	}

	var err error
	if p.Status, err = ParseStatus(q.Status); err != nil {
		return p, err
	}
	if p.SortKey, err = ParseSortKey(q.Sort); err != nil {
		return p, err
	}
	if p.Direction, err = ParseDirection(q.Dir); err != nil {
		return p, err
	}
	return p, nil
}
