package sessions

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/askfloor/backend/pkg/response"
)

// Handler exposes session operations over HTTP. Mutating question operations
// arrive over the realtime gateway instead.
type Handler struct {
	svc *Service
}

// NewHandler creates a sessions HTTP handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type createRequest struct {
	Name string `json:"name"`
}

// Create handles PUT /sessions/:id. The response is the only time the admin
// password is handed out.
func (h *Handler) Create(c *gin.Context) {
	id := c.Param("id")

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, "invalid request body")
		return
	}

	sess, err := h.svc.Create(c.Request.Context(), id, req.Name)
	if err != nil {
		if errors.Is(err, ErrSessionExists) {
			response.Conflict(c, "session id already taken")
			return
		}
		response.Internal(c, "failed to create session")
		return
	}
	response.Created(c, sess)
}

// Get handles GET /sessions/:id with an optional password query parameter.
// Without it the public view is returned; with the correct password the
// admin view. A wrong password looks exactly like a missing session.
func (h *Handler) Get(c *gin.Context) {
	id := c.Param("id")
	password := c.Query("password")

	sess, err := h.svc.Get(c.Request.Context(), id, password)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			response.NotFound(c, "no session found for "+id)
			return
		}
		response.Internal(c, "failed to load session")
		return
	}
	response.OK(c, sess)
}

// Dashboard handles GET /admin/sessions: the installation-wide admin listing
// of open and closed sessions, both sorted by name.
func (h *Handler) Dashboard(c *gin.Context) {
	open, err := h.svc.ListVisible(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to list sessions")
		return
	}
	closed, err := h.svc.ListClosed(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to list sessions")
		return
	}
	response.OK(c, gin.H{
		"open_sessions":   open,
		"closed_sessions": closed,
	})
}
