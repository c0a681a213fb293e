package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/watchparty-api/internal/domain/entity"
	"github.com/oksasatya/watchparty-api/pkg/response"
)

type WatchPartyService interface {
	Create(ctx context.Context, name string, participantEmails []string) (*entity.WatchParty, error)
	Get(ctx context.Context, id string) (*entity.WatchParty, error)
}

type WatchPartyHandler struct {
	Svc    WatchPartyService
	Logger *logrus.Logger
}

func NewWatchPartyHandler(svc WatchPartyService, logger *logrus.Logger) *WatchPartyHandler {
	return &WatchPartyHandler{Svc: svc, Logger: logger}
}

type createWatchPartyRequest struct {
	Name              string   `json:"name" binding:"required"`
	ParticipantEmails []string `json:"participantEmails" binding:"required,min=1,dive,required"`
}

// Create handles POST /api/create-watchparty.
func (h *WatchPartyHandler) Create(c *gin.Context) {
	var req createWatchPartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, h.Logger, err, "name and participantEmails are required")
		return
	}

	party, err := h.Svc.Create(c.Request.Context(), req.Name, req.ParticipantEmails)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, "watch party created", gin.H{"watchParty": watchPartyJSON(party)})
}

// Get handles GET /api/watchparties/:id.
func (h *WatchPartyHandler) Get(c *gin.Context) {
	party, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, "ok", gin.H{"watchParty": watchPartyJSON(party)})
}
