package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/watchparty-api/internal/domain/entity"
	"github.com/oksasatya/watchparty-api/pkg/response"
)

type SocialService interface {
	AddFriend(ctx context.Context, selfEmail, friendEmail string) (*entity.User, error)
}

type SocialHandler struct {
	Svc    SocialService
	Logger *logrus.Logger
}

func NewSocialHandler(svc SocialService, logger *logrus.Logger) *SocialHandler {
	return &SocialHandler{Svc: svc, Logger: logger}
}

type addFriendRequest struct {
	MyEmail     string `json:"myEmail" binding:"required"`
	FriendEmail string `json:"friendEmail" binding:"required"`
}

// AddFriend handles POST /api/add-friend.
func (h *SocialHandler) AddFriend(c *gin.Context) {
	var req addFriendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, h.Logger, err, "myEmail and friendEmail are required")
		return
	}

	friend, err := h.Svc.AddFriend(c.Request.Context(), req.MyEmail, req.FriendEmail)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, "friend added", gin.H{"friend": friendJSON(friend)})
}
