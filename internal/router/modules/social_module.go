package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/watchparty-api/internal/interface/http"
)

type SocialModule struct {
	Handler *handlers.SocialHandler
}

func NewSocialModule(h *handlers.SocialHandler) *SocialModule {
	return &SocialModule{Handler: h}
}

func (m *SocialModule) Register(rg *gin.RouterGroup) {
	rg.POST("/add-friend", m.Handler.AddFriend)
}
