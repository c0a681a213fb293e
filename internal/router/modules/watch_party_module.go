package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/watchparty-api/internal/interface/http"
)

type WatchPartyModule struct {
	Handler *handlers.WatchPartyHandler
}

func NewWatchPartyModule(h *handlers.WatchPartyHandler) *WatchPartyModule {
	return &WatchPartyModule{Handler: h}
}

func (m *WatchPartyModule) Register(rg *gin.RouterGroup) {
	rg.POST("/create-watchparty", m.Handler.Create)
	rg.GET("/watchparties/:id", m.Handler.Get)
}
