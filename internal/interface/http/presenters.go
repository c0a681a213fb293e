package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/watchparty-api/internal/domain/entity"
)

func signupUserJSON(u *entity.User) gin.H {
	friends := u.Friends
	if friends == nil {
		friends = []string{}
	}
	return gin.H{
		"name":     u.Name,
		"username": u.Username,
		"email":    u.Email,
		"avatar":   u.Avatar,
		"friends":  friends,
	}
}

func loginUserJSON(u *entity.User, friends []*entity.User) gin.H {
	list := make([]entity.PublicProfile, 0, len(friends))
	for _, f := range friends {
		list = append(list, f.Public())
	}
	return gin.H{
		"name":     u.Name,
		"email":    u.Email,
		"username": u.Username,
		"avatar":   u.Avatar,
		"friends":  list,
	}
}

func friendJSON(u *entity.User) gin.H {
	return gin.H{"name": u.Name, "username": u.Username, "email": u.Email}
}

func watchPartyJSON(p *entity.WatchParty) gin.H {
	return gin.H{"id": p.ID, "name": p.Name, "participants": p.Participants}
}
