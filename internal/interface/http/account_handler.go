package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/watchparty-api/internal/application"
	"github.com/oksasatya/watchparty-api/internal/domain/entity"
	"github.com/oksasatya/watchparty-api/pkg/response"
)

type AccountService interface {
	Signup(ctx context.Context, in application.SignupInput) (*entity.User, error)
	Login(ctx context.Context, email, password string) (*entity.User, []*entity.User, error)
	Search(ctx context.Context, q string, size int) ([]entity.PublicProfile, error)
}

type AccountHandler struct {
	Svc            AccountService
	Logger         *logrus.Logger
	MaxAvatarBytes int64
}

func NewAccountHandler(svc AccountService, logger *logrus.Logger, maxAvatarBytes int64) *AccountHandler {
	return &AccountHandler{Svc: svc, Logger: logger, MaxAvatarBytes: maxAvatarBytes}
}

type signupRequest struct {
	Name           string `form:"name" binding:"required"`
	Username       string `form:"username"`
	Email          string `form:"email" binding:"required,email"`
	Password       string `form:"password" binding:"required"`
	DOB            string `form:"dob"`
	Gender         string `form:"gender"`
	Bio            string `form:"bio"`
	Preferences    string `form:"preferences"`
	Character      string `form:"character"`
	PlotTwist      string `form:"plotTwist"`
	WatchFrequency string `form:"watchFrequency"`
	Popcorn        string `form:"popcorn"`
	Soundtrack     string `form:"soundtrack"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Signup handles POST /api/signup (multipart form, optional "avatar" file).
func (h *AccountHandler) Signup(c *gin.Context) {
	if h.MaxAvatarBytes > 0 {
		// room for the text fields on top of the file
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxAvatarBytes+1<<20)
	}

	var req signupRequest
	if err := c.ShouldBind(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, http.StatusBadRequest, "avatar is too large")
			return
		}
		respondBindError(c, h.Logger, err, "name, email and password are required")
		return
	}

	in := application.SignupInput{
		Name:           req.Name,
		Username:       req.Username,
		Email:          req.Email,
		Password:       req.Password,
		DOB:            req.DOB,
		Gender:         req.Gender,
		Bio:            req.Bio,
		Preferences:    req.Preferences,
		Genres:         c.PostFormArray("genres"),
		Character:      req.Character,
		PlotTwist:      req.PlotTwist,
		WatchFrequency: req.WatchFrequency,
		Popcorn:        req.Popcorn,
		Soundtrack:     req.Soundtrack,
	}

	fh, err := c.FormFile("avatar")
	switch {
	case errors.Is(err, http.ErrMissingFile):
	case err != nil:
		response.Error(c, http.StatusBadRequest, "invalid avatar upload")
		return
	default:
		if h.MaxAvatarBytes > 0 && fh.Size > h.MaxAvatarBytes {
			response.Error(c, http.StatusBadRequest, "avatar is too large")
			return
		}
		f, err := fh.Open()
		if err != nil {
			respondError(c, h.Logger, err)
			return
		}
		defer f.Close()
		in.Avatar = &application.Upload{
			Reader:      f,
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
		}
	}

	u, err := h.Svc.Signup(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, "user created", gin.H{"user": signupUserJSON(u)})
}

// Login handles POST /api/login.
func (h *AccountHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, h.Logger, err, "email and password are required")
		return
	}

	u, friends, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, "login successful", gin.H{"user": loginUserJSON(u, friends)})
}

// Search handles GET /api/users/search?q=&size=.
func (h *AccountHandler) Search(c *gin.Context) {
	size, _ := strconv.Atoi(c.Query("size"))
	users, err := h.Svc.Search(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	if users == nil {
		users = []entity.PublicProfile{}
	}
	response.Success(c, http.StatusOK, "ok", gin.H{"users": users})
}
