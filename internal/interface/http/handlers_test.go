package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/watchparty-api/internal/application"
	"github.com/oksasatya/watchparty-api/internal/domain/entity"
	"github.com/oksasatya/watchparty-api/pkg/validation"
)

type stubAccounts struct {
	signupIn   application.SignupInput
	avatarBody string
	signupErr  error
	loginErr   error
	user       *entity.User
	friends    []*entity.User
	found      []entity.PublicProfile
	searchSize int
}

func (s *stubAccounts) Signup(_ context.Context, in application.SignupInput) (*entity.User, error) {
	s.signupIn = in
	if in.Avatar != nil {
		b, _ := io.ReadAll(in.Avatar.Reader)
		s.avatarBody = string(b)
	}
	if s.signupErr != nil {
		return nil, s.signupErr
	}
	return s.user, nil
}

func (s *stubAccounts) Login(context.Context, string, string) (*entity.User, []*entity.User, error) {
	if s.loginErr != nil {
		return nil, nil, s.loginErr
	}
	return s.user, s.friends, nil
}

func (s *stubAccounts) Search(_ context.Context, _ string, size int) ([]entity.PublicProfile, error) {
	s.searchSize = size
	return s.found, nil
}

type stubSocial struct {
	friend *entity.User
	err    error
}

func (s *stubSocial) AddFriend(context.Context, string, string) (*entity.User, error) {
	return s.friend, s.err
}

type stubParties struct {
	party  *entity.WatchParty
	err    error
	emails []string
}

func (s *stubParties) Create(_ context.Context, _ string, emails []string) (*entity.WatchParty, error) {
	s.emails = emails
	return s.party, s.err
}

func (s *stubParties) Get(context.Context, string) (*entity.WatchParty, error) {
	return s.party, s.err
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestRouter(acc AccountService, soc SocialService, wp WatchPartyService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	validation.Init()
	r := gin.New()
	ah := NewAccountHandler(acc, testLogger(), 16)
	sh := NewSocialHandler(soc, testLogger())
	wh := NewWatchPartyHandler(wp, testLogger())
	r.POST("/api/signup", ah.Signup)
	r.POST("/api/login", ah.Login)
	r.GET("/api/users/search", ah.Search)
	r.POST("/api/add-friend", sh.AddFriend)
	r.POST("/api/create-watchparty", wh.Create)
	r.GET("/api/watchparties/:id", wh.Get)
	return r
}

func do(r http.Handler, method, path, contentType string, body io.Reader) (*httptest.ResponseRecorder, map[string]any) {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func signupForm(t *testing.T, fields map[string][]string, avatar string) (string, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, vs := range fields {
		for _, v := range vs {
			require.NoError(t, mw.WriteField(k, v))
		}
	}
	if avatar != "" {
		fw, err := mw.CreateFormFile("avatar", "me.png")
		require.NoError(t, err)
		_, err = fw.Write([]byte(avatar))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return mw.FormDataContentType(), &buf
}

func TestSignupHandler(t *testing.T) {
	acc := &stubAccounts{user: &entity.User{Name: "Alice", Username: "alice", Email: "alice@x.com", Avatar: "/uploads/1.png"}}
	r := newTestRouter(acc, nil, nil)

	ct, body := signupForm(t, map[string][]string{
		"name":           {"Alice"},
		"username":       {"alice"},
		"email":          {"alice@x.com"},
		"password":       {"secret1"},
		"preferences":    {`{"movies":true}`},
		"genres":         {"horror", "drama"},
		"watchFrequency": {"3"},
	}, "png!")
	w, out := do(r, http.MethodPost, "/api/signup", ct, body)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "user created", out["message"])
	assert.Equal(t, map[string]any{
		"name":     "Alice",
		"username": "alice",
		"email":    "alice@x.com",
		"avatar":   "/uploads/1.png",
		"friends":  []any{},
	}, out["user"])
	assert.Equal(t, []string{"horror", "drama"}, acc.signupIn.Genres)
	assert.Equal(t, "3", acc.signupIn.WatchFrequency)
	assert.Equal(t, `{"movies":true}`, acc.signupIn.Preferences)
	assert.Equal(t, "png!", acc.avatarBody)
}

func TestSignupHandler_Errors(t *testing.T) {
	t.Run("missing fields", func(t *testing.T) {
		r := newTestRouter(&stubAccounts{}, nil, nil)
		ct, body := signupForm(t, map[string][]string{"name": {"Alice"}}, "")
		w, out := do(r, http.MethodPost, "/api/signup", ct, body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.NotEmpty(t, out["message"])
	})

	t.Run("avatar too large", func(t *testing.T) {
		acc := &stubAccounts{}
		r := newTestRouter(acc, nil, nil)
		ct, body := signupForm(t, map[string][]string{
			"name": {"A"}, "email": {"a@x.com"}, "password": {"pw"},
		}, strings.Repeat("x", 17))
		w, out := do(r, http.MethodPost, "/api/signup", ct, body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "avatar is too large", out["message"])
		assert.Empty(t, acc.signupIn.Email, "service must not be called")
	})

	t.Run("duplicate", func(t *testing.T) {
		acc := &stubAccounts{signupErr: fmt.Errorf("signup: %w", application.ErrDuplicateKey)}
		r := newTestRouter(acc, nil, nil)
		ct, body := signupForm(t, map[string][]string{
			"name": {"A"}, "email": {"a@x.com"}, "password": {"pw"},
		}, "")
		w, _ := do(r, http.MethodPost, "/api/signup", ct, body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLoginHandler(t *testing.T) {
	acc := &stubAccounts{
		user:    &entity.User{Name: "Alice", Username: "alice", Email: "alice@x.com"},
		friends: []*entity.User{{Name: "Bob", Username: "bob", Email: "bob@x.com", Password: "hash"}},
	}
	r := newTestRouter(acc, nil, nil)

	w, out := do(r, http.MethodPost, "/api/login", "application/json", strings.NewReader(`{"email":"alice@x.com","password":"secret1"}`))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "login successful", out["message"])
	user := out["user"].(map[string]any)
	assert.Equal(t, "alice@x.com", user["email"])
	assert.Equal(t, []any{map[string]any{"name": "Bob", "username": "bob", "email": "bob@x.com", "avatar": ""}}, user["friends"])
	assert.NotContains(t, w.Body.String(), "hash")
}

func TestLoginHandler_Errors(t *testing.T) {
	cases := []struct {
		name string
		body string
		err  error
		want int
	}{
		{"missing password", `{"email":"alice@x.com"}`, nil, http.StatusBadRequest},
		{"malformed json", `{`, nil, http.StatusBadRequest},
		{"bad credentials", `{"email":"a@x.com","password":"x"}`, application.ErrUnauthorized, http.StatusUnauthorized},
		{"storage down", `{"email":"a@x.com","password":"x"}`, errors.New("dial tcp: refused"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter(&stubAccounts{loginErr: tc.err}, nil, nil)
			w, out := do(r, http.MethodPost, "/api/login", "application/json", strings.NewReader(tc.body))
			assert.Equal(t, tc.want, w.Code)
			assert.NotEmpty(t, out["message"])
			assert.NotContains(t, w.Body.String(), "dial tcp")
		})
	}
}

func TestLoginHandler_ReportsFieldErrors(t *testing.T) {
	r := newTestRouter(&stubAccounts{}, nil, nil)

	w, out := do(r, http.MethodPost, "/api/login", "application/json", strings.NewReader(`{"email":"alice@x.com"}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "email and password are required", out["message"])
	assert.Equal(t, map[string]any{"password": "is required"}, out["errors"])
}

func TestAddFriendHandler(t *testing.T) {
	soc := &stubSocial{friend: &entity.User{Name: "Bob", Username: "bob", Email: "bob@x.com", Avatar: "/uploads/b.png"}}
	r := newTestRouter(nil, soc, nil)

	w, out := do(r, http.MethodPost, "/api/add-friend", "application/json", strings.NewReader(`{"myEmail":"alice@x.com","friendEmail":"bob@x.com"}`))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"name": "Bob", "username": "bob", "email": "bob@x.com"}, out["friend"])

	w, _ = do(r, http.MethodPost, "/api/add-friend", "application/json", strings.NewReader(`{"myEmail":"alice@x.com"}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddFriendHandler_NotFound(t *testing.T) {
	notFound := &stubSocial{err: fmt.Errorf("lookup: %w", application.ErrNotFound)}
	r := newTestRouter(nil, notFound, nil)

	w, out := do(r, http.MethodPost, "/api/add-friend", "application/json", strings.NewReader(`{"myEmail":"alice@x.com","friendEmail":"ghost@x.com"}`))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Not Found", out["message"])
}

func TestCreateWatchPartyHandler(t *testing.T) {
	wp := &stubParties{party: &entity.WatchParty{ID: "p1", Name: "Movie Night", Participants: []string{"u1", "u2"}}}
	r := newTestRouter(nil, nil, wp)

	w, out := do(r, http.MethodPost, "/api/create-watchparty", "application/json",
		strings.NewReader(`{"name":"Movie Night","participantEmails":["x@x.com","y@x.com"]}`))
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, map[string]any{"id": "p1", "name": "Movie Night", "participants": []any{"u1", "u2"}}, out["watchParty"])
	assert.Equal(t, []string{"x@x.com", "y@x.com"}, wp.emails)

	w, _ = do(r, http.MethodPost, "/api/create-watchparty", "application/json", strings.NewReader(`{"name":"X","participantEmails":[]}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateWatchPartyHandler_BlankParticipant(t *testing.T) {
	t.Run("empty entry is rejected at binding", func(t *testing.T) {
		wp := &stubParties{party: &entity.WatchParty{ID: "p1"}}
		r := newTestRouter(nil, nil, wp)

		w, out := do(r, http.MethodPost, "/api/create-watchparty", "application/json",
			strings.NewReader(`{"name":"X","participantEmails":["x@x.com",""]}`))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, out["errors"], "participantEmails[1]")
		assert.Nil(t, wp.emails, "no party may be created")
	})

	t.Run("whitespace entry is rejected by the service", func(t *testing.T) {
		// blank entries fail before any repository is touched
		svc := application.NewWatchPartyService(nil, nil, nil, testLogger())
		r := newTestRouter(nil, nil, svc)

		w, _ := do(r, http.MethodPost, "/api/create-watchparty", "application/json",
			strings.NewReader(`{"name":"X","participantEmails":["x@x.com","  "]}`))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCreateWatchPartyHandler_PartialBackLinkIsInternal(t *testing.T) {
	wp := &stubParties{err: fmt.Errorf("%w: party p1: %w", application.ErrPartialBackLink, errors.New("conn reset"))}
	r := newTestRouter(nil, nil, wp)

	w, out := do(r, http.MethodPost, "/api/create-watchparty", "application/json",
		strings.NewReader(`{"name":"X","participantEmails":["x@x.com"]}`))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, internalMessage, out["message"])
}

func TestGetWatchPartyHandler(t *testing.T) {
	wp := &stubParties{party: &entity.WatchParty{ID: "p1", Name: "X", Participants: []string{"u1"}}}
	w, out := do(newTestRouter(nil, nil, wp), http.MethodGet, "/api/watchparties/p1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "p1", out["watchParty"].(map[string]any)["id"])
}

func TestSearchHandler(t *testing.T) {
	acc := &stubAccounts{found: []entity.PublicProfile{{Name: "Bob", Email: "bob@x.com"}}}
	w, out := do(newTestRouter(acc, nil, nil), http.MethodGet, "/api/users/search?q=bob&size=3", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, out["users"], 1)
	assert.Equal(t, 3, acc.searchSize)
}
