package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/watchparty-api/internal/domain/entity"
	repo "github.com/oksasatya/watchparty-api/internal/domain/repository"
	"github.com/oksasatya/watchparty-api/pkg/mailer"
)

type UserService struct {
	Repo     repo.UserRepository
	Hasher   PasswordHasher
	Avatars  AvatarStore
	Index    UserIndex
	Notifier Notifier
	Logger   *logrus.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewUserService(repo repo.UserRepository, hasher PasswordHasher, avatars AvatarStore, index UserIndex, notifier Notifier, logger *logrus.Logger) *UserService {
	if index == nil {
		index = noopIndex{}
	}
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &UserService{
		Repo:     repo,
		Hasher:   hasher,
		Avatars:  avatars,
		Index:    index,
		Notifier: notifier,
		Logger:   logger,
	}
}

// Upload is an optional file coming with a form.
type Upload struct {
	Reader      io.Reader
	Filename    string
	ContentType string
}

// SignupInput mirrors the signup form. DOB, Preferences, Genres and
// WatchFrequency arrive as raw form strings.
type SignupInput struct {
	Name           string
	Username       string
	Email          string
	Password       string
	DOB            string
	Gender         string
	Bio            string
	Preferences    string
	Genres         []string
	Character      string
	PlotTwist      string
	WatchFrequency string
	Popcorn        string
	Soundtrack     string
	Avatar         *Upload
}

// NormalizeEmail is applied to every email before it reaches the directory.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ParsePreferences decodes the preferences JSON string. Empty means all false.
func ParsePreferences(raw string) (entity.Preferences, error) {
	var p entity.Preferences
	if strings.TrimSpace(raw) == "" {
		return p, nil
	}
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return p, newError(ErrInvalidArgument, "invalid preferences")
	}
	return p, nil
}

// ParseDOB accepts a plain date or an RFC 3339 timestamp.
func ParseDOB(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, newError(ErrInvalidArgument, "invalid date of birth")
}

// parseGenres accepts either repeated form values or one JSON array string.
func parseGenres(values []string) ([]string, error) {
	if len(values) == 1 && strings.HasPrefix(strings.TrimSpace(values[0]), "[") {
		var out []string
		if err := json.Unmarshal([]byte(values[0]), &out); err != nil {
			return nil, newError(ErrInvalidArgument, "invalid genres")
		}
		return out, nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *UserService) buildUser(in SignupInput) (*entity.User, error) {
	u := &entity.User{
		Name:     strings.TrimSpace(in.Name),
		Username: strings.TrimSpace(in.Username),
		Email:    NormalizeEmail(in.Email),
		Gender:   in.Gender,
		Bio:      in.Bio,
	}
	if u.Name == "" || u.Email == "" || in.Password == "" {
		return nil, newError(ErrInvalidArgument, "name, email and password are required")
	}

	var err error
	if u.DOB, err = ParseDOB(in.DOB); err != nil {
		return nil, err
	}
	if u.Preferences, err = ParsePreferences(in.Preferences); err != nil {
		return nil, err
	}
	if u.Quiz.Genres, err = parseGenres(in.Genres); err != nil {
		return nil, err
	}
	if f := strings.TrimSpace(in.WatchFrequency); f != "" {
		if u.Quiz.WatchFrequency, err = strconv.Atoi(f); err != nil || u.Quiz.WatchFrequency < 0 {
			return nil, newError(ErrInvalidArgument, "invalid watch frequency")
		}
	}
	u.Quiz.Character = in.Character
	u.Quiz.PlotTwist = in.PlotTwist
	u.Quiz.Popcorn = in.Popcorn
	u.Quiz.Soundtrack = in.Soundtrack
	return u, nil
}

// Signup creates an account. Email or username collisions fail with ErrDuplicateKey.
func (s *UserService) Signup(ctx context.Context, in SignupInput) (*entity.User, error) {
	u, err := s.buildUser(in)
	if err != nil {
		return nil, err
	}

	existing, err := s.Repo.FindByEmailOrUsername(ctx, u.Email, u.Username)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, fmt.Errorf("lookup existing user: %w", err)
	}
	if existing != nil {
		return nil, newError(ErrDuplicateKey, "user already exists")
	}

	if u.Password, err = s.Hasher.Hash(in.Password); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	if in.Avatar != nil && s.Avatars != nil {
		if u.Avatar, err = s.Avatars.Save(ctx, in.Avatar.Reader, in.Avatar.Filename, in.Avatar.ContentType); err != nil {
			return nil, fmt.Errorf("store avatar: %w", err)
		}
	}

	if err := s.Repo.Create(ctx, u); err != nil {
		s.discardAvatar(ctx, u.Avatar)
		if errors.Is(err, repo.ErrDuplicateKey) {
			// lost a race with a concurrent signup
			return nil, newError(ErrDuplicateKey, "user already exists")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	metricSignups.Add(1)

	if err := s.Index.Index(ctx, u); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("index user failed")
	}
	s.Notifier.Notify(ctx, mailer.Job{
		Type: mailer.Welcome,
		To:   u.Email,
		Data: map[string]any{"Name": u.Name},
	})
	return u, nil
}

// discardAvatar removes an avatar stored for a signup that did not go through.
func (s *UserService) discardAvatar(ctx context.Context, ref string) {
	if ref == "" || s.Avatars == nil {
		return
	}
	if err := s.Avatars.Delete(context.WithoutCancel(ctx), ref); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("avatar", ref).Warn("orphaned avatar not removed")
	}
}

// Login checks the credentials and returns the user with its friends resolved.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (*entity.User, []*entity.User, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, nil, newError(ErrInvalidArgument, "email and password are required")
	}

	u, err := s.Repo.FindByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		// same hashing cost as a wrong password so response time does not reveal the account
		s.Hasher.Check(password, s.unknownUserHash())
		metricLoginsFailed.Add(1)
		return nil, nil, newError(ErrUnauthorized, "invalid email or password")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("find user: %w", err)
	}
	if !s.Hasher.Check(password, u.Password) {
		metricLoginsFailed.Add(1)
		return nil, nil, newError(ErrUnauthorized, "invalid email or password")
	}

	friends, err := s.Repo.FindManyByID(ctx, u.Friends)
	if err != nil {
		return nil, nil, fmt.Errorf("load friends: %w", err)
	}
	return u, friends, nil
}

func (s *UserService) unknownUserHash() string {
	s.dummyOnce.Do(func() {
		h, err := s.Hasher.Hash("no-such-account")
		if err != nil && s.Logger != nil {
			s.Logger.WithError(err).Warn("dummy password hash")
		}
		s.dummyHash = h
	})
	return s.dummyHash
}

// Search looks up public profiles by name, username or email.
func (s *UserService) Search(ctx context.Context, q string, size int) ([]entity.PublicProfile, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, newError(ErrInvalidArgument, "query is required")
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	return s.Index.Search(ctx, q, size)
}
