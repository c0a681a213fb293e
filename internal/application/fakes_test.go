package application

import (
	"context"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/watchparty-api/internal/domain/entity"
	repo "github.com/oksasatya/watchparty-api/internal/domain/repository"
	"github.com/oksasatya/watchparty-api/pkg/helpers"
	"github.com/oksasatya/watchparty-api/pkg/mailer"
)

// memUsers is an in-memory UserRepository. failAddWatchPartyFor makes
// AddWatchParty fail for that user id.
type memUsers struct {
	mu     sync.Mutex
	byID   map[string]*entity.User
	order  []string
	nextID int

	failAddWatchPartyFor string
	failCreate           error
	addFriendCalls       int
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[string]*entity.User{}}
}

func clone(u *entity.User) *entity.User {
	c := *u
	c.Friends = slices.Clone(u.Friends)
	c.WatchParties = slices.Clone(u.WatchParties)
	return &c
}

func (m *memUsers) Create(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCreate != nil {
		return m.failCreate
	}
	for _, id := range m.order {
		e := m.byID[id]
		if e.Email == u.Email || (u.Username != "" && e.Username == u.Username) {
			return repo.ErrDuplicateKey
		}
	}
	m.nextID++
	u.ID = fmt.Sprintf("user-%d", m.nextID)
	u.Friends = []string{}
	u.WatchParties = []string{}
	m.byID[u.ID] = clone(u)
	m.order = append(m.order, u.ID)
	return nil
}

func (m *memUsers) find(match func(*entity.User) bool) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range m.order {
		if u := m.byID[id]; match(u) {
			return clone(u), nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m *memUsers) FindByID(_ context.Context, id string) (*entity.User, error) {
	return m.find(func(u *entity.User) bool { return u.ID == id })
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	return m.find(func(u *entity.User) bool { return u.Email == email })
}

func (m *memUsers) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	return m.find(func(u *entity.User) bool { return u.Username != "" && u.Username == username })
}

func (m *memUsers) FindByEmailOrUsername(_ context.Context, email, username string) (*entity.User, error) {
	return m.find(func(u *entity.User) bool {
		return u.Email == email || (username != "" && u.Username == username)
	})
}

func (m *memUsers) FindManyByEmail(_ context.Context, emails []string) ([]*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.User
	for _, id := range m.order {
		if u := m.byID[id]; slices.Contains(emails, u.Email) {
			out = append(out, clone(u))
		}
	}
	return out, nil
}

func (m *memUsers) FindManyByID(_ context.Context, ids []string) ([]*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.User
	for _, id := range m.order {
		if slices.Contains(ids, id) {
			out = append(out, clone(m.byID[id]))
		}
	}
	return out, nil
}

func (m *memUsers) AddFriend(_ context.Context, userID, friendID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addFriendCalls++
	u, ok := m.byID[userID]
	if !ok {
		return repo.ErrNotFound
	}
	if !slices.Contains(u.Friends, friendID) {
		u.Friends = append(u.Friends, friendID)
	}
	return nil
}

func (m *memUsers) AddWatchParty(_ context.Context, userID, partyID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if userID == m.failAddWatchPartyFor {
		return fmt.Errorf("connection reset")
	}
	u, ok := m.byID[userID]
	if !ok {
		return repo.ErrNotFound
	}
	if !slices.Contains(u.WatchParties, partyID) {
		u.WatchParties = append(u.WatchParties, partyID)
	}
	return nil
}

func (m *memUsers) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.order)
}

type memParties struct {
	mu     sync.Mutex
	byID   map[string]*entity.WatchParty
	nextID int
}

func newMemParties() *memParties {
	return &memParties{byID: map[string]*entity.WatchParty{}}
}

func (m *memParties) Create(_ context.Context, p *entity.WatchParty) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	p.ID = fmt.Sprintf("party-%d", m.nextID)
	c := *p
	c.Participants = slices.Clone(p.Participants)
	m.byID[p.ID] = &c
	return nil
}

func (m *memParties) FindByID(_ context.Context, id string) (*entity.WatchParty, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	c := *p
	return &c, nil
}

type recordingNotifier struct {
	jobs []mailer.Job
}

func (r *recordingNotifier) Notify(_ context.Context, job mailer.Job) {
	r.jobs = append(r.jobs, job)
}

type memAvatars struct {
	saved   []string
	deleted []string
}

func (m *memAvatars) Delete(_ context.Context, ref string) error {
	m.deleted = append(m.deleted, ref)
	return nil
}

func (m *memAvatars) Save(_ context.Context, r io.Reader, filename, _ string) (string, error) {
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	m.saved = append(m.saved, filename)
	return "/uploads/" + filename, nil
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func testHasher() PasswordHasher {
	return helpers.NewBcryptHasher(bcrypt.MinCost)
}

// countingHasher records which hashes Check was asked to compare against.
type countingHasher struct {
	PasswordHasher
	checked []string
}

func (h *countingHasher) Check(plain, hash string) bool {
	h.checked = append(h.checked, hash)
	return h.PasswordHasher.Check(plain, hash)
}
