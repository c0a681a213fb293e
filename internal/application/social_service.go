package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/watchparty-api/internal/domain/entity"
	repo "github.com/oksasatya/watchparty-api/internal/domain/repository"
	"github.com/oksasatya/watchparty-api/pkg/mailer"
)

// SocialService maintains the symmetric friendship edges between users.
type SocialService struct {
	Repo     repo.UserRepository
	Notifier Notifier
	Logger   *logrus.Logger
}

func NewSocialService(repo repo.UserRepository, notifier Notifier, logger *logrus.Logger) *SocialService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &SocialService{Repo: repo, Notifier: notifier, Logger: logger}
}

func (s *SocialService) findUser(ctx context.Context, email, missing string) (*entity.User, error) {
	u, err := s.Repo.FindByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, newError(ErrNotFound, missing)
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

// AddFriend makes the two users friends of each other. Calling it again, or
// in the other direction, changes nothing. Returns the friend.
func (s *SocialService) AddFriend(ctx context.Context, selfEmail, friendEmail string) (*entity.User, error) {
	selfEmail, friendEmail = NormalizeEmail(selfEmail), NormalizeEmail(friendEmail)
	if selfEmail == "" || friendEmail == "" {
		return nil, newError(ErrInvalidArgument, "myEmail and friendEmail are required")
	}
	if selfEmail == friendEmail {
		return nil, newError(ErrInvalidArgument, "cannot add yourself as a friend")
	}

	me, err := s.findUser(ctx, selfEmail, "user not found")
	if err != nil {
		return nil, err
	}
	friend, err := s.findUser(ctx, friendEmail, "friend not found")
	if err != nil {
		return nil, err
	}

	changed := false
	if !me.HasFriend(friend.ID) {
		if err := s.Repo.AddFriend(ctx, me.ID, friend.ID); err != nil {
			return nil, fmt.Errorf("add friend to %s: %w", me.ID, err)
		}
		me.Friends = append(me.Friends, friend.ID)
		changed = true
	}
	if !friend.HasFriend(me.ID) {
		if err := s.Repo.AddFriend(ctx, friend.ID, me.ID); err != nil {
			// first side is already written; the edge is one-directional until retried
			if s.Logger != nil {
				s.Logger.WithError(err).WithFields(logrus.Fields{
					"user_id":   me.ID,
					"friend_id": friend.ID,
				}).Error("friendship left one-sided")
			}
			return nil, fmt.Errorf("add friend to %s: %w", friend.ID, err)
		}
		friend.Friends = append(friend.Friends, me.ID)
		changed = true
	}

	if changed {
		metricFriendships.Add(1)
		s.Notifier.Notify(ctx, mailer.Job{
			Type: mailer.FriendAdded,
			To:   friend.Email,
			Data: map[string]any{"Name": friend.Name, "FriendName": me.Name, "FriendEmail": me.Email},
		})
	}
	return friend, nil
}
