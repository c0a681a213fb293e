package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/watchparty-api/internal/domain/entity"
	repo "github.com/oksasatya/watchparty-api/internal/domain/repository"
	"github.com/oksasatya/watchparty-api/pkg/mailer"
)

type WatchPartyService struct {
	Users    repo.UserRepository
	Parties  repo.WatchPartyRepository
	Notifier Notifier
	Logger   *logrus.Logger
}

func NewWatchPartyService(users repo.UserRepository, parties repo.WatchPartyRepository, notifier Notifier, logger *logrus.Logger) *WatchPartyService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &WatchPartyService{Users: users, Parties: parties, Notifier: notifier, Logger: logger}
}

// uniqueEmails normalises and de-duplicates participant emails. A blank
// entry is a malformed request, not something to skip.
func uniqueEmails(emails []string) ([]string, error) {
	seen := make(map[string]struct{}, len(emails))
	out := make([]string, 0, len(emails))
	for _, e := range emails {
		e = NormalizeEmail(e)
		if e == "" {
			return nil, newError(ErrInvalidArgument, "participantEmails must not contain blank entries")
		}
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	return out, nil
}

// Create registers a watch party for the given participants and links the
// party back onto each of them.
//
// Participants are resolved all-or-nothing: one unknown email and no party is
// created. Back-linking is not transactional; if it fails partway the party
// exists, the error wraps ErrPartialBackLink and the pending users are logged.
func (s *WatchPartyService) Create(ctx context.Context, name string, participantEmails []string) (*entity.WatchParty, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(participantEmails) == 0 {
		return nil, newError(ErrInvalidArgument, "name and participantEmails are required")
	}
	emails, err := uniqueEmails(participantEmails)
	if err != nil {
		return nil, err
	}

	users, err := s.Users.FindManyByEmail(ctx, emails)
	if err != nil {
		return nil, fmt.Errorf("resolve participants: %w", err)
	}
	if len(users) != len(emails) {
		return nil, newError(ErrNotFound, "one or more participants not found")
	}

	party := &entity.WatchParty{Name: name, Participants: make([]string, 0, len(users))}
	for _, u := range users {
		party.Participants = append(party.Participants, u.ID)
	}
	if err := s.Parties.Create(ctx, party); err != nil {
		return nil, fmt.Errorf("create watch party: %w", err)
	}
	metricWatchParties.Add(1)

	for i, u := range users {
		if err := s.Users.AddWatchParty(ctx, u.ID, party.ID); err != nil {
			metricPartialBackLinks.Add(1)
			if s.Logger != nil {
				s.Logger.WithError(err).WithFields(logrus.Fields{
					"watch_party_id": party.ID,
					"linked":         party.Participants[:i],
					"pending":        party.Participants[i:],
				}).Error("watch party back-links incomplete")
			}
			return nil, fmt.Errorf("%w: party %s: %w", ErrPartialBackLink, party.ID, err)
		}
		u.WatchParties = append(u.WatchParties, party.ID)
	}

	for _, u := range users {
		s.Notifier.Notify(ctx, mailer.Job{
			Type: mailer.WatchPartyInvite,
			To:   u.Email,
			Data: map[string]any{"Name": u.Name, "PartyName": party.Name, "Participants": len(users)},
		})
	}
	return party, nil
}

// Get returns a stored watch party.
func (s *WatchPartyService) Get(ctx context.Context, id string) (*entity.WatchParty, error) {
	p, err := s.Parties.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, newError(ErrNotFound, "watch party not found")
	}
	if err != nil {
		return nil, fmt.Errorf("find watch party: %w", err)
	}
	return p, nil
}
