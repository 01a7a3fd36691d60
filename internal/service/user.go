package service

import (
	"context"
	"errors"

	"artistconnection/internal/domain"

	log "github.com/sirupsen/logrus"
)

type UserService struct {
	userRepo   UserRepository
	artistRepo ArtistRepository
}

func NewUserService(userRepo UserRepository, artistRepo ArtistRepository) *UserService {
	return &UserService{
		userRepo:   userRepo,
		artistRepo: artistRepo,
	}
}

func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.userRepo.List(ctx)
}

func (s *UserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) UpdateEmailPreferences(ctx context.Context, userID string, prefs domain.EmailPreferences) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	user.EmailPreferences = prefs
	if err := s.userRepo.Update(ctx, user); err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Failed to update email preferences")
		return err
	}
	log.WithField("user_id", userID).Info("Email preferences updated")
	return nil
}

// FollowArtist adds an existing artist to the user's followed set.
func (s *UserService) FollowArtist(ctx context.Context, userID, artistName string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if _, err := s.artistRepo.GetByName(ctx, artistName); err != nil {
		if errors.Is(err, domain.ErrArtistNotFound) {
			return domain.ErrArtistNotFound
		}
		return err
	}

	for _, name := range user.FollowedArtists {
		if name == artistName {
			return domain.ErrAlreadyFollowing
		}
	}

	user.FollowedArtists = append(user.FollowedArtists, artistName)
	if err := s.userRepo.Update(ctx, user); err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Failed to follow artist")
		return err
	}
	return nil
}

func (s *UserService) UnfollowArtist(ctx context.Context, userID, artistName string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	kept := user.FollowedArtists[:0]
	found := false
	for _, name := range user.FollowedArtists {
		if name == artistName {
			found = true
			continue
		}
		kept = append(kept, name)
	}
	if !found {
		return domain.ErrNotFollowing
	}

	user.FollowedArtists = kept
	if err := s.userRepo.Update(ctx, user); err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Failed to unfollow artist")
		return err
	}
	return nil
}

// MonitorState adds a state to the user's monitored set and switches the
// local signing events preference on, mirroring the signup flow users expect.
func (s *UserService) MonitorState(ctx context.Context, userID, state string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	for _, st := range user.MonitoredStates {
		if st == state {
			return domain.ErrAlreadyMonitoring
		}
	}

	user.MonitoredStates = append(user.MonitoredStates, state)
	user.EmailPreferences.LocalSigningEvents = true
	if err := s.userRepo.Update(ctx, user); err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Failed to monitor state")
		return err
	}
	return nil
}

func (s *UserService) UnmonitorState(ctx context.Context, userID, state string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	kept := user.MonitoredStates[:0]
	found := false
	for _, st := range user.MonitoredStates {
		if st == state {
			found = true
			continue
		}
		kept = append(kept, st)
	}
	if !found {
		return domain.ErrNotMonitoring
	}

	user.MonitoredStates = kept
	if err := s.userRepo.Update(ctx, user); err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Failed to unmonitor state")
		return err
	}
	return nil
}
