package session

import (
	"Invoice-Capture/domain"
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

type (
	// Authenticator exchanges credentials for a token.
	Authenticator interface {
		Authenticate(ctx context.Context, username, password string) (domain.TokenResponse, error)
	}

	SessionService interface {
		Login(ctx context.Context, username, password string) (Snapshot, error)
		Logout(ctx context.Context) error
		Restore(ctx context.Context) (Snapshot, bool, error)
		SelectRestaurant(ctx context.Context, restaurantID string) error
		Session() *Session
	}

	sessionService struct {
		session    *Session
		repository SessionRepository
		auth       Authenticator
		log        *logrus.Logger
	}
)

func NewSessionService(session *Session, repository SessionRepository, auth Authenticator, log *logrus.Logger) SessionService {
	return &sessionService{
		session:    session,
		repository: repository,
		auth:       auth,
		log:        log,
	}
}

func (s *sessionService) Session() *Session {
	return s.session
}

// Login authenticates against the API and persists the token and username.
// The password is sent as typed and never persisted.
func (s *sessionService) Login(ctx context.Context, username, password string) (Snapshot, error) {
	username = strings.TrimSpace(username)
	if username == "" || strings.TrimSpace(password) == "" {
		return Snapshot{}, domain.ErrBlankCredentials
	}

	res, err := s.auth.Authenticate(ctx, username, password)
	if err != nil {
		s.log.WithError(err).WithField("username", username).Warn("login failed")
		return Snapshot{}, err
	}

	token := strings.TrimSpace(res.Token)
	if token == "" {
		return Snapshot{}, &domain.MalformedResponseError{Err: domain.ErrTokenNotFound}
	}

	s.session.setCredentials(username, token)

	if err := s.repository.Set(ctx, KeyUsername, username); err != nil {
		return s.session.Snapshot(), fmt.Errorf("persist username: %w", err)
	}
	if err := s.repository.Set(ctx, KeyToken, token); err != nil {
		return s.session.Snapshot(), fmt.Errorf("persist token: %w", err)
	}
	if err := s.repository.Delete(ctx, keyLegacyPassword); err != nil {
		s.log.WithError(err).Warn("could not remove legacy password entry")
	}

	s.log.WithField("username", username).Info(domain.MessageSuccessLogin)
	return s.session.Snapshot(), nil
}

// Logout clears the in-memory session first so that concurrent API calls
// fail fast even if the store write below fails.
func (s *sessionService) Logout(ctx context.Context) error {
	s.session.clear()
	if err := s.repository.Delete(ctx, KeyUsername, KeyToken, KeyRestaurantID, keyLegacyPassword); err != nil {
		return fmt.Errorf("clear stored session: %w", err)
	}
	s.log.Info(domain.MessageSuccessLogout)
	return nil
}

// Restore loads a persisted session. The token is trusted as-is; it is not
// re-validated against the server and has no expiry check.
func (s *sessionService) Restore(ctx context.Context) (Snapshot, bool, error) {
	if err := s.repository.Delete(ctx, keyLegacyPassword); err != nil {
		return Snapshot{}, false, err
	}

	username, ok, err := s.repository.Get(ctx, KeyUsername)
	if err != nil || !ok {
		return Snapshot{}, false, err
	}
	token, ok, err := s.repository.Get(ctx, KeyToken)
	if err != nil || !ok || token == "" {
		return Snapshot{}, false, err
	}

	s.session.setCredentials(username, token)

	restaurantID, ok, err := s.repository.Get(ctx, KeyRestaurantID)
	if err != nil {
		return s.session.Snapshot(), true, err
	}
	if ok {
		s.session.setRestaurant(restaurantID)
	}
	return s.session.Snapshot(), true, nil
}

func (s *sessionService) SelectRestaurant(ctx context.Context, restaurantID string) error {
	if !s.session.IsAuthenticated() {
		return domain.ErrUnauthenticated
	}
	restaurantID = strings.TrimSpace(restaurantID)
	if restaurantID == "" {
		return domain.ErrNoRestaurantSelected
	}
	s.session.setRestaurant(restaurantID)
	return s.repository.Set(ctx, KeyRestaurantID, restaurantID)
}
