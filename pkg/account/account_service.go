package account

import (
	"Invoice-Capture/domain"
	"Invoice-Capture/entities"
	"Invoice-Capture/pkg/jwt"
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrInvalidCredentials = errors.New(domain.MessageInvalidCredentials)

type (
	AccountService interface {
		Login(ctx context.Context, req domain.LoginRequest) (domain.TokenResponse, error)
		Register(ctx context.Context, username, password string) (*entities.User, error)
		Authorize(ctx context.Context, token string) (string, error)
	}

	accountService struct {
		accountRepository AccountRepository
		jwtService        jwt.JWTService
	}
)

func NewAccountService(accountRepository AccountRepository, jwtService jwt.JWTService) AccountService {
	return &accountService{
		accountRepository: accountRepository,
		jwtService:        jwtService,
	}
}

func (s *accountService) Login(ctx context.Context, req domain.LoginRequest) (domain.TokenResponse, error) {
	user, err := s.accountRepository.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.TokenResponse{}, ErrInvalidCredentials
		}
		return domain.TokenResponse{}, err
	}
	if !user.IsActive {
		return domain.TokenResponse{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return domain.TokenResponse{}, ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateTokenUser(user.ID.String())
	if err != nil {
		return domain.TokenResponse{}, err
	}
	return domain.TokenResponse{Token: token}, nil
}

func (s *accountService) Register(ctx context.Context, username, password string) (*entities.User, error) {
	if username == "" || password == "" {
		return nil, domain.ErrBlankCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &entities.User{Username: username, Password: string(hash), IsActive: true}
	if err := s.accountRepository.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authorize resolves a token to an active user id.
func (s *accountService) Authorize(ctx context.Context, token string) (string, error) {
	userID, err := s.jwtService.GetUserIDByToken(token)
	if err != nil {
		return "", err
	}
	user, err := s.accountRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domain.ErrUserNotAllowed
		}
		return "", err
	}
	if !user.IsActive {
		return "", domain.ErrUserNotAllowed
	}
	return userID, nil
}
