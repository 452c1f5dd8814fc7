package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/unosuke/postpilot/internal/models"
	"github.com/unosuke/postpilot/internal/repository"
	"github.com/unosuke/postpilot/internal/transfer"
	"github.com/unosuke/postpilot/pkg/utils"
)

type AccountService interface {
	Create(ctx context.Context, ac *transfer.AccountCreation) (int64, error)
	List(ctx context.Context) ([]*models.Account, error)
	AccountInfo(ctx context.Context, id int64) (*models.Account, error)
	SetActive(ctx context.Context, id int64, active bool) error
	Remove(ctx context.Context, id int64) error
}

type accountService struct {
	ar        repository.AccountRepository
	secretKey string
}

func NewAccountService(ar repository.AccountRepository, secretKey string) AccountService {
	return &accountService{ar: ar, secretKey: secretKey}
}

// Tokens are encrypted at rest; the scheduler and jobs decrypt them just
// before calling the platform.
func (s *accountService) Create(ctx context.Context, ac *transfer.AccountCreation) (int64, error) {
	var err error

	if ac.Name == "" {
		err = errors.New("account name cannot be empty")
		slog.Info(err.Error())
		return 0, err
	}
	if ac.IGUserID == "" {
		err = errors.New("ig_user_id cannot be empty")
		slog.Info(err.Error())
		return 0, err
	}
	if ac.AccessToken == "" {
		err = errors.New("access_token cannot be empty")
		slog.Info(err.Error())
		return 0, err
	}

	existing, err := s.ar.GetByIGUserID(ctx, ac.IGUserID)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		err = errors.New("account with this ig_user_id already exists")
		slog.Info(err.Error())
		return 0, err
	}

	encryptedAccess, err := utils.Encrypt([]byte(ac.AccessToken), []byte(s.secretKey))
	if err != nil {
		return 0, err
	}

	account := models.Account{
		Name:        ac.Name,
		IGUserID:    ac.IGUserID,
		AccessToken: encryptedAccess,
	}

	if ac.RefreshToken != "" {
		encryptedRefresh, err := utils.Encrypt([]byte(ac.RefreshToken), []byte(s.secretKey))
		if err != nil {
			return 0, err
		}
		account.RefreshToken = sql.NullString{String: encryptedRefresh, Valid: true}
	}
	if ac.ExpiresIn > 0 {
		account.TokenExpiresAt = sql.NullTime{
			Time:  time.Now().Add(time.Duration(ac.ExpiresIn) * time.Second),
			Valid: true,
		}
	}

	return s.ar.Create(ctx, &account)
}

func (s *accountService) List(ctx context.Context) ([]*models.Account, error) {
	return s.ar.List(ctx)
}

func (s *accountService) AccountInfo(ctx context.Context, id int64) (*models.Account, error) {
	account, err := s.ar.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		err = errors.New("account doesn't exist")
		slog.Info(err.Error())
		return nil, err
	}
	return account, nil
}

func (s *accountService) SetActive(ctx context.Context, id int64, active bool) error {
	account, err := s.ar.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if account == nil {
		err = errors.New("account doesn't exist")
		slog.Info(err.Error())
		return err
	}
	return s.ar.SetActive(ctx, id, active)
}

func (s *accountService) Remove(ctx context.Context, id int64) error {
	return s.ar.Remove(ctx, id)
}
