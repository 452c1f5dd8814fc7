package job

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/unosuke/postpilot/internal/meta"
	"github.com/unosuke/postpilot/internal/models"
	"github.com/unosuke/postpilot/internal/repository"
	"github.com/unosuke/postpilot/internal/service"
	"github.com/unosuke/postpilot/pkg/utils"
)

// TokenRefreshJob renews access tokens for accounts whose token expires
// within the next half hour, plus any that already lapsed.
type TokenRefreshJob struct {
	ar        repository.AccountRepository
	client    meta.Client
	events    service.EventRecorder
	secretKey string
}

func NewTokenRefreshJob(ar repository.AccountRepository, client meta.Client, events service.EventRecorder, secretKey string) *TokenRefreshJob {
	return &TokenRefreshJob{
		ar:        ar,
		client:    client,
		events:    events,
		secretKey: secretKey,
	}
}

func (c *TokenRefreshJob) RefreshTokens() {
	ctx := context.Background()

	currentTime := time.Now()
	timeIn30Minutes := currentTime.Add(30 * time.Minute)

	accounts, err := c.ar.ListExpiring(ctx, currentTime, timeIn30Minutes)
	if err != nil {
		slog.Info(err.Error())
		return
	}

	var wg sync.WaitGroup

	concurrencyLimit := 10
	semaphore := make(chan struct{}, concurrencyLimit)

	for _, acc := range accounts {

		wg.Add(1)
		semaphore <- struct{}{}

		go func(acc *models.Account) {
			defer wg.Done()
			defer func() { <-semaphore }()

			if err := c.refreshAccount(ctx, acc); err != nil {
				slog.Info("unable to refresh token", "account_id", acc.ID)
				c.events.Record(ctx, models.LevelError, "jobs", "token_refresh_failed", err.Error(), map[string]any{
					"account_id": acc.ID,
				})
			}
		}(acc)
	}

	wg.Wait()
}

func (c *TokenRefreshJob) refreshAccount(ctx context.Context, acc *models.Account) error {
	refreshToken, err := utils.Decrypt(acc.RefreshToken.String, []byte(c.secretKey))
	if err != nil {
		return err
	}

	newToken, expiresAt, err := c.client.RefreshToken(ctx, refreshToken)
	if err != nil {
		return err
	}

	encryptedAccess, err := utils.Encrypt([]byte(newToken), []byte(c.secretKey))
	if err != nil {
		return err
	}

	// The platform's long-lived tokens double as their own refresh token.
	encryptedRefresh, err := utils.Encrypt([]byte(newToken), []byte(c.secretKey))
	if err != nil {
		return err
	}

	if err := c.ar.SetToken(ctx, acc.ID, encryptedAccess, encryptedRefresh, expiresAt); err != nil {
		return err
	}

	c.events.Record(ctx, models.LevelInfo, "jobs", "token_refreshed", "access token renewed", map[string]any{
		"account_id": acc.ID,
	})
	return nil
}
