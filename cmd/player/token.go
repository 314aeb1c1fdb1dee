package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.player.tech/internal/common/lifecycle"
	"go.player.tech/internal/common/repository"
	"go.player.tech/internal/config"
	"go.player.tech/internal/platform/auth/jwt"
	"go.player.tech/internal/platform/user"
)

const issueTokenUsage = "usage: player issue-token <userId> [ttl]"

// issueToken prints an access token for an existing user, signed with the
// server's configured key. It is how the first administrator reaches the API.
func issueToken(args []string) error {
	userID, ttl, err := parseIssueTokenArgs(args)
	if err != nil {
		return err
	}

	cfg, err := config.LoadWithFile()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	setupLogging(cfg.DevMode)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	app, cleanup, err := lifecycle.Initialize(ctx, lifecycle.AppOptions{Config: cfg, NeedsMongoDB: true})
	if err != nil {
		return err
	}
	defer cleanup()

	if _, err := user.NewRepository(app.DB).FindByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("user %s not found", userID)
		}
		return fmt.Errorf("failed to find user %s: %w", userID, err)
	}

	keys, err := initKeys(ctx, cfg, app.Secrets)
	if err != nil {
		return err
	}
	if keys.Ephemeral() {
		return errors.New("no signing key configured: set auth.signing_key_secret or the key paths, or run in dev mode")
	}

	token, err := newTokenService(keys, cfg).IssueAccessTokenFor(userID, ttl)
	if err != nil {
		return fmt.Errorf("failed to sign token: %w", err)
	}
	fmt.Println(token)
	return nil
}

// parseIssueTokenArgs reads "<userId> [ttl]". A missing ttl means the
// configured access token expiry.
func parseIssueTokenArgs(args []string) (string, time.Duration, error) {
	if len(args) == 0 || len(args) > 2 || args[0] == "" {
		return "", 0, errors.New(issueTokenUsage)
	}
	if len(args) == 1 {
		return args[0], 0, nil
	}
	ttl, err := time.ParseDuration(args[1])
	if err != nil || ttl <= 0 {
		return "", 0, fmt.Errorf("invalid ttl %q: %s", args[1], issueTokenUsage)
	}
	return args[0], ttl, nil
}

func newTokenService(keys *jwt.KeyManager, cfg *config.Config) *jwt.TokenService {
	return jwt.NewTokenService(keys, jwt.TokenServiceConfig{
		Issuer:            cfg.Auth.Issuer,
		AccessTokenExpiry: cfg.Auth.AccessTokenExpiry,
		ClaimsTokenExpiry: cfg.Auth.ClaimsTokenExpiry,
	})
}
