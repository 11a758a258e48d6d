package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/tasklist/internal/client/storage"
	"github.com/iudanet/tasklist/pkg/api"
)

func (c *Cli) readUsername(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}

	username, err := c.io.ReadInput("Username: ")
	if err != nil {
		return "", fmt.Errorf("failed to read username: %w", err)
	}
	if username == "" {
		return "", fmt.Errorf("username cannot be empty")
	}
	return username, nil
}

func (c *Cli) runRegister(ctx context.Context, args []string) error {
	c.io.Println("=== Registration ===")

	username, err := c.readUsername(args)
	if err != nil {
		return err
	}

	password, err := c.getPassword("Password: ")
	if err != nil {
		return err
	}

	// Подтверждение нужно только при ручном вводе
	if c.interactivePassword() {
		confirm, err := c.io.ReadPassword("Confirm password: ")
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		if password != confirm {
			return fmt.Errorf("passwords do not match")
		}
	}

	if _, err := c.apiClient.Register(ctx, api.RegisterRequest{Username: username, Password: password}); err != nil {
		return err
	}

	c.io.Println("✓ Registration successful!")
	c.io.Printf("Username: %s\n", username)
	c.io.Println("Please run 'tasklist login' to start using the service.")

	return nil
}

func (c *Cli) runLogin(ctx context.Context, args []string) error {
	c.io.Println("=== Login ===")

	username, err := c.readUsername(args)
	if err != nil {
		return err
	}

	password, err := c.getPassword("Password: ")
	if err != nil {
		return err
	}

	resp, err := c.apiClient.Login(ctx, api.LoginRequest{Username: username, Password: password})
	if err != nil {
		return err
	}

	// Новая сессия заменяет предыдущую
	authData := &storage.AuthData{
		Username:  username,
		Token:     resp.Token,
		ExpiresAt: tokenExpiry(resp.Token),
	}
	if err := c.store.SaveAuth(ctx, authData); err != nil {
		return fmt.Errorf("failed to save auth data: %w", err)
	}

	c.io.Println("✓ Login successful!")
	c.io.Printf("Username: %s\n", username)
	if authData.ExpiresAt > 0 {
		c.io.Printf("Token expires: %s\n", time.Unix(authData.ExpiresAt, 0).Format(time.RFC3339))
	}

	return nil
}

func (c *Cli) runLogout(ctx context.Context) error {
	authData, err := c.store.GetAuth(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrAuthNotFound) {
			c.io.Println("Not logged in.")
			return nil
		}
		return fmt.Errorf("failed to get auth data: %w", err)
	}

	// Токены на сервере не отзываются: удаляем только локальную сессию и кэш
	if err := c.store.ClearTasks(ctx, authData.Username); err != nil {
		return fmt.Errorf("failed to clear cached tasks: %w", err)
	}
	if err := c.store.DeleteAuth(ctx); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}

	c.io.Println("✓ Logout successful!")
	c.io.Println("Your local session has been deleted.")

	return nil
}

func (c *Cli) runStatus(ctx context.Context) error {
	c.io.Println("=== Status ===")

	if health, err := c.apiClient.Health(ctx); err != nil {
		c.io.Printf("Server: unavailable (%v)\n", err)
	} else {
		c.io.Printf("Server: %s (version %s)\n", health.Status, health.Version)
	}

	authData, err := c.store.GetAuth(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrAuthNotFound) {
			c.io.Println("Session: not authenticated")
			c.io.Println("Run 'tasklist login' to authenticate.")
			return nil
		}
		return fmt.Errorf("failed to get auth data: %w", err)
	}

	active, err := c.store.IsAuthenticated(ctx)
	if err != nil {
		return fmt.Errorf("failed to check session: %w", err)
	}

	c.io.Printf("Username: %s\n", authData.Username)
	if active {
		c.io.Println("Session: active")
	} else {
		c.io.Println("⚠️  Token has expired. Please login again.")
	}

	if authData.ExpiresAt == 0 {
		c.io.Println("Token expires: unknown")
		return nil
	}

	expiresAt := time.Unix(authData.ExpiresAt, 0)
	c.io.Printf("Token expires: %s\n", expiresAt.Format(time.RFC3339))
	if active {
		c.io.Printf("Time remaining: %s\n", expiresAt.Sub(c.now()).Round(time.Second))
	}

	return nil
}
