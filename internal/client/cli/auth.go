package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Cabrel-loic/Expenses-tracking-web-app/internal/client/session"
	"github.com/Cabrel-loic/Expenses-tracking-web-app/internal/validation"
	"github.com/Cabrel-loic/Expenses-tracking-web-app/pkg/api"
)

func (c *Cli) runRegister(ctx context.Context) error {
	c.io.Println("=== Registration ===")
	c.io.Println()

	username, err := c.io.ReadInput("Username: ")
	if err != nil {
		return fmt.Errorf("failed to read username: %w", err)
	}
	if err := validation.ValidateUsername(username); err != nil {
		return err
	}

	email, err := c.io.ReadInput("Email: ")
	if err != nil {
		return fmt.Errorf("failed to read email: %w", err)
	}
	if err := validation.ValidateEmail(email); err != nil {
		return err
	}

	password, err := c.io.ReadPassword("Password (min 8 chars): ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	if err := validation.ValidatePassword(password); err != nil {
		return err
	}

	confirm, err := c.io.ReadPassword("Confirm password: ")
	if err != nil {
		return fmt.Errorf("failed to read confirmation: %w", err)
	}
	if password != confirm {
		return errors.New("passwords do not match")
	}

	resp, err := c.client.Register(ctx, api.RegisterRequest{
		Username:  username,
		Email:     email,
		Password:  password,
		Password2: confirm,
	})
	if err != nil {
		return describeError(err)
	}

	c.io.Println()
	c.io.Println("Registration successful!")
	c.io.Printf("Username: %s\n", resp.User.Username)
	c.io.Println()
	c.io.Println("Run 'fintrack login' to start using the service.")

	return nil
}

func (c *Cli) runLogin(ctx context.Context) error {
	c.io.Println("=== Login ===")
	c.io.Println()

	username, err := c.io.ReadInput("Username: ")
	if err != nil {
		return fmt.Errorf("failed to read username: %w", err)
	}

	password, err := c.io.ReadPassword("Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	resp, err := c.client.Login(ctx, api.LoginRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		return describeError(err)
	}

	if err := c.session.Begin(ctx, resp.Access, resp.Refresh, resp.User); err != nil {
		return err
	}

	c.io.Println()
	c.io.Printf("Logged in as %s\n", resp.User.Username)

	return nil
}

// runLogout drops the local session. The server is not called; the
// stored tokens simply expire on their own.
func (c *Cli) runLogout(ctx context.Context) error {
	if err := c.session.End(ctx); err != nil {
		if errors.Is(err, session.ErrNotAuthenticated) {
			c.io.Println("Not logged in.")
			return nil
		}
		return err
	}

	c.io.Println("Logged out.")
	return nil
}

func (c *Cli) runStatus(ctx context.Context) error {
	c.io.Println("=== Session Status ===")
	c.io.Println()

	active, err := c.session.Active(ctx)
	if err != nil {
		return fmt.Errorf("failed to check session: %w", err)
	}

	if !active {
		c.io.Println("Status: Not logged in")
		c.io.Println()
		c.io.Println("Run 'fintrack login' to authenticate.")
		return nil
	}

	user, err := c.session.User(ctx)
	if err != nil {
		return err
	}

	c.io.Println("Status: Logged in")
	c.io.Printf("Username: %s\n", user.Username)
	if user.Email != "" {
		c.io.Printf("Email:    %s\n", user.Email)
	}
	c.io.Printf("Joined:   %s\n", user.DateJoined.Format(time.RFC3339))

	return nil
}

// runWhoami fetches the live profile and refreshes the local cache
func (c *Cli) runWhoami(ctx context.Context) error {
	user, err := c.client.Me(ctx)
	if err != nil {
		return describeError(err)
	}

	if err := c.session.UpdateUser(ctx, *user); err != nil {
		return err
	}

	c.io.Printf("ID:        %s\n", user.ID)
	c.io.Printf("Username:  %s\n", user.Username)
	c.io.Printf("Email:     %s\n", user.Email)
	if user.FirstName != "" || user.LastName != "" {
		c.io.Printf("Name:      %s %s\n", user.FirstName, user.LastName)
	}
	if user.Avatar != "" {
		c.io.Printf("Avatar:    %s\n", user.Avatar)
	}

	return nil
}
