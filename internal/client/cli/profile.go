package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/Cabrel-loic/Expenses-tracking-web-app/internal/validation"
	"github.com/Cabrel-loic/Expenses-tracking-web-app/pkg/api"
)

// runProfile updates profile fields. Only the flags that were set are
// sent; the server leaves the rest unchanged.
func (c *Cli) runProfile(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("profile", flag.ContinueOnError)
	email := fs.String("email", "", "New email address")
	firstName := fs.String("first-name", "", "New first name")
	lastName := fs.String("last-name", "", "New last name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var req api.UpdateProfileRequest
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "email":
			req.Email = email
		case "first-name":
			req.FirstName = firstName
		case "last-name":
			req.LastName = lastName
		}
	})

	if req.Email == nil && req.FirstName == nil && req.LastName == nil {
		return errors.New("nothing to update, pass --email, --first-name or --last-name")
	}

	if req.Email != nil {
		if err := validation.ValidateEmail(*req.Email); err != nil {
			return err
		}
	}

	user, err := c.client.UpdateProfile(ctx, req)
	if err != nil {
		return describeError(err)
	}

	if err := c.session.UpdateUser(ctx, *user); err != nil {
		return err
	}

	c.io.Println("Profile updated.")
	return nil
}

func (c *Cli) runPassword(ctx context.Context) error {
	c.io.Println("=== Change Password ===")
	c.io.Println()

	oldPassword, err := c.io.ReadPassword("Current password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	newPassword, err := c.io.ReadPassword("New password (min 8 chars): ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	if err := validation.ValidatePassword(newPassword); err != nil {
		return err
	}

	confirm, err := c.io.ReadPassword("Confirm new password: ")
	if err != nil {
		return fmt.Errorf("failed to read confirmation: %w", err)
	}
	if newPassword != confirm {
		return errors.New("passwords do not match")
	}

	err = c.client.ChangePassword(ctx, api.ChangePasswordRequest{
		OldPassword: oldPassword,
		NewPassword: newPassword,
	})
	if err != nil {
		return describeError(err)
	}

	c.io.Println()
	c.io.Println("Password changed. Other sessions were logged out.")
	return nil
}

func (c *Cli) runAvatar(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: fintrack avatar <file>")
	}

	file, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open avatar file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	resp, err := c.client.UploadAvatar(ctx, args[0], file)
	if err != nil {
		return describeError(err)
	}

	c.io.Printf("Avatar uploaded: %s\n", resp.Avatar)
	return nil
}
