// Package cli implements the interactive commands of the client.
package cli

import (
	"context"
	"fmt"

	"github.com/Cabrel-loic/Expenses-tracking-web-app/internal/client/api"
	"github.com/Cabrel-loic/Expenses-tracking-web-app/internal/client/iocli"
	"github.com/Cabrel-loic/Expenses-tracking-web-app/internal/client/session"
)

// Cli holds the dependencies shared by every command
type Cli struct {
	io      iocli.IO
	client  *api.Client
	session *session.Manager
}

// NewCli creates the command dispatcher
func NewCli(io iocli.IO, client *api.Client, sess *session.Manager) *Cli {
	return &Cli{
		io:      io,
		client:  client,
		session: sess,
	}
}

// Run executes a single command
func (c *Cli) Run(ctx context.Context, command string, args []string) error {
	switch command {
	case "register":
		return c.runRegister(ctx)
	case "login":
		return c.runLogin(ctx)
	case "logout":
		return c.runLogout(ctx)
	case "status":
		return c.runStatus(ctx)
	case "whoami":
		return c.runWhoami(ctx)
	case "profile":
		return c.runProfile(ctx, args)
	case "password":
		return c.runPassword(ctx)
	case "avatar":
		return c.runAvatar(ctx, args)
	case "add":
		return c.runAdd(ctx, args)
	case "list":
		return c.runList(ctx, args)
	case "get":
		return c.runGet(ctx, args)
	case "update":
		return c.runUpdate(ctx, args)
	case "delete":
		return c.runDelete(ctx, args)
	case "categories":
		return c.runCategories(ctx, args)
	case "summary":
		return c.runSummary(ctx, args)
	default:
		c.PrintUsage()
		return fmt.Errorf("unknown command: %s", command)
	}
}

// PrintUsage prints the command reference
func (c *Cli) PrintUsage() {
	c.io.Println(usageText)
}

const usageText = `
FinTrack Client

Usage:
  fintrack [OPTIONS] COMMAND

Options:
  --version       Show version information
  --server URL    Server URL (default: http://localhost:8080)
  --db PATH       Path to local database (default: fintrack-client.db)

Commands:
  register                     Register a new account
  login                        Log in and store the session locally
  logout                       Drop the local session
  status                       Show session status
  whoami                       Fetch the profile from the server

  profile [flags]              Update profile fields
  password                     Change the account password
  avatar <file>                Upload an avatar image

  add [flags]                  Record a transaction
  list [flags]                 List transactions
  get <id>                     Show one transaction
  update <id> [flags]          Replace a transaction
  delete <id>                  Delete a transaction

  categories list              List categories
  categories add [flags]       Create a category
  categories update <id>       Update a category
  categories delete <id>       Delete a category

  summary [flags]              Show income/expense analytics

Examples:
  fintrack register
  fintrack login
  fintrack add --text "Groceries" --amount 42.50 --type expense
  fintrack list --category 4f8b...
  fintrack summary --start 2024-01-01 --end 2024-12-31
`
