package cli

import (
	"context"
	"errors"
	"flag"

	"github.com/Cabrel-loic/Expenses-tracking-web-app/internal/validation"
	"github.com/Cabrel-loic/Expenses-tracking-web-app/pkg/api"
)

func (c *Cli) runCategories(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return c.listCategories(ctx)
	}

	switch args[0] {
	case "list":
		return c.listCategories(ctx)
	case "add":
		return c.addCategory(ctx, args[1:])
	case "update":
		return c.updateCategory(ctx, args[1:])
	case "delete":
		return c.deleteCategory(ctx, args[1:])
	default:
		return errors.New("usage: fintrack categories [list|add|update|delete]")
	}
}

func (c *Cli) listCategories(ctx context.Context) error {
	categories, err := c.client.ListCategories(ctx)
	if err != nil {
		return describeError(err)
	}

	if len(categories) == 0 {
		c.io.Println("No categories found.")
		return nil
	}

	c.io.Printf("Found %d category(ies):\n\n", len(categories))
	for _, category := range categories {
		marker := " "
		if category.IsDefault {
			marker = "*"
		}
		c.io.Printf("%s %s\n", marker, category.Name)
		c.io.Printf("  id %s", category.ID)
		if category.Description != "" {
			c.io.Printf("  - %s", category.Description)
		}
		c.io.Println()
	}
	c.io.Println()
	c.io.Println("Categories marked * are defaults and cannot be deleted.")

	return nil
}

func categoryFlags(name string, args []string) (api.CategoryRequest, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	catName := fs.String("name", "", "Category name")
	color := fs.String("color", "", "Hex color, e.g. #FF6B6B")
	icon := fs.String("icon", "", "Icon identifier")
	description := fs.String("description", "", "Short description")

	if err := fs.Parse(args); err != nil {
		return api.CategoryRequest{}, err
	}

	if err := validation.ValidateCategoryName(*catName); err != nil {
		return api.CategoryRequest{}, err
	}

	return api.CategoryRequest{
		Name:        *catName,
		Color:       *color,
		Icon:        *icon,
		Description: *description,
	}, nil
}

func (c *Cli) addCategory(ctx context.Context, args []string) error {
	req, err := categoryFlags("categories add", args)
	if err != nil {
		return err
	}

	category, err := c.client.CreateCategory(ctx, req)
	if err != nil {
		return describeError(err)
	}

	c.io.Printf("Created category %q (id %s)\n", category.Name, category.ID)
	return nil
}

func (c *Cli) updateCategory(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: fintrack categories update <id> [flags]")
	}

	req, err := categoryFlags("categories update", args[1:])
	if err != nil {
		return err
	}

	category, err := c.client.UpdateCategory(ctx, args[0], req)
	if err != nil {
		return describeError(err)
	}

	c.io.Printf("Updated category %q\n", category.Name)
	return nil
}

func (c *Cli) deleteCategory(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: fintrack categories delete <id>")
	}

	if err := c.client.DeleteCategory(ctx, args[0]); err != nil {
		return describeError(err)
	}

	c.io.Println("Deleted. Transactions keep existing without a category.")
	return nil
}
