package models

import "time"

// Category represents a user-defined tag attached to transactions
// for grouping in analytics.
type Category struct {
	ID          string    `json:"id"` // UUID
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Color       string    `json:"color"` // hex color for the UI
	Icon        string    `json:"icon"`  // icon identifier for the UI
	Description string    `json:"description"`
	IsDefault   bool      `json:"is_default"` // created automatically on registration
	CreatedAt   time.Time `json:"created_at"`
}

// DefaultCategories returns the category set created for every new user.
// Registration must succeed even if creating these fails.
func DefaultCategories() []Category {
	return []Category{
		{Name: "Food & Dining", Color: "#FF6B6B", Icon: "utensils", Description: "Restaurants, groceries, and food expenses", IsDefault: true},
		{Name: "Transportation", Color: "#4ECDC4", Icon: "car", Description: "Gas, public transport, and vehicle expenses", IsDefault: true},
		{Name: "Shopping", Color: "#95E1D3", Icon: "shopping-bag", Description: "General shopping and retail purchases", IsDefault: true},
		{Name: "Bills & Utilities", Color: "#F38181", Icon: "file-text", Description: "Electricity, water, internet, and other bills", IsDefault: true},
		{Name: "Entertainment", Color: "#AA96DA", Icon: "film", Description: "Movies, games, and entertainment expenses", IsDefault: true},
		{Name: "Healthcare", Color: "#FCBAD3", Icon: "heart", Description: "Medical expenses and healthcare", IsDefault: true},
		{Name: "Education", Color: "#A8E6CF", Icon: "book", Description: "Education and learning expenses", IsDefault: true},
		{Name: "Salary", Color: "#3B82F6", Icon: "dollar-sign", Description: "Salary and primary income", IsDefault: true},
		{Name: "Freelance", Color: "#10B981", Icon: "briefcase", Description: "Freelance and side income", IsDefault: true},
		{Name: "Investment", Color: "#8B5CF6", Icon: "trending-up", Description: "Investment returns and dividends", IsDefault: true},
	}
}
