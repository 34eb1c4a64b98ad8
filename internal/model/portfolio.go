// Package model holds the domain types shared across the server.
package model

import "math"

// Portfolio is a user's monthly financial figures, all in the user's
// own currency.
type Portfolio struct {
	Income     float64 `json:"income"`
	Recurring  float64 `json:"recurring"`
	Leisure    float64 `json:"leisure"`
	Savings    float64 `json:"savings"`
	Emergency  float64 `json:"emergency"`
	Investment float64 `json:"investment"`
	// Score is the latest Guru Score, 0-10.
	Score int `json:"score"`
}

// MonthEntry is one submitted month of figures plus its evaluation.
// Multiple entries per calendar month are allowed; ID is unique.
type MonthEntry struct {
	ID         string   `json:"id"`
	UID        string   `json:"uid"`
	Month      string   `json:"month"` // e.g. "2026-02"
	Income     float64  `json:"income"`
	Recurring  float64  `json:"recurring"`
	Leisure    float64  `json:"leisure"`
	Savings    float64  `json:"savings"`
	Emergency  float64  `json:"emergency"`
	Investment float64  `json:"investment"`
	Score      int      `json:"score"`
	Advice     []string `json:"advice"`
	CreatedAt  string   `json:"createdAt"` // RFC 3339
}

// SavingsRatePct is the entry's savings as a percentage of income,
// rounded, or zero when there is no income.
func (e MonthEntry) SavingsRatePct() int {
	if e.Income <= 0 {
		return 0
	}
	return int(math.Round(e.Savings / e.Income * 100))
}

// User is the profile attached to a uid.
type User struct {
	UID            string `json:"uid"`
	Username       string `json:"username"`
	CurrencySymbol string `json:"currencySymbol"`
}

// CategoryBudget is one spending category target.
type CategoryBudget struct {
	Category string  `json:"category"`
	Limit    float64 `json:"limit"`
}

// CategoryActual is observed spending for one category in one month.
type CategoryActual struct {
	Category string  `json:"category"`
	Spent    float64 `json:"spent"`
}

// Member is one leaderboard group member with their latest score.
type Member struct {
	UID       string `json:"id"`
	Username  string `json:"username"`
	Score     int    `json:"score"`
	UpdatedAt string `json:"updatedAt"`
}
