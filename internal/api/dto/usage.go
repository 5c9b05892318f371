package dto

// UsageDTO reports a user's plan and month-to-date consumption
type UsageDTO struct {
	Email string `json:"email"`
	Plan  string `json:"plan"`
	Limit int    `json:"limit"`
	Used  int    `json:"used"`
}
