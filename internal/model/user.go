package model

import "time"

// UserAccount represents a registered user. TotalCarbonReduced is the
// running aggregate of CarbonReduced across the user's non-deleted history
// records; it is maintained by transactional increment/decrement and never
// goes negative.
type UserAccount struct {
	CreatedAt          time.Time
	ID                 string
	Username           string
	Email              string
	PasswordHash       string `json:"-"`
	TotalCarbonReduced float64
}
