package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	LangUK = "uk"
	LangRU = "ru"
)

// User is created on first contact with the bot. Balance is mutated only by
// payment credit, referral credit, tariff debit and refund.
type User struct {
	ID                int64
	ExternalID        int64
	Handle            string
	GivenName         string
	FamilyName        string
	Phone             *string
	Language          string
	Balance           decimal.Decimal
	AgreementAccepted bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// DisplayName returns the best human-readable label for the user.
func (u *User) DisplayName() string {
	if u.Handle != "" {
		return "@" + u.Handle
	}
	name := u.GivenName
	if u.FamilyName != "" {
		if name != "" {
			name += " "
		}
		name += u.FamilyName
	}
	return name
}
