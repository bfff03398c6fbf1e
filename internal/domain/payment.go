package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"classifieds-bot-backend/internal/common/apperr"
)

type PaymentState string

const (
	PaymentStatePending PaymentState = "pending"
	PaymentStateSuccess PaymentState = "success"
	PaymentStateFailed  PaymentState = "failed"
	PaymentStateExpired PaymentState = "expired"
)

type PaymentPurpose string

const (
	PurposePublication PaymentPurpose = "publication"
	PurposeRefresh     PaymentPurpose = "refresh"
)

// Payment is one gateway invoice. InvoiceID is the gateway key; LocalID is
// the human-readable order reference carrying purpose, target and owner.
type Payment struct {
	LocalID         string
	InvoiceID       string
	UserID          int64
	TargetListingID int64
	Amount          decimal.Decimal
	Status          PaymentState
	Purpose         PaymentPurpose
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewLocalID builds the order reference, e.g.
// publication_42_1001_1716807000.
func NewLocalID(purpose PaymentPurpose, listingID, userID int64, ts time.Time) string {
	return fmt.Sprintf("%s_%d_%d_%d", purpose, listingID, userID, ts.Unix())
}

// PurposeFromLocalID recovers the payment purpose from the reference prefix.
func PurposeFromLocalID(localID string) (PaymentPurpose, error) {
	switch {
	case strings.HasPrefix(localID, string(PurposePublication)+"_"):
		return PurposePublication, nil
	case strings.HasPrefix(localID, string(PurposeRefresh)+"_"):
		return PurposeRefresh, nil
	default:
		return "", apperr.New(apperr.KindInvariantViolation, "errors.internal")
	}
}
