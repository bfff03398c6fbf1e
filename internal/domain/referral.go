package domain

import "time"

// Referral records who invited whom. The referrer earns a one-time credit
// when the referred user's first listing is approved.
type Referral struct {
	ID                 int64
	ReferrerExternalID int64
	ReferredExternalID int64
	RewardPaid         bool
	CreatedAt          time.Time
	RewardPaidAt       *time.Time
}
