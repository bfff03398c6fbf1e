package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrStateConflict       = errors.New("state conflict")
)

type UserRepository interface {
	// GetOrCreate returns the user for an external id, creating the row on
	// first contact.
	GetOrCreate(ctx context.Context, externalID int64, handle, given, family string) (*User, error)
	GetByExternalID(ctx context.Context, externalID int64) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	SetLanguage(ctx context.Context, externalID int64, lang string) error
	SetAgreementAccepted(ctx context.Context, externalID int64) error
	// AdjustBalance atomically applies delta; a debit below zero fails with
	// ErrInsufficientBalance.
	AdjustBalance(ctx context.Context, userID int64, delta decimal.Decimal) error
}

type ListingRepository interface {
	Create(ctx context.Context, l *Listing) (int64, error)
	GetByID(ctx context.Context, id int64) (*Listing, error)
	ListByUser(ctx context.Context, userID int64) ([]*Listing, error)
	// ListLivePublishedBefore returns approved/published listings whose
	// publishedAt is older than the cutoff (the retention sweep input).
	ListLivePublishedBefore(ctx context.Context, cutoff time.Time) ([]*Listing, error)
	CountApprovedByUser(ctx context.Context, userID int64) (int, error)

	SetPaymentStatus(ctx context.Context, id int64, status PaymentStatus) error
	SetTariffs(ctx context.Context, id int64, tariffs []Tariff) error
	// MarkApproved transitions pending_moderation -> approved; the WHERE
	// guard makes the first moderator win, the loser gets ErrStateConflict.
	MarkApproved(ctx context.Context, id, moderatedBy int64, messageIDs []int, publishedAt time.Time) error
	MarkRejected(ctx context.Context, id, moderatedBy int64, reason string) error
	// SetPublished replaces channel artifacts on refresh.
	SetPublished(ctx context.Context, id int64, messageIDs []int, publishedAt time.Time) error
	MarkExpired(ctx context.Context, id int64) error
	// Close ends a live listing as sold or deleted and clears channel ids.
	Close(ctx context.Context, id int64, status ListingStatus) error
	ClearChannelMessages(ctx context.Context, id int64) error
}

type PaymentRepository interface {
	Create(ctx context.Context, p *Payment) error
	GetByInvoiceID(ctx context.Context, invoiceID string) (*Payment, error)
	// ListPendingSince returns pending payments created after the cutoff;
	// older invoices are no longer polled.
	ListPendingSince(ctx context.Context, cutoff time.Time) ([]*Payment, error)
	// SetStatusIf is a compare-and-set on the payment status; false means
	// the row was not in the expected state (idempotence guard).
	SetStatusIf(ctx context.Context, invoiceID string, from, to PaymentState) (bool, error)
}

type ReferralRepository interface {
	// Create records a referral; a duplicate referred id is a silent no-op.
	Create(ctx context.Context, referrerExternalID, referredExternalID int64) error
	GetByReferred(ctx context.Context, referredExternalID int64) (*Referral, error)
	// MarkRewardPaid flips rewardPaid once; false means it was already paid.
	MarkRewardPaid(ctx context.Context, referredExternalID int64, at time.Time) (bool, error)
	CountByReferrer(ctx context.Context, referrerExternalID int64) (int, error)
}

type CategoryRepository interface {
	Seed(ctx context.Context, categories []Category) error
	ListActiveRoots(ctx context.Context) ([]*Category, error)
	GetByID(ctx context.Context, id int64) (*Category, error)
}

type AdminRepository interface {
	Upsert(ctx context.Context, a *Admin) error
	Remove(ctx context.Context, userID int64) error
	Get(ctx context.Context, userID int64) (*Admin, error)
	List(ctx context.Context) ([]*Admin, error)
}

type StatsRepository interface {
	CountUsers(ctx context.Context) (int, error)
	CountListings(ctx context.Context) (int, error)
}

type LinkRepository interface {
	List(ctx context.Context) ([]*Link, error)
	Create(ctx context.Context, name, url string) (*Link, error)
	IncrementClick(ctx context.Context, linkID int64) error
	RecordVisit(ctx context.Context, v *LinkVisit) error
}
