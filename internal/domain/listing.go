package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type ListingStatus string

const (
	ListingPendingModeration ListingStatus = "pending_moderation"
	ListingApproved          ListingStatus = "approved"
	ListingPublished         ListingStatus = "published"
	ListingRejected          ListingStatus = "rejected"
	ListingExpired           ListingStatus = "expired"
	ListingSold              ListingStatus = "sold"
	ListingDeleted           ListingStatus = "deleted"
)

type ModerationStatus string

const (
	ModerationPending  ModerationStatus = "pending"
	ModerationApproved ModerationStatus = "approved"
	ModerationRejected ModerationStatus = "rejected"
	ModerationExpired  ModerationStatus = "expired"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

// ListingSource distinguishes bot-originated listings from the web
// companion's marketplace listings on the moderation surface.
type ListingSource string

const (
	SourceTelegram    ListingSource = "telegram"
	SourceMarketplace ListingSource = "marketplace"
)

const (
	RegionHamburg = "hamburg"
	RegionGermany = "germany"
)

type MediaKind string

const (
	MediaPhoto MediaKind = "photo"
	MediaVideo MediaKind = "video"
)

// MediaItem is one photo or video attached to a listing, referenced by the
// messenger's opaque file handle.
type MediaItem struct {
	Kind   MediaKind `json:"kind"`
	FileID string    `json:"file_id"`
}

type Listing struct {
	ID                int64
	UserID            int64
	Title             string
	Description       string
	Price             decimal.Decimal
	PriceDisplay      string
	Currency          string
	CategoryID        int64
	Location          string
	Region            string
	Media             []MediaItem
	Status            ListingStatus
	ModerationStatus  ModerationStatus
	RejectionReason   string
	Tariffs           []Tariff
	PaymentStatus     PaymentStatus
	ChannelMessageIDs []int
	// LegacyScalarIDs marks rows whose channel id was stored as a single
	// integer before the array migration; deletion probes neighbours.
	LegacyScalarIDs bool
	PublishedAt     *time.Time
	ModeratedAt     *time.Time
	ModeratedBy     *int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsLive reports whether the listing currently has channel artifacts.
func (l *Listing) IsLive() bool {
	return l.Status == ListingApproved || l.Status == ListingPublished
}

// EncodeMedia serializes the media list for storage.
func EncodeMedia(media []MediaItem) string {
	if len(media) == 0 {
		return "[]"
	}
	b, _ := json.Marshal(media)
	return string(b)
}

// DecodeMedia parses a stored images_json value.
func DecodeMedia(raw string) ([]MediaItem, error) {
	if raw == "" || raw == "[]" {
		return nil, nil
	}
	var media []MediaItem
	if err := json.Unmarshal([]byte(raw), &media); err != nil {
		return nil, fmt.Errorf("decode media %q: %w", raw, err)
	}
	return media, nil
}

// EncodeMessageIDs serializes channel message ids as the canonical JSON
// integer array.
func EncodeMessageIDs(ids []int) string {
	if len(ids) == 0 {
		return "[]"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// DecodeMessageIDs parses a stored channelMessageIds value. Legacy rows hold
// a bare integer instead of an array; those are reported so the deletion path
// can probe for the rest of the media group.
func DecodeMessageIDs(raw string) (ids []int, legacy bool, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "[]" || raw == "null" {
		return nil, false, nil
	}
	if !strings.HasPrefix(raw, "[") {
		id, convErr := strconv.Atoi(raw)
		if convErr != nil {
			return nil, false, fmt.Errorf("decode message ids %q: %w", raw, convErr)
		}
		return []int{id}, true, nil
	}
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, false, fmt.Errorf("decode message ids %q: %w", raw, err)
	}
	return ids, false, nil
}
