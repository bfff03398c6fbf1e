package domain

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"classifieds-bot-backend/internal/common/apperr"
)

type DraftStep string

const (
	StepTitle       DraftStep = "title"
	StepDescription DraftStep = "description"
	StepPhotos      DraftStep = "photos"
	StepCategory    DraftStep = "category"
	StepPrice       DraftStep = "price"
	StepLocation    DraftStep = "location"
	StepPreview     DraftStep = "preview"
	StepTariff      DraftStep = "tariff"
	StepPayment     DraftStep = "payment"
)

const (
	TitleMinLen       = 3
	TitleMaxLen       = 100
	DescriptionMinLen = 10
	DescriptionMaxLen = 600
	LocationMinLen    = 2
	MaxDraftMedia     = 10
)

// Draft is the per-user conversational state. It lives in memory only; a
// restart loses unconfirmed drafts, which is acceptable.
type Draft struct {
	ExternalID  int64
	Step        DraftStep
	Title       string
	Description string
	Media       []MediaItem
	CategoryID  int64
	Price       Price
	PriceSet    bool
	Location    string
	Region      string
	Tariffs     []Tariff

	// ReturnToPreview marks an edit-field reentry: completing the current
	// step goes back to preview instead of advancing.
	ReturnToPreview bool

	// PendingListingID is set once the preview is confirmed and the listing
	// row exists.
	PendingListingID int64

	UpdatedAt time.Time
}

func NewDraft(externalID int64) *Draft {
	return &Draft{
		ExternalID: externalID,
		Step:       StepTitle,
		Region:     RegionHamburg,
		Tariffs:    NewTariffSet(),
		UpdatedAt:  time.Now().UTC(),
	}
}

func ValidateTitle(s string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(s))
	if n < TitleMinLen || n > TitleMaxLen {
		return apperr.New(apperr.KindInputInvalid, "draft.title_invalid")
	}
	return nil
}

func ValidateDescription(s string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(s))
	if n < DescriptionMinLen || n > DescriptionMaxLen {
		return apperr.New(apperr.KindInputInvalid, "draft.description_invalid")
	}
	return nil
}

func ValidateLocation(s string) error {
	if utf8.RuneCountInString(strings.TrimSpace(s)) < LocationMinLen {
		return apperr.New(apperr.KindInputInvalid, "draft.location_invalid")
	}
	return nil
}

// Capitalize upcases the first letter, applied to title and description at
// finalization.
func Capitalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

// Complete reports whether every field needed for the preview is collected.
func (d *Draft) Complete() bool {
	return d.Title != "" && d.Description != "" && d.CategoryID != 0 && d.PriceSet && d.Location != ""
}

// Touch refreshes the idle-eviction clock.
func (d *Draft) Touch() {
	d.UpdatedAt = time.Now().UTC()
}
