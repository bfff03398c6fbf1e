package bot

import (
	"context"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classifieds-bot-backend/internal/domain"
)

type cardTelegram struct {
	mu   sync.Mutex
	sent []tgbotapi.Chattable
}

func (f *cardTelegram) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	msg := tgbotapi.Message{MessageID: len(f.sent)}
	if _, ok := c.(tgbotapi.PhotoConfig); ok {
		msg.Photo = []tgbotapi.PhotoSize{{FileID: "card-photo"}}
	}
	return msg, nil
}

func (f *cardTelegram) SendMediaGroup(cfg tgbotapi.MediaGroupConfig) ([]tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, cfg)
	return make([]tgbotapi.Message, len(cfg.Media)), nil
}

func (f *cardTelegram) Request(tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

// Interface-embedding stubs: only the methods Dispatch touches are real.
type cardListings struct {
	domain.ListingRepository
	listing *domain.Listing
}

func (s cardListings) GetByID(context.Context, int64) (*domain.Listing, error) {
	return s.listing, nil
}

type cardUsers struct {
	domain.UserRepository
	user *domain.User
}

func (s cardUsers) GetByID(context.Context, int64) (*domain.User, error) {
	return s.user, nil
}

type cardCategories struct{ domain.CategoryRepository }

func (cardCategories) GetByID(context.Context, int64) (*domain.Category, error) {
	return &domain.Category{ID: 1, Name: "electronics", Icon: "📱", IsActive: true}, nil
}

func moderatedListing(media int) *domain.Listing {
	items := make([]domain.MediaItem, media)
	for i := range items {
		items[i] = domain.MediaItem{Kind: domain.MediaPhoto, FileID: "ph"}
	}
	return &domain.Listing{
		ID:           7,
		UserID:       1,
		Title:        "Old bike",
		Description:  "Good condition, barely used",
		PriceDisplay: "50",
		Currency:     domain.DefaultCurrency,
		CategoryID:   1,
		Location:     "Hamburg",
		Region:       domain.RegionHamburg,
		Media:        items,
		Tariffs:      domain.NewTariffSet(),
		Status:       domain.ListingPendingModeration,
	}
}

func newCardDispatcher(l *domain.Listing) (*ModerationDispatcher, *cardTelegram) {
	tg := &cardTelegram{}
	owner := &domain.User{ID: 1, ExternalID: 777, Handle: "seller", Language: domain.LangUK}
	d := NewModerationDispatcher(tg, -100200, cardListings{listing: l},
		cardUsers{user: owner}, cardCategories{})
	return d, tg
}

func TestDispatchWithoutMediaShipsPlaceholderPhoto(t *testing.T) {
	d, tg := newCardDispatcher(moderatedListing(0))

	require.NoError(t, d.Dispatch(context.Background(), 7, domain.SourceTelegram))
	require.Len(t, tg.sent, 1)
	photo, ok := tg.sent[0].(tgbotapi.PhotoConfig)
	require.True(t, ok, "the card mirrors the future channel post")
	assert.Contains(t, photo.Caption, "Old bike")
	assert.NotNil(t, photo.ReplyMarkup, "decision controls ride on the card")

	_, isUpload := photo.File.(tgbotapi.FileBytes)
	assert.True(t, isUpload)

	// The id assigned on upload is reused for the next card.
	require.NoError(t, d.Dispatch(context.Background(), 7, domain.SourceTelegram))
	second := tg.sent[1].(tgbotapi.PhotoConfig)
	assert.Equal(t, tgbotapi.FileID("card-photo"), second.File)
}

func TestDispatchAlbumPutsControlsOnFollowUp(t *testing.T) {
	d, tg := newCardDispatcher(moderatedListing(2))

	require.NoError(t, d.Dispatch(context.Background(), 7, domain.SourceTelegram))
	require.Len(t, tg.sent, 2)
	_, ok := tg.sent[0].(tgbotapi.MediaGroupConfig)
	assert.True(t, ok)
	follow, ok := tg.sent[1].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.NotNil(t, follow.ReplyMarkup)
}
