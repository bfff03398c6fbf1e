package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"

	"classifieds-bot-backend/internal/domain"
)

// fakeTelegram records outgoing traffic and simulates channel message ids.
// existing holds the ids a delete request will find; anything else misses.
type fakeTelegram struct {
	mu       sync.Mutex
	nextID   int
	sent     []tgbotapi.Chattable
	deleted  []int
	pinned   []int
	existing map[int]bool
}

func newFakeTelegram() *fakeTelegram {
	return &fakeTelegram{nextID: 100, existing: make(map[int]bool)}
}

func (f *fakeTelegram) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	f.nextID++
	f.existing[f.nextID] = true
	msg := tgbotapi.Message{MessageID: f.nextID}
	if _, ok := c.(tgbotapi.PhotoConfig); ok {
		// Telegram echoes the uploaded photo back with its assigned file id.
		msg.Photo = []tgbotapi.PhotoSize{{FileID: fmt.Sprintf("srv-photo-%d", f.nextID)}}
	}
	return msg, nil
}

func (f *fakeTelegram) SendMediaGroup(cfg tgbotapi.MediaGroupConfig) ([]tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, cfg)
	msgs := make([]tgbotapi.Message, len(cfg.Media))
	for i := range cfg.Media {
		f.nextID++
		f.existing[f.nextID] = true
		msgs[i] = tgbotapi.Message{MessageID: f.nextID}
	}
	return msgs, nil
}

func (f *fakeTelegram) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch cfg := c.(type) {
	case tgbotapi.DeleteMessageConfig:
		if !f.existing[cfg.MessageID] {
			return nil, &tgbotapi.Error{Code: 400, Message: "message to delete not found"}
		}
		delete(f.existing, cfg.MessageID)
		f.deleted = append(f.deleted, cfg.MessageID)
	case tgbotapi.PinChatMessageConfig:
		f.pinned = append(f.pinned, cfg.MessageID)
	}
	return &tgbotapi.APIResponse{Ok: true}, nil
}

type notice struct {
	externalID int64
	text       string
	buttons    []Button
}

type fakeNotifier struct {
	mu      sync.Mutex
	notices []notice
}

func (f *fakeNotifier) Notify(externalID int64, text string, buttons ...Button) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notices = append(f.notices, notice{externalID: externalID, text: text, buttons: buttons})
	return nil
}

type fakeDispatcher struct {
	mu         sync.Mutex
	dispatched []int64
}

func (f *fakeDispatcher) Dispatch(_ context.Context, listingID int64, _ domain.ListingSource) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dispatched = append(f.dispatched, listingID)
	return nil
}

// fakeGateway answers invoice status polls from a script.
type fakeGateway struct {
	statuses map[string]string
	invoices int
}

func (f *fakeGateway) CreateInvoice(_ context.Context, _ int64, _, _, _ string) (string, string, error) {
	f.invoices++
	return "inv-test", "https://pay.example/inv-test", nil
}

func (f *fakeGateway) GetInvoiceStatus(_ context.Context, invoiceID string) (string, error) {
	return f.statuses[invoiceID], nil
}

// In-memory repositories mirroring the SQL guard semantics.

type fakeUserRepo struct {
	mu     sync.Mutex
	byID   map[int64]*domain.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: make(map[int64]*domain.User), nextID: 1}
}

func (f *fakeUserRepo) add(u *domain.User) *domain.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u.ID == 0 {
		u.ID = f.nextID
		f.nextID++
	}
	f.byID[u.ID] = u
	return u
}

func (f *fakeUserRepo) GetOrCreate(_ context.Context, externalID int64, handle, given, family string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.ExternalID == externalID {
			return u, nil
		}
	}
	u := &domain.User{ID: f.nextID, ExternalID: externalID, Handle: handle, GivenName: given, FamilyName: family, Language: domain.LangUK}
	f.nextID++
	f.byID[u.ID] = u
	return u, nil
}

func (f *fakeUserRepo) GetByExternalID(_ context.Context, externalID int64) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.ExternalID == externalID {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) SetLanguage(_ context.Context, externalID int64, lang string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.ExternalID == externalID {
			u.Language = lang
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeUserRepo) SetAgreementAccepted(_ context.Context, externalID int64) error {
	return nil
}

func (f *fakeUserRepo) AdjustBalance(_ context.Context, userID int64, delta decimal.Decimal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[userID]
	if !ok {
		return domain.ErrNotFound
	}
	next := u.Balance.Add(delta)
	if next.IsNegative() {
		return domain.ErrInsufficientBalance
	}
	u.Balance = next
	return nil
}

type fakeListingRepo struct {
	mu                 sync.Mutex
	byID               map[int64]*domain.Listing
	nextID             int64
	beforeMarkApproved func()
}

func newFakeListingRepo() *fakeListingRepo {
	return &fakeListingRepo{byID: make(map[int64]*domain.Listing), nextID: 1}
}

func (f *fakeListingRepo) add(l *domain.Listing) *domain.Listing {
	f.mu.Lock()
	defer f.mu.Unlock()
	if l.ID == 0 {
		l.ID = f.nextID
		f.nextID++
	}
	f.byID[l.ID] = l
	return l
}

func (f *fakeListingRepo) Create(_ context.Context, l *domain.Listing) (int64, error) {
	f.add(l)
	return l.ID, nil
}

func (f *fakeListingRepo) GetByID(_ context.Context, id int64) (*domain.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (f *fakeListingRepo) ListByUser(_ context.Context, userID int64) ([]*domain.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Listing
	for _, l := range f.byID {
		if l.UserID == userID && l.Status != domain.ListingDeleted {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeListingRepo) ListLivePublishedBefore(_ context.Context, cutoff time.Time) ([]*domain.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Listing
	for _, l := range f.byID {
		if l.IsLive() && l.PublishedAt != nil && l.PublishedAt.Before(cutoff) {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeListingRepo) CountApprovedByUser(_ context.Context, userID int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, l := range f.byID {
		if l.UserID == userID && l.IsLive() {
			n++
		}
	}
	return n, nil
}

func (f *fakeListingRepo) SetPaymentStatus(_ context.Context, id int64, status domain.PaymentStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	l.PaymentStatus = status
	return nil
}

func (f *fakeListingRepo) SetTariffs(_ context.Context, id int64, tariffs []domain.Tariff) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	l.Tariffs = tariffs
	return nil
}

func (f *fakeListingRepo) MarkApproved(_ context.Context, id, moderatedBy int64, messageIDs []int, publishedAt time.Time) error {
	if f.beforeMarkApproved != nil {
		f.beforeMarkApproved()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	if l.Status != domain.ListingPendingModeration {
		return domain.ErrStateConflict
	}
	l.Status = domain.ListingApproved
	l.ModerationStatus = domain.ModerationApproved
	l.ChannelMessageIDs = append([]int(nil), messageIDs...)
	l.PublishedAt = &publishedAt
	l.ModeratedBy = &moderatedBy
	return nil
}

func (f *fakeListingRepo) MarkRejected(_ context.Context, id, moderatedBy int64, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	if l.Status != domain.ListingPendingModeration {
		return domain.ErrStateConflict
	}
	l.Status = domain.ListingRejected
	l.ModerationStatus = domain.ModerationRejected
	l.RejectionReason = reason
	l.ModeratedBy = &moderatedBy
	return nil
}

func (f *fakeListingRepo) SetPublished(_ context.Context, id int64, messageIDs []int, publishedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	if !l.IsLive() {
		return domain.ErrStateConflict
	}
	l.ChannelMessageIDs = append([]int(nil), messageIDs...)
	l.PublishedAt = &publishedAt
	return nil
}

func (f *fakeListingRepo) MarkExpired(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	if !l.IsLive() {
		return domain.ErrStateConflict
	}
	l.Status = domain.ListingExpired
	l.ModerationStatus = domain.ModerationExpired
	l.PaymentStatus = domain.PaymentPending
	l.ChannelMessageIDs = nil
	return nil
}

func (f *fakeListingRepo) Close(_ context.Context, id int64, status domain.ListingStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	l.Status = status
	l.ChannelMessageIDs = nil
	return nil
}

func (f *fakeListingRepo) ClearChannelMessages(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	l.ChannelMessageIDs = nil
	l.LegacyScalarIDs = false
	return nil
}

type fakePaymentRepo struct {
	mu        sync.Mutex
	byInvoice map[string]*domain.Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{byInvoice: make(map[string]*domain.Payment)}
}

func (f *fakePaymentRepo) Create(_ context.Context, p *domain.Payment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.CreatedAt = time.Now().UTC()
	f.byInvoice[p.InvoiceID] = p
	return nil
}

func (f *fakePaymentRepo) GetByInvoiceID(_ context.Context, invoiceID string) (*domain.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byInvoice[invoiceID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (f *fakePaymentRepo) ListPendingSince(_ context.Context, cutoff time.Time) ([]*domain.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Payment
	for _, p := range f.byInvoice {
		if p.Status == domain.PaymentStatePending && p.CreatedAt.After(cutoff) {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakePaymentRepo) SetStatusIf(_ context.Context, invoiceID string, from, to domain.PaymentState) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byInvoice[invoiceID]
	if !ok || p.Status != from {
		return false, nil
	}
	p.Status = to
	return true, nil
}

type fakeReferralRepo struct {
	mu         sync.Mutex
	byReferred map[int64]*domain.Referral
}

func newFakeReferralRepo() *fakeReferralRepo {
	return &fakeReferralRepo{byReferred: make(map[int64]*domain.Referral)}
}

func (f *fakeReferralRepo) Create(_ context.Context, referrerExternalID, referredExternalID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byReferred[referredExternalID]; ok {
		return nil
	}
	f.byReferred[referredExternalID] = &domain.Referral{
		ReferrerExternalID: referrerExternalID,
		ReferredExternalID: referredExternalID,
	}
	return nil
}

func (f *fakeReferralRepo) GetByReferred(_ context.Context, referredExternalID int64) (*domain.Referral, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.byReferred[referredExternalID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeReferralRepo) MarkRewardPaid(_ context.Context, referredExternalID int64, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.byReferred[referredExternalID]
	if !ok || r.RewardPaid {
		return false, nil
	}
	r.RewardPaid = true
	r.RewardPaidAt = &at
	return true, nil
}

func (f *fakeReferralRepo) CountByReferrer(_ context.Context, referrerExternalID int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.byReferred {
		if r.ReferrerExternalID == referrerExternalID {
			n++
		}
	}
	return n, nil
}

type fakeCategoryRepo struct {
	byID map[int64]*domain.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{byID: map[int64]*domain.Category{
		1: {ID: 1, Name: "electronics", Icon: "📱", IsActive: true},
	}}
}

func (f *fakeCategoryRepo) Seed(_ context.Context, _ []domain.Category) error { return nil }

func (f *fakeCategoryRepo) ListActiveRoots(_ context.Context) ([]*domain.Category, error) {
	var out []*domain.Category
	for _, c := range f.byID {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCategoryRepo) GetByID(_ context.Context, id int64) (*domain.Category, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}
