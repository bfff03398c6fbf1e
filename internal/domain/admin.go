package domain

import "time"

// Admin grants access to the admin panel and moderation decisions. Exactly
// one superadmin exists and cannot be removed. UserID and AddedBy are
// external messenger ids: admins are configured by Telegram id and may be
// seeded before their first contact with the bot.
type Admin struct {
	UserID       int64
	AddedBy      int64
	AddedAt      time.Time
	IsSuperadmin bool
}
