package bot

import (
	"sync"
	"time"

	"classifieds-bot-backend/internal/domain"
)

type albumKey struct {
	user  int64
	group string
}

type albumEntry struct {
	items []domain.MediaItem
	timer *time.Timer
	flush func([]domain.MediaItem)
}

// albumBuffer collects the items of one media group before handing them to
// the draft in a single batch. Telegram delivers album items as separate
// messages with a shared group id and no end marker, so the buffer flushes
// after a quiet period.
type albumBuffer struct {
	mu      sync.Mutex
	pending map[albumKey]*albumEntry
	delay   time.Duration
}

func newAlbumBuffer(delay time.Duration) *albumBuffer {
	return &albumBuffer{
		pending: make(map[albumKey]*albumEntry),
		delay:   delay,
	}
}

// add buffers one album item; the first item of a group arms the flush timer
// and every later item pushes it back.
func (ab *albumBuffer) add(userID int64, groupID string, item domain.MediaItem, flush func([]domain.MediaItem)) {
	key := albumKey{user: userID, group: groupID}

	ab.mu.Lock()
	defer ab.mu.Unlock()

	if e, ok := ab.pending[key]; ok {
		e.items = append(e.items, item)
		e.timer.Reset(ab.delay)
		return
	}

	e := &albumEntry{items: []domain.MediaItem{item}, flush: flush}
	e.timer = time.AfterFunc(ab.delay, func() { ab.fire(key) })
	ab.pending[key] = e
}

func (ab *albumBuffer) fire(key albumKey) {
	ab.mu.Lock()
	e, ok := ab.pending[key]
	if ok {
		delete(ab.pending, key)
	}
	ab.mu.Unlock()

	if ok {
		e.flush(e.items)
	}
}
