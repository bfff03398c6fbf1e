package service

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Placeholder supplies the stock image for listings that carry no media. The
// JPEG is generated in-process and uploaded on first use; the file id
// Telegram assigns is cached and reused for every later post, so the upload
// happens once per process.
type Placeholder struct {
	mu     sync.Mutex
	fileID string
}

// File returns the cached file id, or the image bytes for the initial
// upload.
func (p *Placeholder) File() tgbotapi.RequestFileData {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fileID != "" {
		return tgbotapi.FileID(p.fileID)
	}
	return tgbotapi.FileBytes{Name: "placeholder.jpg", Bytes: placeholderJPEG()}
}

// Remember caches the file id Telegram assigned to an uploaded placeholder.
func (p *Placeholder) Remember(msg tgbotapi.Message) {
	if len(msg.Photo) == 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fileID == "" {
		p.fileID = msg.Photo[len(msg.Photo)-1].FileID
	}
}

func placeholderJPEG() []byte {
	const w, h = 640, 480
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{R: 0xE8, G: 0xEA, B: 0xED, A: 0xFF}), image.Point{}, draw.Src)
	frame := color.RGBA{R: 0xB8, G: 0xBE, B: 0xC6, A: 0xFF}
	for x := 0; x < w; x++ {
		img.Set(x, 0, frame)
		img.Set(x, h-1, frame)
	}
	for y := 0; y < h; y++ {
		img.Set(0, y, frame)
		img.Set(w-1, y, frame)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 80}); err != nil {
		// Encoding an in-memory RGBA cannot fail.
		panic(err)
	}
	return buf.Bytes()
}
