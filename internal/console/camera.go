package console

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/abhisek/echotutor/internal/llm"
)

// DefaultMaxSide bounds the longer side of a photo sent to the model.
const DefaultMaxSide = 1024

// ErrNoImages is returned by a camera with nothing to show.
var ErrNoImages = errors.New("no images in camera directory")

// Camera "takes" photos by replaying the image files of a directory in
// name order, starting over after the last.
type Camera struct {
	// MaxSide is the longest side a photo keeps; larger photos are scaled
	// down and re-encoded as JPEG. Zero disables scaling.
	MaxSide int

	files []string

	mu   sync.Mutex
	next int
}

// NewCamera lists the files in dir. Subdirectories are ignored.
func NewCamera(dir string) (*Camera, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read camera directory: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() && !strings.HasPrefix(e.Name(), ".") {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return &Camera{MaxSide: DefaultMaxSide, files: files}, nil
}

// Capture returns the next image. Files that are not images are skipped.
func (c *Camera) Capture(ctx context.Context) (llm.Image, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for range c.files {
		if err := ctx.Err(); err != nil {
			return llm.Image{}, err
		}
		path := c.files[c.next]
		c.next = (c.next + 1) % len(c.files)

		data, err := os.ReadFile(path)
		if err != nil {
			return llm.Image{}, fmt.Errorf("read %s: %w", filepath.Base(path), err)
		}
		mime := http.DetectContentType(data)
		if strings.HasPrefix(mime, "image/") {
			return fit(llm.Image{MIMEType: mime, Data: data}, c.MaxSide)
		}
	}
	return llm.Image{}, ErrNoImages
}

// fit scales img down so neither side exceeds maxSide. Images that are
// small enough, or that cannot be decoded, pass through unchanged.
func fit(img llm.Image, maxSide int) (llm.Image, error) {
	if maxSide <= 0 {
		return img, nil
	}
	src, _, err := image.Decode(bytes.NewReader(img.Data))
	if err != nil {
		return img, nil
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxSide && h <= maxSide {
		return img, nil
	}

	if w >= h {
		w, h = maxSide, max(h*maxSide/w, 1)
	} else {
		w, h = max(w*maxSide/h, 1), maxSide
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)

	var out bytes.Buffer
	if err := jpeg.Encode(&out, dst, &jpeg.Options{Quality: 85}); err != nil {
		return llm.Image{}, fmt.Errorf("encode jpeg: %w", err)
	}
	return llm.Image{MIMEType: "image/jpeg", Data: out.Bytes()}, nil
}
