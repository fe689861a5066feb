package reveal

import (
	"bufio"
	"context"
	"fmt"
	"image"
	"io"
	"math/rand/v2"
	"os"
	"sync"

	// Decoders accepted by Decode.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// sniffLen is the header length filetype needs to match every format.
const sniffLen = 261

// ImageSource supplies decoded images. The name identifies the image in
// logs. Failures wrap ErrDecode.
type ImageSource interface {
	Next(ctx context.Context) (img image.Image, name string, err error)
}

// Decode sniffs and decodes an image. PNG, JPEG, GIF, BMP, TIFF and WebP
// are supported. Every failure wraps ErrDecode.
func Decode(r io.Reader) (image.Image, string, error) {
	br := bufio.NewReaderSize(r, 4096)
	head, err := br.Peek(sniffLen)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if len(head) == 0 {
		return nil, "", fmt.Errorf("%w: empty input", ErrDecode)
	}

	kind, _ := filetype.Match(head)
	if kind == filetype.Unknown {
		return nil, "", fmt.Errorf("%w: unrecognized data", ErrDecode)
	}
	if !filetype.IsImage(head) {
		return nil, "", fmt.Errorf("%w: %s is not an image", ErrDecode, kind.MIME.Value)
	}

	img, format, err := image.Decode(br)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %s: %v", ErrDecode, kind.Extension, err)
	}
	return img, format, nil
}

// DecodeFile opens and decodes the image at path.
func DecodeFile(path string) (image.Image, error) {
	f, err := os.Open(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	defer func() {
		_ = f.Close()
	}()

	img, _, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// FileSource is an ImageSource reading a single file.
type FileSource string

// Next implements ImageSource.
func (f FileSource) Next(ctx context.Context) (image.Image, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, string(f), fmt.Errorf("%w: %w", ErrDecode, err)
	}
	img, err := DecodeFile(string(f))
	return img, string(f), err
}

// Gallery is an ImageSource that picks a random file from a preset list,
// never the same file twice in a row when it has more than one.
type Gallery struct {
	mu    sync.Mutex
	paths []string
	last  int
	rng   *rand.Rand
}

// NewGallery returns a gallery over paths.
func NewGallery(paths ...string) *Gallery {
	return &Gallery{
		paths: append([]string(nil), paths...),
		last:  -1,
		rng:   rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// Len returns the number of images in the gallery.
func (g *Gallery) Len() int {
	return len(g.paths)
}

// Pick returns the next random path.
func (g *Gallery) Pick() (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	n := len(g.paths)
	if n == 0 {
		return "", false
	}
	i := g.rng.IntN(n)
	if n > 1 && i == g.last {
		i = (i + 1 + g.rng.IntN(n-1)) % n
	}
	g.last = i
	return g.paths[i], true
}

// Next implements ImageSource.
func (g *Gallery) Next(ctx context.Context) (image.Image, string, error) {
	path, ok := g.Pick()
	if !ok {
		return nil, "", fmt.Errorf("%w: gallery is empty", ErrDecode)
	}
	return FileSource(path).Next(ctx)
}
