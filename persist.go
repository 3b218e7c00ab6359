package ggboard

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/png"
	"math"
	"strconv"
	"strings"

	"github.com/zeebo/blake3"
	"golang.org/x/image/draw"

	"github.com/gogpu/ggboard/store"
)

// Snapshot blob limits. Restore rejects images larger than this before
// decoding the pixel data.
const (
	maxSnapshotSide   = 1 << 14
	maxSnapshotPixels = 1 << 26
)

var errMalformedSnapshot = errors.New("malformed snapshot")

// Serialize encodes the device-pixel buffer as a PNG data URL that records
// the scale it was captured at:
//
//	data:image/png;scale=2;base64,iVBORw0KGgo...
func (b *Board) Serialize() (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.surface.serialize()
}

func (s *Surface) serialize() (string, error) {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(&buf, s.img); err != nil {
		return "", fmt.Errorf("ggboard: encode snapshot: %w", err)
	}

	var sb strings.Builder
	sb.Grow(40 + base64.StdEncoding.EncodedLen(buf.Len()))
	sb.WriteString("data:image/png;scale=")
	sb.WriteString(strconv.FormatFloat(s.scale, 'g', -1, 64))
	sb.WriteString(";base64,")
	sb.WriteString(base64.StdEncoding.EncodeToString(buf.Bytes()))
	return sb.String(), nil
}

// Restore draws a serialized snapshot onto the board at its recorded
// logical coordinates, growing the board when the snapshot is taller.
// Snapshots taken at another scale are resampled.
//
// An empty or malformed blob leaves the board untouched; the problem is
// logged at warn level.
func (b *Board) Restore(blob string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.restoreLocked(blob)
}

func (b *Board) restoreLocked(blob string) {
	if blob == "" {
		return
	}
	img, scale, err := decodeSnapshot(blob)
	if err != nil {
		b.log.Warn("ggboard: ignoring snapshot", "error", err)
		return
	}

	bounds := img.Bounds()
	if h := float64(bounds.Dy()) / scale; h > b.surface.height {
		b.growHeight(h)
	}

	dst := b.surface.img
	if scale == b.surface.scale {
		draw.Copy(dst, image.Point{}, img, bounds, draw.Src, nil)
	} else {
		ratio := b.surface.scale / scale
		dr := image.Rect(0, 0,
			int(math.Round(float64(bounds.Dx())*ratio)),
			int(math.Round(float64(bounds.Dy())*ratio)))
		draw.ApproxBiLinear.Scale(dst, dr, img, bounds, draw.Src, nil)
	}

	b.log.Debug("ggboard: snapshot restored",
		"size", fmt.Sprintf("%dx%d@%g", bounds.Dx(), bounds.Dy(), scale))
}

// decodeSnapshot parses a data URL produced by serialize. A blob without a
// scale parameter is taken to be at scale 1.
func decodeSnapshot(blob string) (image.Image, float64, error) {
	rest, ok := strings.CutPrefix(blob, "data:")
	if !ok {
		return nil, 0, fmt.Errorf("%w: not a data URL", errMalformedSnapshot)
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, 0, fmt.Errorf("%w: missing payload", errMalformedSnapshot)
	}

	params := strings.Split(header, ";")
	if params[0] != "image/png" {
		return nil, 0, fmt.Errorf("%w: media type %q", errMalformedSnapshot, params[0])
	}
	scale, isBase64 := 1.0, false
	for _, p := range params[1:] {
		switch {
		case p == "base64":
			isBase64 = true
		case strings.HasPrefix(p, "scale="):
			v, err := strconv.ParseFloat(strings.TrimPrefix(p, "scale="), 64)
			if err != nil || !(v > 0) || math.IsInf(v, 0) {
				return nil, 0, fmt.Errorf("%w: scale %q", errMalformedSnapshot, p)
			}
			scale = v
		}
	}
	if !isBase64 {
		return nil, 0, fmt.Errorf("%w: payload is not base64", errMalformedSnapshot)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", errMalformedSnapshot, err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", errMalformedSnapshot, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 ||
		cfg.Width > maxSnapshotSide || cfg.Height > maxSnapshotSide ||
		cfg.Width*cfg.Height > maxSnapshotPixels {
		return nil, 0, fmt.Errorf("%w: %dx%d exceeds limits", errMalformedSnapshot, cfg.Width, cfg.Height)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", errMalformedSnapshot, err)
	}
	return img, scale, nil
}

// persistLocked writes the snapshot to the store in persisted mode. A blob
// identical to the last one written is skipped. Store failures are logged
// and returned, but drawing calls ignore the error.
func (b *Board) persistLocked() error {
	if b.store == nil {
		return nil
	}
	blob, err := b.surface.serialize()
	if err != nil {
		b.log.Warn("ggboard: serialize snapshot", "error", err)
		return err
	}
	digest := blake3.Sum256([]byte(blob))
	if b.hasDigest && digest == b.lastDigest {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), b.persistTimeout)
	defer cancel()
	if err := b.store.Save(ctx, store.KeyWhiteboard, blob); err != nil {
		b.log.Warn("ggboard: save snapshot", "error", err)
		return fmt.Errorf("ggboard: save snapshot: %w", err)
	}
	b.lastDigest, b.hasDigest = digest, true
	b.log.Debug("ggboard: snapshot saved", "bytes", len(blob))
	return nil
}

// Persist writes the current snapshot to the store immediately.
func (b *Board) Persist() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.store == nil {
		return ErrNoStore
	}
	return b.persistLocked()
}
