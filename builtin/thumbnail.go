package builtin

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"path"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"
	"golang.org/x/image/draw"

	"github.com/nova-upload/uploadcore/config"
	"github.com/nova-upload/uploadcore/file"
	"github.com/nova-upload/uploadcore/hookctx"
	"github.com/nova-upload/uploadcore/plugin"
)

const ThumbnailProcessorID = "core:thumbnail"

var excludedThumbnailTypes = map[string]struct{}{
	"image/gif":    {},
	"image/svg+xml": {},
}

func isThumbnailable(mimeType string) bool {
	if !strings.HasPrefix(mimeType, "image/") {
		return false
	}
	_, excluded := excludedThumbnailTypes[mimeType]
	return !excluded
}

// ThumbnailProcessor builds a scaled preview data URL within
// opts.Width x opts.Height during preprocess, writing it to
// f.Preview. When opts.Upload is set, it additionally uploads the
// thumbnail bytes during the process stage through the adapter's
// standalone upload path, recording f.Thumbnail. Failures are
// non-fatal and logged, matching the built-in contract.
func ThumbnailProcessor(opts config.ThumbnailOptions) plugin.Plugin {
	return plugin.Plugin{
		ID: ThumbnailProcessorID,
		Hooks: plugin.Hooks{
			Preprocess: func(f *file.TrackedFile, ctx hookctx.Context) (*file.TrackedFile, error) {
				if !opts.Enabled || !f.IsLocal() || !isThumbnailable(f.MimeType) {
					return f, nil
				}
				dataURL, err := buildThumbnailDataURL(f.Data, f.MimeType, opts.Width, opts.Height, opts.Quality)
				if err != nil {
					logx.Errorf("thumbnail: preprocess failed for file %s: %v", f.ID, err)
					return f, nil
				}
				f.Preview = dataURL
				return f, nil
			},
			Process: func(f *file.TrackedFile, ctx hookctx.Context) (*file.TrackedFile, error) {
				if !opts.Enabled || !opts.Upload || f.Preview == "" || ctx.Storage == nil {
					return f, nil
				}
				uploader, ok := ctx.Storage.(hookctx.AuxiliaryUploader)
				if !ok {
					return f, nil
				}
				blob, contentType, err := decodeDataURL(f.Preview)
				if err != nil {
					logx.Errorf("thumbnail: decoding data URL failed for file %s: %v", f.ID, err)
					return f, nil
				}
				key := thumbnailKey(f.ID)
				result, err := uploader.UploadAuxiliary(context.Background(), blob, key, contentType)
				if err != nil {
					logx.Errorf("thumbnail: upload failed for file %s: %v", f.ID, err)
					return f, nil
				}
				f.Thumbnail = &file.Thumbnail{URL: result.URL, StorageKey: result.StorageKey}
				return f, nil
			},
		},
	}
}

// thumbnailKey inserts "_thumb" before the extension of the owning
// file's id, e.g. "123-abc.jpg" -> "123-abc_thumb.jpg".
func thumbnailKey(id string) string {
	ext := path.Ext(id)
	base := strings.TrimSuffix(id, ext)
	return base + "_thumb" + ext
}

func buildThumbnailDataURL(data []byte, mimeType string, maxW, maxH, quality int) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}
	scaled := scaleWithinBounds(img, maxW, maxH)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: clampQuality(quality)}); err != nil {
		return "", fmt.Errorf("encode: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(buf.Bytes())
	return "data:image/jpeg;base64," + encoded, nil
}

func decodeDataURL(dataURL string) (blob []byte, contentType string, err error) {
	const prefix = "data:"
	if !strings.HasPrefix(dataURL, prefix) {
		return nil, "", fmt.Errorf("not a data URL")
	}
	rest := dataURL[len(prefix):]
	comma := strings.IndexByte(rest, ',')
	if comma < 0 {
		return nil, "", fmt.Errorf("malformed data URL")
	}
	meta, payload := rest[:comma], rest[comma+1:]
	contentType = strings.TrimSuffix(meta, ";base64")
	blob, err = base64.StdEncoding.DecodeString(payload)
	return blob, contentType, err
}

func clampQuality(q int) int {
	if q < 1 {
		return 1
	}
	if q > 100 {
		return 100
	}
	return q
}

// scaleWithinBounds scales img down (Catmull-Rom) to fit within maxW x maxH
// while preserving aspect ratio. It never scales up.
func scaleWithinBounds(img image.Image, maxW, maxH int) image.Image {
	b := img.Bounds()
	srcW, srcH := b.Dx(), b.Dy()
	if srcW <= maxW && srcH <= maxH {
		return img
	}

	ratio := float64(srcW) / float64(srcH)
	dstW, dstH := maxW, int(float64(maxW)/ratio)
	if dstH > maxH {
		dstH = maxH
		dstW = int(float64(maxH) * ratio)
	}
	if dstW < 1 {
		dstW = 1
	}
	if dstH < 1 {
		dstH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
