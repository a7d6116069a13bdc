package builtin

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/nova-upload/uploadcore/config"
	"github.com/nova-upload/uploadcore/file"
	"github.com/nova-upload/uploadcore/hookctx"
	"github.com/nova-upload/uploadcore/plugin"
)

const ImageCompressorID = "core:image-compressor"

func isCompressible(mimeType string) bool {
	return isThumbnailable(mimeType)
}

// ImageCompressorProcessor decodes, scales within opts.MaxWidth x
// opts.MaxHeight preserving aspect ratio, and re-encodes at
// opts.Quality/opts.OutputFormat during the process stage, replacing
// Data/Size/MimeType and rewriting the id's extension to ".png" or
// ".jpg" to match the output format. It skips (emitting "skip") when the file is below
// opts.MinSizeToCompress or when recompression does not shrink it.
func ImageCompressorProcessor(opts config.ImageCompressionOptions) plugin.Plugin {
	return plugin.Plugin{
		ID: ImageCompressorID,
		Hooks: plugin.Hooks{
			Process: func(f *file.TrackedFile, ctx hookctx.Context) (*file.TrackedFile, error) {
				if !opts.Enabled || !f.IsLocal() || !isCompressible(f.MimeType) {
					return f, nil
				}
				if f.Size < opts.MinSizeToCompress {
					ctx.Emit("skip", map[string]any{"reason": "below-min-size", "fileId": f.ID})
					return f, nil
				}

				encoded, mimeType, err := recompress(f.Data, f.MimeType, opts)
				if err != nil {
					logx.Errorf("image-compressor: failed for file %s: %v", f.ID, err)
					return f, nil
				}

				if len(encoded) >= len(f.Data) {
					ctx.Emit("skip", map[string]any{"reason": "not-smaller", "fileId": f.ID})
					return f, nil
				}

				f.Data = encoded
				f.Size = int64(len(encoded))
				f.MimeType = mimeType
				f.ID = retargetExtension(f.ID, mimeType)
				return f, nil
			},
		},
	}
}

func recompress(data []byte, mimeType string, opts config.ImageCompressionOptions) ([]byte, string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode: %w", err)
	}

	scaled := scaleWithinBounds(img, opts.MaxWidth, opts.MaxHeight)

	target := opts.OutputFormat
	if target == config.OutputAuto || target == "" {
		if mimeType == "image/png" {
			target = config.OutputPNG
		} else {
			target = config.OutputJPEG
		}
	}

	var buf bytes.Buffer
	switch target {
	case config.OutputPNG:
		if err := png.Encode(&buf, scaled); err != nil {
			return nil, "", fmt.Errorf("encode png: %w", err)
		}
		return buf.Bytes(), "image/png", nil
	default:
		if err := jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: clampQuality(opts.Quality)}); err != nil {
			return nil, "", fmt.Errorf("encode jpeg: %w", err)
		}
		return buf.Bytes(), "image/jpeg", nil
	}
}

func retargetExtension(id, mimeType string) string {
	dot := strings.LastIndexByte(id, '.')
	base := id
	if dot >= 0 {
		base = id[:dot]
	}
	switch mimeType {
	case "image/png":
		return base + ".png"
	case "image/jpeg":
		return base + ".jpg"
	default:
		return id
	}
}
