package bundle

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"

	"sorabridge/internal/videoapi"
)

// Asset is one file destined for an archive.
type Asset struct {
	Filename string
	MIME     string
	Data     []byte
}

// ArchiveAssets packs assets into an in-memory zip archive.
func ArchiveAssets(assets []Asset) ([]byte, error) {
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	for _, asset := range assets {
		w, err := zw.Create(asset.Filename)
		if err != nil {
			return nil, fmt.Errorf("archive %s: %w", asset.Filename, err)
		}
		if _, err := w.Write(asset.Data); err != nil {
			return nil, fmt.Errorf("archive %s: %w", asset.Filename, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DownloadAll fetches every content variant of a completed job and
// returns them as one zip archive.
func DownloadAll(ctx context.Context, client *videoapi.Client, jobID string) ([]byte, error) {
	assets := make([]Asset, 0, len(videoapi.Variants))
	for _, variant := range videoapi.Variants {
		blob, err := client.DownloadContent(ctx, jobID, variant)
		if err != nil {
			return nil, fmt.Errorf("download %s: %w", variant, err)
		}
		assets = append(assets, Asset{
			Filename: string(variant) + ExtensionForMIME(blob.MIME),
			MIME:     blob.MIME,
			Data:     blob.Data,
		})
	}
	return ArchiveAssets(assets)
}

// ExtensionForMIME maps the content types the provider serves to file
// extensions. Unknown types get a neutral .bin suffix.
func ExtensionForMIME(mime string) string {
	switch mime {
	case "video/mp4":
		return ".mp4"
	case "image/webp":
		return ".webp"
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	default:
		return ".bin"
	}
}
