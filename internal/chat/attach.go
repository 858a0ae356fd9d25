package chat

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/nfnt/resize"
	"golang.org/x/sync/errgroup"
	"rsc.io/pdf"

	"github.com/davidhbaek/termchat/internal/wire"
)

const maxImageSize = 5 * 1024 * 1024 // 5 MB (the max Claude allows per image)

// loadAttachments builds the image content blocks for the first user turn.
// For Anthropic the bytes are fetched and base64-encoded; the OpenAI API takes
// image URLs directly so the path is passed through untouched. Files load
// concurrently in input order.
func loadAttachments(provider Provider, paths []string) ([]wire.Content, error) {
	content := make([]wire.Content, len(paths))

	var g errgroup.Group
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if provider != Anthropic {
				img := &wire.OpenAIImage{Type: "image_url"}
				img.ImageURL.URL = path
				content[i] = img
				return nil
			}

			imgBytes, err := loadImage(path)
			if err != nil {
				return fmt.Errorf("loading image %s: %w", path, err)
			}

			img := &wire.AnthropicImage{Type: "image"}
			img.Source.Type = "base64"
			img.Source.MediaType = http.DetectContentType(imgBytes)
			img.Source.Data = base64.StdEncoding.EncodeToString(imgBytes)
			content[i] = img
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return content, nil
}

// loadImage reads an image from a URL or local path, resizing it under the
// provider cap when needed.
func loadImage(path string) ([]byte, error) {
	buffer := bytes.Buffer{}

	if strings.HasPrefix(path, "https://") {
		rsp, err := http.Get(path)
		if err != nil {
			return nil, err
		}
		defer rsp.Body.Close()

		_, err = io.Copy(&buffer, rsp.Body)
		if err != nil {
			return nil, err
		}

		return buffer.Bytes(), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	fileInfo, err := file.Stat()
	if err != nil {
		return nil, err
	}

	// Send the bytes straight back if no resize is needed
	if fileInfo.Size() <= maxImageSize {
		if _, err := io.Copy(&buffer, file); err != nil {
			return nil, fmt.Errorf("copying image bytes: %w", err)
		}
		return buffer.Bytes(), nil
	}

	targetSize := float64(maxImageSize) / float64(fileInfo.Size())

	switch filepath.Ext(path) {
	case ".jpg", ".jpeg":
		img, err := jpeg.Decode(file)
		if err != nil {
			return nil, err
		}

		if err := jpeg.Encode(&buffer, resizeImg(img, targetSize), &jpeg.Options{Quality: jpeg.DefaultQuality}); err != nil {
			return nil, err
		}

	case ".png":
		img, err := png.Decode(file)
		if err != nil {
			return nil, err
		}

		encoder := png.Encoder{CompressionLevel: png.BestCompression}
		if err := encoder.Encode(&buffer, resizeImg(img, targetSize)); err != nil {
			return nil, err
		}

	default:
		return nil, fmt.Errorf("image %s is over %d bytes and not resizable", path, maxImageSize)
	}

	return buffer.Bytes(), nil
}

func resizeImg(img image.Image, size float64) image.Image {
	width := uint(float64(img.Bounds().Dx()) * size)
	height := uint(float64(img.Bounds().Dy()) * size)

	return resize.Resize(width, height, img, resize.Lanczos3)
}

// loadDocuments extracts the text of each PDF, concurrently, in input order.
func loadDocuments(paths []string) (string, error) {
	texts := make([]string, len(paths))

	var g errgroup.Group
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			file, err := pdf.Open(path)
			if err != nil {
				return fmt.Errorf("opening document %s: %w", path, err)
			}

			var sb strings.Builder
			for p := 1; p <= file.NumPage(); p++ {
				for _, t := range file.Page(p).Content().Text {
					sb.WriteString(t.S)
					sb.WriteString("\n")
				}
			}

			texts[i] = sb.String()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return "", err
	}

	return strings.Join(texts, "\n"), nil
}

func wrapInXMLTags(text, tag string) string {
	return fmt.Sprintf("<%s>%s</%s>", tag, text, tag)
}
