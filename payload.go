package main

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"net/http"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

var errEmptyPayload = errors.New("empty image payload")

// Payload is an owned copy of encoded image bytes.
type Payload struct {
	MIME string
	Data []byte
}

func NewPayload(data []byte) *Payload {
	owned := append([]byte(nil), data...)
	return &Payload{MIME: sniffMIME(owned), Data: owned}
}

func sniffMIME(data []byte) string {
	mime := http.DetectContentType(data)
	if strings.HasPrefix(mime, "image/") {
		return mime
	}
	return "image/png"
}

// DataURL renders the payload as a data: URL.
func (p *Payload) DataURL() string {
	return "data:" + p.MIME + ";base64," + base64.StdEncoding.EncodeToString(p.Data)
}

func (p *Payload) Base64() string {
	return base64.StdEncoding.EncodeToString(p.Data)
}

// ParseDataURL decodes a base64 data: URL. A missing or malformed media type
// defaults to image/png.
func ParseDataURL(s string) (*Payload, error) {
	header, data, ok := strings.Cut(s, ",")
	if !ok || !strings.HasPrefix(header, "data:") {
		return nil, fmt.Errorf("not a data URL")
	}
	mime := "image/png"
	if meta := strings.TrimPrefix(header, "data:"); meta != "" {
		if m, _, _ := strings.Cut(meta, ";"); m != "" {
			mime = m
		}
	}
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("decode data URL: %w", err)
	}
	if len(raw) == 0 {
		return nil, errEmptyPayload
	}
	return &Payload{MIME: mime, Data: raw}, nil
}

// Decode decodes the payload into an image.
func (p *Payload) Decode() (image.Image, error) {
	if p == nil || len(p.Data) == 0 {
		return nil, errEmptyPayload
	}
	img, _, err := image.Decode(bytes.NewReader(p.Data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", p.MIME, err)
	}
	return img, nil
}

// NaturalSize reads the pixel dimensions without decoding the whole image.
func (p *Payload) NaturalSize() (int, int, error) {
	if p == nil || len(p.Data) == 0 {
		return 0, 0, errEmptyPayload
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(p.Data))
	if err != nil {
		return 0, 0, fmt.Errorf("read %s size: %w", p.MIME, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return 0, 0, fmt.Errorf("image has no pixels")
	}
	return cfg.Width, cfg.Height, nil
}

// EncodePNG wraps an image as a PNG payload.
func EncodePNG(img image.Image) (*Payload, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return &Payload{MIME: "image/png", Data: buf.Bytes()}, nil
}
