package util

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
)

// QRCodeDataURI encodes text as a PNG QR code and returns it as a data URI
// usable directly in an <img src>.
func QRCodeDataURI(text string, size int) (string, error) {
	qr, err := qrcode.New(text, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("failed to generate QR code: %w", err)
	}
	png, err := qr.PNG(size)
	if err != nil {
		return "", fmt.Errorf("failed to encode QR code: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// EnsureDataURI prefixes a bare base64 payload with a data URI header.
func EnsureDataURI(payload, mimeType string) string {
	if payload == "" {
		return ""
	}
	if strings.HasPrefix(payload, "data:image/") {
		return payload
	}
	if mimeType == "" {
		mimeType = "image/png"
	}
	return "data:" + mimeType + ";base64," + payload
}
