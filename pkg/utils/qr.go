package utils

import (
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// QRBase64 renders the receipt verification URL as a base64 PNG for
// inline embedding in the receipt payload.
func QRBase64(content string, size int) (string, error) {
	if size <= 0 {
		size = 256
	}

	png, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		return "", fmt.Errorf("encode qr: %w", err)
	}

	return base64.StdEncoding.EncodeToString(png), nil
}
