package booking

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

const DefaultQRSize = 256

type QRGenerator struct {
	size int
}

func NewQRGenerator(size int) *QRGenerator {
	if size <= 0 {
		size = DefaultQRSize
	}
	return &QRGenerator{size: size}
}

// PNG encodes payload as-is. The payload is an opaque identifier.
func (q *QRGenerator) PNG(payload string) ([]byte, error) {
	if payload == "" {
		return nil, fmt.Errorf("qr: empty payload")
	}
	png, err := qrcode.Encode(payload, qrcode.Medium, q.size)
	if err != nil {
		return nil, fmt.Errorf("qr: encode %q: %w", payload, err)
	}
	return png, nil
}
