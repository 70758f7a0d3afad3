package receipt

import (
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// DefaultQRSize is the edge length of the deposit QR image in pixels.
const DefaultQRSize = 256

// DepositPayload is the text encoded in the deposit QR. The payment step is a
// mock instrument, so the payload only identifies the account, amount and
// booking; nothing scans it into a real transfer.
func DepositPayload(accountID string, amount int, reference string) string {
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		accountID = "DEMO"
	}
	return fmt.Sprintf("PROMPTPAY|%s|%d.00|%s", accountID, amount, reference)
}

// DepositQRCode renders payload as a PNG.
func DepositQRCode(payload string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultQRSize
	}
	png, err := qrcode.Encode(payload, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("receipt: encode qr: %w", err)
	}
	return png, nil
}
