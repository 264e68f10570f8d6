package services

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

// BillQRSize is the edge length in pixels of generated bill codes
const BillQRSize = 256

// BillPaymentLink is the page a scanned bill code opens
func BillPaymentLink(baseURL string, billID uint) string {
	return fmt.Sprintf("%s/customer/bills?bill=%d", baseURL, billID)
}

// GenerateBillQR renders the payment link for a bill as a PNG
func GenerateBillQR(baseURL string, billID uint) ([]byte, error) {
	return qrcode.Encode(BillPaymentLink(baseURL, billID), qrcode.Medium, BillQRSize)
}
