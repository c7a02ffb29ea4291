package models

// QRCodeItem is an uploaded payment QR image. The payload is opaque to the
// core; it is stored and returned as-is.
type QRCodeItem struct {
	// ID is the unique identifier for the item (UUID format).
	ID string `json:"id"`

	// Type labels the payment channel (e.g. "Bank", "Momo", "ZaloPay").
	// It is an open string; only non-emptiness is enforced.
	Type string `json:"type"`

	// ImageData is the embedded image payload (data URL).
	ImageData string `json:"imageData"`
}
