package Controllers

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
)

const receiptDir = "uploads/receipts"

// Cap receipt images so phone-camera uploads do not bloat the uploads
// directory.
const receiptMaxWidth = 1600

// saveReceiptImage persists a receipt for an expense. The value is either a
// data URL (base64 image, the usual case from the frontend) or an already
// stored path, which is returned untouched. Returns the web path of the
// stored file, or empty string when nothing could be saved.
func saveReceiptImage(value string) string {
	if value == "" {
		return ""
	}
	if !strings.HasPrefix(value, "data:image") {
		// Already a stored path
		return value
	}

	comma := strings.Index(value, ",")
	if comma < 0 {
		return ""
	}
	raw, err := base64.StdEncoding.DecodeString(value[comma+1:])
	if err != nil {
		log.Printf("Failed to decode receipt image: %v", err)
		return ""
	}

	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		log.Printf("Failed to read receipt image: %v", err)
		return ""
	}

	// Normalize: cap the width, keep aspect ratio
	if img.Bounds().Dx() > receiptMaxWidth {
		img = imaging.Resize(img, receiptMaxWidth, 0, imaging.Lanczos)
	}

	if err := os.MkdirAll(receiptDir, 0755); err != nil {
		log.Printf("Failed to create receipts directory: %v", err)
		return ""
	}

	filename := fmt.Sprintf("%d.jpg", time.Now().UnixNano())
	outputPath := filepath.Join(receiptDir, filename)
	if err := imaging.Save(img, outputPath, imaging.JPEGQuality(85)); err != nil {
		log.Printf("Failed to save receipt image: %v", err)
		return ""
	}

	return "/" + receiptDir + "/" + filename
}
