// Package signature builds the tamper-evidence fields written with a
// signing transition: a BLAKE2b-256 digest of the payload and a short
// summary of the signing device.
package signature

import (
	"crypto/subtle"
	"encoding/hex"
	"strings"
	"time"

	"github.com/mssola/useragent"
	"golang.org/x/crypto/blake2b"

	"siteops/internal/acknowledgment/models"
	dErrors "siteops/pkg/domain-errors"
)

const (
	MaxPayloadBytes = 256 * 1024
	MaxCommentChars = 2000
)

// Capture validates the signer's input and assembles the signature capture.
func Capture(payload, comment, userAgent string, at time.Time) (models.SignatureCapture, error) {
	if strings.TrimSpace(payload) == "" {
		return models.SignatureCapture{}, dErrors.New(dErrors.CodeValidation, "signature is required")
	}
	if len(payload) > MaxPayloadBytes {
		return models.SignatureCapture{}, dErrors.New(dErrors.CodeValidation, "signature is too large")
	}
	comment = strings.TrimSpace(comment)
	if len([]rune(comment)) > MaxCommentChars {
		return models.SignatureCapture{}, dErrors.New(dErrors.CodeValidation, "comment must be 2000 characters or less")
	}
	return models.SignatureCapture{
		Payload: payload,
		Digest:  Digest(payload),
		Device:  DeviceSummary(userAgent),
		Comment: comment,
		At:      at,
	}, nil
}

// Digest returns the hex BLAKE2b-256 of payload.
func Digest(payload string) string {
	sum := blake2b.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// Verify reports whether a stored signature still matches its digest.
func Verify(ack *models.Acknowledgment) bool {
	if !ack.IsSigned() || ack.SignatureDigest == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(Digest(ack.Signature)), []byte(ack.SignatureDigest)) == 1
}

// DeviceSummary renders a user agent as "Browser on OS".
func DeviceSummary(ua string) string {
	if strings.TrimSpace(ua) == "" {
		return "Unknown Device"
	}
	parsed := useragent.New(ua)
	browser, _ := parsed.Browser()
	if browser == "" {
		browser = "Unknown Browser"
	}
	os := parsed.OS()
	if os == "" {
		os = parsed.Platform()
	}
	if os == "" {
		os = "Unknown OS"
	}
	summary := browser + " on " + os
	if parsed.Mobile() {
		summary += " (mobile)"
	}
	return strings.Join(strings.Fields(summary), " ")
}
