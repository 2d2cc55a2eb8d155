// utils/safelog.go
// ============================================================================
// SAFE LOGGING - masks personal and financial data in production logs
// ============================================================================

package utils

import (
	"fmt"
	"log"
	"os"
	"regexp"
)

// IsProduction controls masking. In production, emails, amounts, and IDs are
// masked before anything reaches the log output.
var IsProduction = os.Getenv("GIN_MODE") == "release" ||
	os.Getenv("ENVIRONMENT") == "production" ||
	os.Getenv("ENV") == "production"

var (
	emailRegex  = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	amountRegex = regexp.MustCompile(`\b\d+([.,]\d{1,2})?\s*(€|EUR|ILS|USD|₪|\$)\b`)
	uuidRegex   = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)
)

// MaskString masks sensitive data in a string when running in production.
func MaskString(input string) string {
	if !IsProduction {
		return input
	}

	result := emailRegex.ReplaceAllString(input, "***@***.***")
	result = amountRegex.ReplaceAllString(result, "***")
	result = uuidRegex.ReplaceAllStringFunc(result, shortenID)
	return result
}

// MaskAmount masks a financial amount in production.
func MaskAmount(amount float64) string {
	if IsProduction {
		return "***"
	}
	return fmt.Sprintf("%.2f", amount)
}

// MaskID keeps the first 8 characters of an ID in production.
func MaskID(id string) string {
	if !IsProduction {
		return id
	}
	return shortenID(id)
}

// MaskEmail masks an email address in production.
func MaskEmail(email string) string {
	if !IsProduction {
		return email
	}
	return "***@***.***"
}

func shortenID(id string) string {
	if len(id) > 8 {
		return id[:8] + "..."
	}
	return "***"
}

// SafeLog logs a formatted message with sensitive data masked.
func SafeLog(format string, args ...interface{}) {
	log.Print(MaskString(fmt.Sprintf(format, args...)))
}

// LogTripAction logs a trip mutation without exposing identifiers in production.
func LogTripAction(action, tripID, userID string) {
	log.Printf("[Trip] %s - Trip: %s User: %s", action, MaskID(tripID), MaskID(userID))
}

// LogAuthAction logs an authentication attempt.
func LogAuthAction(action, email string, success bool) {
	status := "SUCCESS"
	if !success {
		status = "FAILED"
	}
	log.Printf("[Auth] %s - Email: %s Status: %s", action, MaskEmail(email), status)
}

// LogWebSocket logs a WebSocket lifecycle event.
func LogWebSocket(action, tripID string) {
	log.Printf("[WS] %s - Trip: %s", action, MaskID(tripID))
}
