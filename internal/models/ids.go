package models

import "time"

// Record id prefixes.
const (
	PrefixAngebot    = "AN"
	PrefixTicket     = "ZV"
	PrefixCalculator = "RE"
	PrefixInvoice    = "AN"
)

// defaultKuerzel stands in for users without a short code.
const defaultKuerzel = "DEFAULT"

// GenerateRecordID builds ids like "AN-ABC31012025-142501" from the owner's
// short code and the creation time.
func GenerateRecordID(prefix, kuerzel string, now time.Time) string {
	if kuerzel == "" {
		kuerzel = defaultKuerzel
	}
	return prefix + "-" + kuerzel + now.Format("02012006-150405")
}
