package policy

import "regexp"

var (
	emailPattern   = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	aadhaarPattern = regexp.MustCompile(`\b\d{4}[ -]?\d{4}[ -]?\d{4}\b`)
	mobilePattern  = regexp.MustCompile(`(?:\+91[\s\-.]?)?\b[6-9](?:[\s\-.]?\d){9}\b`)
)

// RedactPII masks caller identifiers before text reaches the logs: email
// addresses, Aadhaar numbers and Indian mobile numbers in the spoken forms
// the phone extractor accepts. Complaint ids are left intact.
func RedactPII(input string) (redacted string, changed bool) {
	out := input

	next := emailPattern.ReplaceAllString(out, "[REDACTED_EMAIL]")
	changed = changed || next != out
	out = next

	// Aadhaar first: its 12 digits would otherwise leave a mobile-shaped tail.
	next = aadhaarPattern.ReplaceAllString(out, "[REDACTED_AADHAAR]")
	changed = changed || next != out
	out = next

	next = mobilePattern.ReplaceAllString(out, "[REDACTED_PHONE]")
	changed = changed || next != out
	out = next

	return out, changed
}

// Redact is RedactPII without the changed flag, for log fields.
func Redact(input string) string {
	out, _ := RedactPII(input)
	return out
}
