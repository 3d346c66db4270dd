package utils

import (
	"regexp"
	"strings"
)

// BlockedDomains are consumer mailbox providers; logins must use a corporate address.
var BlockedDomains = map[string]struct{}{
	"gmail.com": {}, "googlemail.com": {},
	"hotmail.com": {}, "hotmail.co.uk": {},
	"outlook.com": {}, "outlook.co.uk": {}, "live.com": {},
	"yahoo.com": {}, "yahoo.co.uk": {}, "ymail.com": {},
	"icloud.com": {}, "me.com": {}, "mac.com": {},
	"aol.com": {}, "aol.co.uk": {},
	"protonmail.com": {}, "protonmail.ch": {}, "pm.me": {},
	"mail.com": {},
	"zoho.com": {}, "zohomail.com": {},
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail is a shape check for local@domain.tld, nothing more.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// EmailDomain returns the lower-cased part after the last '@', or "".
func EmailDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return ""
	}
	return strings.ToLower(email[at+1:])
}

// IsBlockedDomain reports whether email belongs to a personal provider.
// Addresses without a domain count as blocked.
func IsBlockedDomain(email string) bool {
	domain := EmailDomain(email)
	if domain == "" {
		return true
	}
	_, blocked := BlockedDomains[domain]
	return blocked
}

// MaskEmail renders j***@company.com for logs.
func MaskEmail(email string) string {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return email
	}
	return email[:1] + "***" + email[at:]
}
