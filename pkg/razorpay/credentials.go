package razorpay

import (
	"fmt"
	"regexp"
)

var (
	keyIDPattern  = regexp.MustCompile(`^rzp_(test|live)_[A-Za-z0-9]{14,}$`)
	domainPattern = regexp.MustCompile(`^https?://.+\..+`)
)

const minSecretLen = 32

// Credentials holds the gateway account settings. KeySecret is plaintext
// here; at-rest encryption happens in the config store, not in this
// package.
type Credentials struct {
	KeyID     string `json:"key_id"`
	KeySecret string `json:"key_secret"`
	BaseURL   string `json:"base_url"`
}

// Validate checks the credential shape without calling the gateway.
// Returns field-keyed messages suitable for a validation response.
func (c Credentials) Validate() map[string]string {
	errs := map[string]string{}
	if !keyIDPattern.MatchString(c.KeyID) {
		errs["key_id"] = "key id must match rzp_test_... or rzp_live_... with at least 14 trailing characters"
	}
	if len(c.KeySecret) < minSecretLen {
		errs["key_secret"] = fmt.Sprintf("key secret must be at least %d characters", minSecretLen)
	}
	if c.BaseURL != "" && !domainPattern.MatchString(c.BaseURL) {
		errs["base_url"] = "base url must be an http(s) URL with a domain"
	}
	return errs
}

// IsLive reports whether the key id belongs to a live-mode account.
func (c Credentials) IsLive() bool {
	return len(c.KeyID) > 8 && c.KeyID[:8] == "rzp_live"
}

// MaskedKeyID returns the key id with all but the prefix and last four
// characters replaced, for display in admin screens.
func (c Credentials) MaskedKeyID() string {
	if len(c.KeyID) < 13 {
		return "****"
	}
	// rzp_test_ or rzp_live_ prefix is 9 chars
	return c.KeyID[:9] + "****" + c.KeyID[len(c.KeyID)-4:]
}
