package credibility

import (
	"net/url"
	"regexp"
	"strings"
)

type Tier string

const (
	TierHigh    Tier = "high"
	TierMedium  Tier = "medium"
	TierLow     Tier = "low"
	TierUnknown Tier = "unknown"
)

type Assessment struct {
	Tier   Tier   `json:"tier"`
	Host   string `json:"host,omitempty"`
	Reason string `json:"reason,omitempty"`
}

type Assessor struct{}

func New() *Assessor { return &Assessor{} }

// host substrings, matched case-insensitively
var trustedRe = regexp.MustCompile(`edu|gov|reuters|apnews|bbc|factcheck`)
var untrustedRe = regexp.MustCompile(`blog|wordpress|medium`)

// Assess grades a source by its host name. Trusted markers win over
// untrusted ones.
func (a *Assessor) Assess(rawURL string) Assessment {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return Assessment{Tier: TierUnknown, Reason: "no url"}
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return Assessment{Tier: TierUnknown, Reason: "unparsable url"}
	}
	host := strings.ToLower(u.Hostname())

	if m := trustedRe.FindString(host); m != "" {
		return Assessment{Tier: TierHigh, Host: host, Reason: "trusted marker " + m}
	}
	if m := untrustedRe.FindString(host); m != "" {
		return Assessment{Tier: TierLow, Host: host, Reason: "self-publishing marker " + m}
	}
	return Assessment{Tier: TierMedium, Host: host}
}
