package platform

import "strings"

// Signature is a comma-separated token set identifying a
// vendor/hardware combination, read from a device's hardware
// description (device-tree compatible property) or supplied explicitly.
type Signature string

// Tokens splits the signature into its components. Empty components
// are dropped.
func (s Signature) Tokens() []string {
	var out []string
	for _, t := range strings.Split(string(s), ",") {
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Matches reports whether every token of query is present in s.
// Matching is case-sensitive with no normalization; an empty query
// never matches.
func (s Signature) Matches(query Signature) bool {
	qTokens := query.Tokens()
	if len(qTokens) == 0 {
		return false
	}
	have := make(map[string]bool)
	for _, t := range s.Tokens() {
		have[t] = true
	}
	for _, t := range qTokens {
		if !have[t] {
			return false
		}
	}
	return true
}
