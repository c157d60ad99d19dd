package models

import "strings"

// DefaultCommonHashtags seeds the hashtag picker when no COMMON_HASHTAGS
// configuration is present.
var DefaultCommonHashtags = []string{"job", "event", "gridcode", "question", "news"}

// HashtagCount is one entry of a hashtag ranking (trending, reputation).
type HashtagCount struct {
	Hashtag string `json:"hashtag"`
	Count   int    `json:"count"`
}

// NormalizeHashtag trims whitespace and guarantees a single leading "#".
// Every stored hashtag goes through this.
func NormalizeHashtag(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return tag
	}
	if !strings.HasPrefix(tag, "#") {
		return "#" + tag
	}
	return tag
}
