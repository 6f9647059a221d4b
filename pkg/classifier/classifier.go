package classifier

import "strings"

// Classifier decides whether a user message warrants retrieval at all.
// It is a coarse substring gate: false negatives just fall back to an
// ungrounded answer, false positives only cost an extra retrieval pass.
type Classifier struct {
	keywords []string
}

// New builds a classifier over the given vocabulary. Keywords are matched
// lower-cased as plain substrings, not on word boundaries.
func New(vocabularies ...[]string) *Classifier {
	var keywords []string
	for _, vocab := range vocabularies {
		for _, kw := range vocab {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" {
				keywords = append(keywords, kw)
			}
		}
	}
	return &Classifier{keywords: keywords}
}

// IsDomainQuery reports whether the message looks like a question about the
// course catalog or the professions it serves.
func (c *Classifier) IsDomainQuery(message string) bool {
	messageLower := strings.ToLower(message)
	for _, kw := range c.keywords {
		if strings.Contains(messageLower, kw) {
			return true
		}
	}
	return false
}
