package domain

import "strings"

// StopCondition a model may not have a predetermined stop condition, so this interface allows to configure
// how to stop completion.
type StopCondition interface {
	ShouldStop(prompt, response string) bool
}

type keywordsStopCondition struct {
	keywords []string
}

// NewKeywordsStopCondition stops as soon as the response contains any of the keywords. Empty keywords are ignored.
func NewKeywordsStopCondition(keywords ...string) StopCondition {
	nonEmpty := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		if keyword != "" {
			nonEmpty = append(nonEmpty, keyword)
		}
	}
	return &keywordsStopCondition{keywords: nonEmpty}
}

func (k *keywordsStopCondition) ShouldStop(_, response string) bool {
	for _, keyword := range k.keywords {
		if strings.Contains(response, keyword) {
			return true
		}
	}
	return false
}
