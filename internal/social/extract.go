// Package social pulls hashtags and mentions out of post text.
package social

import "regexp"

var (
	hashtagPattern = regexp.MustCompile(`#[\p{L}\p{N}_]+`)
	mentionPattern = regexp.MustCompile(`@[\p{L}\p{N}_]+`)
)

// Elements lists tags in the order they appear; repeats are kept.
type Elements struct {
	Hashtags []string
	Mentions []string
}

func (e Elements) HashtagCount() int { return len(e.Hashtags) }

func (e Elements) MentionCount() int { return len(e.Mentions) }

func Extract(text string) Elements {
	return Elements{
		Hashtags: Hashtags(text),
		Mentions: Mentions(text),
	}
}

func Hashtags(text string) []string {
	return findAll(hashtagPattern, text)
}

func Mentions(text string) []string {
	return findAll(mentionPattern, text)
}

// findAll never returns nil so the JSON encoding is [] rather than null.
func findAll(pattern *regexp.Regexp, text string) []string {
	matches := pattern.FindAllString(text, -1)
	if matches == nil {
		return []string{}
	}
	return matches
}
