// Package docs embeds the documentation topics served by `wpnl topic`.
package docs

import (
	"embed"
	"fmt"
	"sort"
	"strings"
)

//go:embed *.md
var docs embed.FS

// GetTopic returns the content of a documentation topic.
func GetTopic(topic string) (string, error) {
	content, err := docs.ReadFile(topic + ".md")
	if err != nil {
		return "", fmt.Errorf("topic %q not found: %w", topic, err)
	}
	return string(content), nil
}

// GetTopics returns the content of multiple documentation topics
// concatenated together. The topic "*" expands to all topics.
func GetTopics(topics ...string) (string, error) {
	var b strings.Builder
	for _, topic := range topics {
		if topic == "*" {
			all, err := GetAllTopics()
			if err != nil {
				return "", err
			}
			expanded, err := GetTopics(all...)
			if err != nil {
				return "", err
			}
			b.WriteString(expanded)
			continue
		}
		content, err := GetTopic(topic)
		if err != nil {
			return "", err
		}
		b.WriteString(content)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// GetAllTopics returns a sorted list of all available documentation topics,
// the index topic "readme" excluded.
func GetAllTopics() ([]string, error) {
	entries, err := docs.ReadDir(".")
	if err != nil {
		return nil, err
	}
	var topics []string
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), ".md")
		if name == "readme" {
			continue
		}
		topics = append(topics, name)
	}
	sort.Strings(topics)
	return topics, nil
}
