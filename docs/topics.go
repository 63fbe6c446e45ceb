// Package docs embeds the user manual of duesctl, one markdown file per topic.
//
// readme.md is the entry point: it lists every topic as "* name: synopsis".
package docs

import (
	"bufio"
	"embed"
	"fmt"
	"io/fs"
	"regexp"
	"slices"
	"strings"
)

//go:embed *.md
var docs embed.FS

// Topic is an entry of the manual index.
type Topic struct {
	Name     string
	Synopsis string
}

var indexLine = regexp.MustCompile(`^\*\s+([^:]+):\s*(.*)$`)

// Index returns the topics listed in readme.md, in their order.
func Index() ([]Topic, error) {
	f, err := docs.Open("readme.md")
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var topics []Topic
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if m := indexLine.FindStringSubmatch(scanner.Text()); m != nil {
			topics = append(topics, Topic{Name: strings.TrimSpace(m[1]), Synopsis: strings.TrimSpace(m[2])})
		}
	}
	return topics, scanner.Err()
}

// GetTopic returns the content of a documentation topic, "*" for all of them.
func GetTopic(topic string) (string, error) {
	if topic == "*" {
		return GetTopics(topic)
	}
	content, err := docs.ReadFile(topic + ".md")
	if err != nil {
		return "", fmt.Errorf("topic %q not found: %w", topic, err)
	}
	return string(content), nil
}

// GetTopics returns the content of several topics, one after the other. "*"
// stands for every topic but the readme.
func GetTopics(topics ...string) (string, error) {
	var names []string
	for _, t := range topics {
		if t != "*" {
			names = append(names, t)
			continue
		}
		all, err := GetAllTopics()
		if err != nil {
			return "", err
		}
		names = append(names, all...)
	}

	var b strings.Builder
	for _, name := range names {
		content, err := GetTopic(name)
		if err != nil {
			return "", err
		}
		b.WriteString(content)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// GetAllTopics returns the name of every topic but the readme, sorted.
func GetAllTopics() ([]string, error) {
	files, err := fs.Glob(docs, "*.md")
	if err != nil {
		return nil, err
	}
	var topics []string
	for _, f := range files {
		if name := strings.TrimSuffix(f, ".md"); name != "readme" {
			topics = append(topics, name)
		}
	}
	slices.Sort(topics)
	return topics, nil
}
