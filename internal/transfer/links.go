package transfer

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// shareLinkPattern matches URLs that carry a task query parameter.
var shareLinkPattern = regexp.MustCompile(`[a-zA-Z][a-zA-Z0-9+.-]*://[^\s"'<>]*\?[^\s"'<>]*\btask=[^\s"'<>]+`)

// FindShareLinks extracts share links from free text, such as a pasted
// message. Returns a deduplicated list preserving the order of first
// occurrence.
func FindShareLinks(text string) []string {
	matches := shareLinkPattern.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]bool)
	var result []string
	for _, m := range matches {
		if seen[m] {
			continue
		}
		seen[m] = true
		result = append(result, m)
	}
	return result
}

// LoadShared resolves ref into a shared task. ref is either a share link
// or the path of a file containing one, such as a saved .eml message or a
// text file. The first link found in a file is used.
func LoadShared(ref string) (Shared, error) {
	ref = strings.TrimSpace(ref)
	if strings.Contains(ref, "task=") {
		return ParseShareLink(ref)
	}

	data, err := os.ReadFile(ref)
	if err != nil {
		return Shared{}, fmt.Errorf("reading %s: %w", ref, err)
	}

	text := string(data)
	if strings.EqualFold(filepath.Ext(ref), ".eml") {
		text, err = MessageText(bytes.NewReader(data))
		if err != nil {
			return Shared{}, err
		}
	}

	links := FindShareLinks(text)
	if len(links) == 0 {
		return Shared{}, &ParseError{Source: ref, Err: ErrNoTaskParam}
	}
	return ParseShareLink(links[0])
}
