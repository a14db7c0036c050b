package transfer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/emersion/go-message/mail"

	"github.com/nhle/taskdeck/internal/model"
)

// ReadTasks decodes an import file. The top-level value must be a JSON
// array; null entries are skipped.
func ReadTasks(r io.Reader) ([]model.Task, error) {
	return readTasks(r, "import file")
}

func readTasks(r io.Reader, source string) ([]model.Task, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", source, err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		if !json.Valid(trimmed) {
			return nil, &ParseError{Source: source, Err: fmt.Errorf("invalid JSON")}
		}
		return nil, &ParseError{Source: source, Err: ErrNotArray}
	}

	var raw []*model.Task
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, &ParseError{Source: source, Err: err}
	}

	tasks := make([]model.Task, 0, len(raw))
	for _, t := range raw {
		if t != nil {
			tasks = append(tasks, *t)
		}
	}
	return tasks, nil
}

// ReadFile reads tasks from path. Files ending in .eml are treated as saved
// mail messages and the first JSON attachment is imported.
func ReadFile(path string) ([]model.Task, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".eml") {
		return ReadMessage(f)
	}
	return readTasks(f, path)
}

// ReadMessage extracts tasks from the first JSON part of a mail message.
func ReadMessage(r io.Reader) ([]model.Task, error) {
	mr, err := mail.CreateReader(r)
	if err != nil {
		return nil, &ParseError{Source: "mail message", Err: err}
	}
	defer mr.Close()

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ParseError{Source: "mail message", Err: err}
		}

		var contentType, filename string
		switch h := part.Header.(type) {
		case *mail.InlineHeader:
			contentType, _, _ = h.ContentType()
		case *mail.AttachmentHeader:
			contentType, _, _ = h.ContentType()
			filename, _ = h.Filename()
		}

		if contentType == "application/json" || strings.HasSuffix(strings.ToLower(filename), ".json") {
			source := "attachment"
			if filename != "" {
				source = filename
			}
			return readTasks(part.Body, source)
		}
	}

	return nil, &ParseError{Source: "mail message", Err: ErrNoTasks}
}

// MessageText returns the concatenated text/plain parts of a mail message.
func MessageText(r io.Reader) (string, error) {
	mr, err := mail.CreateReader(r)
	if err != nil {
		return "", &ParseError{Source: "mail message", Err: err}
	}
	defer mr.Close()

	var sb strings.Builder
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", &ParseError{Source: "mail message", Err: err}
		}

		h, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		contentType, _, _ := h.ContentType()
		if !strings.HasPrefix(contentType, "text/plain") {
			continue
		}
		body, err := io.ReadAll(part.Body)
		if err != nil {
			return "", fmt.Errorf("reading message body: %w", err)
		}
		sb.Write(body)
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}
