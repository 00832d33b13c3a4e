package prompts

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Prompt is one selectable analysis instruction
type Prompt struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description,omitempty"`
	Text        string `yaml:"-" json:"text"`
	Path        string `yaml:"-" json:"-"` // empty for built-ins
}

// Library holds the built-in catalog followed by user prompt files
type Library struct {
	prompts []Prompt
	dir     string
}

// NewLibrary loads the built-in catalog plus every *.md prompt file in
// dir. An empty dir yields only the built-ins; a missing dir is created.
// A dir that cannot be created or read is logged and skipped.
func NewLibrary(dir string) (*Library, error) {
	lib := &Library{dir: dir}
	for i, text := range Catalog {
		p := Prompt{Name: text, Text: text}
		if i == 0 {
			p.Text = ""
		}
		lib.prompts = append(lib.prompts, p)
	}

	if dir == "" {
		return lib, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		slog.Warn("prompts dir unavailable, using built-ins only", "dir", dir, "error", err)
		return lib, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		slog.Warn("failed to read prompts dir", "dir", dir, "error", err)
		return lib, nil
	}

	var user []Prompt
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}

		p, err := LoadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			slog.Warn("skipping prompt file", "file", entry.Name(), "error", err)
			continue
		}
		user = append(user, *p)
	}

	sort.Slice(user, func(i, j int) bool { return user[i].Name < user[j].Name })
	lib.prompts = append(lib.prompts, user...)

	return lib, nil
}

// LoadFile reads a prompt file: optional YAML front matter between ---
// lines, then the instruction body.
func LoadFile(path string) (*Prompt, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var p Prompt
	body := string(content)

	if strings.HasPrefix(body, "---") {
		// parts[0] is empty, parts[1] is front matter, parts[2] is body
		parts := strings.SplitN(body, "---", 3)
		if len(parts) < 3 {
			return nil, errors.New("unterminated front matter")
		}
		if err := yaml.Unmarshal([]byte(parts[1]), &p); err != nil {
			return nil, fmt.Errorf("front matter: %w", err)
		}
		body = parts[2]
	}

	p.Text = strings.TrimSpace(body)
	if p.Text == "" {
		return nil, errors.New("empty prompt body")
	}
	if p.Name == "" {
		p.Name = strings.TrimSuffix(filepath.Base(path), ".md")
	}
	p.Path = path

	return &p, nil
}

// All returns every prompt; index 0 is the placeholder
func (l *Library) All() []Prompt {
	if l == nil {
		return nil
	}
	return l.prompts
}

func (l *Library) Len() int {
	if l == nil {
		return 0
	}
	return len(l.prompts)
}

// Names returns the display name of every prompt, placeholder first
func (l *Library) Names() []string {
	names := make([]string, l.Len())
	for i, p := range l.All() {
		names[i] = p.Name
	}
	return names
}

// Resolve is the library-wide form of the package Resolve
func (l *Library) Resolve(selected int, custom string) (string, error) {
	texts := make([]string, l.Len())
	for i, p := range l.All() {
		texts[i] = p.Text
	}
	return resolve(texts, selected, custom)
}

// Dir returns the user prompt directory
func (l *Library) Dir() string {
	return l.dir
}
