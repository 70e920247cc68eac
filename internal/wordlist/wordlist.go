// Package wordlist loads word lists from plain text or YAML files.
//
// Plain text holds one word per line, blank lines and lines starting with # are skipped.
// YAML files carry a shared list and optional personal lists:
//
//	words: [cat, dog]
//	players:
//	  - name: Ann
//	    words: [owl]
package wordlist

import (
	"bufio"
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrEmpty = errors.New("word list is empty")

//go:embed default.txt
var defaultWords []byte

type PlayerList struct {
	Name  string   `yaml:"name"`
	Words []string `yaml:"words"`
}

type List struct {
	Words   []string     `yaml:"words"`
	Players []PlayerList `yaml:"players,omitempty"`
}

// WordsFor returns the personal words of the named player, matched case-insensitively.
func (l List) WordsFor(name string) []string {
	for _, p := range l.Players {
		if strings.EqualFold(strings.TrimSpace(p.Name), strings.TrimSpace(name)) {
			return p.Words
		}
	}
	return nil
}

// Default is the built-in shared list.
func Default() []string {
	words, _ := ParseText(bytes.NewReader(defaultWords))
	return words
}

// Load reads a list, choosing the format by file extension.
func Load(path string) (List, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return List{}, fmt.Errorf("read word list: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		words, err := ParseText(bytes.NewReader(data))
		if err != nil {
			return List{}, err
		}
		return List{Words: words}, nil
	}
}

func ParseText(r io.Reader) ([]string, error) {
	var words []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan word list: %w", err)
	}
	if len(words) == 0 {
		return nil, ErrEmpty
	}
	return words, nil
}

func ParseYAML(data []byte) (List, error) {
	var l List
	if err := yaml.Unmarshal(data, &l); err != nil {
		return List{}, fmt.Errorf("parse word list: %w", err)
	}

	l.Words = clean(l.Words)
	for i := range l.Players {
		l.Players[i].Words = clean(l.Players[i].Words)
	}
	if len(l.Words) == 0 {
		return List{}, ErrEmpty
	}
	return l, nil
}

// Split parses free-form input where words are separated by commas or new lines.
func Split(s string) []string {
	return clean(strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r' || r == ';'
	}))
}

func clean(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			out = append(out, w)
		}
	}
	return out
}
