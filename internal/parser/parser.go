// Package parser reads note documents: YAML front matter followed by a
// Markdown body divided into level-1 sections.
package parser

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/starford/nerdnotes/internal/apperr"
)

const delim = "---"

// Frontmatter is the metadata block at the top of a note.
type Frontmatter struct {
	Title string `yaml:"title"`
	Date  string `yaml:"date"`
	Tags  Tags   `yaml:"tags"`
}

// Result holds the output of parsing a note file.
type Result struct {
	Frontmatter    Frontmatter
	HasFrontmatter bool
	Body           string
}

// Title returns the front matter title.
func (r *Result) Title() string { return r.Frontmatter.Title }

// Tags returns the normalized tag set.
func (r *Result) Tags() []string { return []string(r.Frontmatter.Tags) }

// Parse splits data into front matter and body. A document without a complete
// front matter block is all body. Malformed YAML is reported as apperr.ErrParse.
func Parse(data []byte) (*Result, error) {
	content := string(data)
	block, bodyStart, ok := splitFrontmatter(content)
	if !ok {
		return &Result{Body: content}, nil
	}

	var fm Frontmatter
	if err := yaml.Unmarshal([]byte(block), &fm); err != nil {
		return nil, fmt.Errorf("%w: front matter: %v", apperr.ErrParse, err)
	}

	return &Result{
		Frontmatter:    fm,
		HasFrontmatter: true,
		Body:           strings.TrimLeft(content[bodyStart:], "\r\n"),
	}, nil
}

// splitFrontmatter locates a leading front matter block. It returns the YAML
// text between the delimiter lines and the offset at which the body starts.
// ok is false when content does not open with a closed front matter block.
func splitFrontmatter(content string) (block string, bodyStart int, ok bool) {
	pos := 0
	// Blank lines before the opening delimiter are tolerated.
	for pos < len(content) {
		line, next := lineAt(content, pos)
		if strings.TrimSpace(line) != "" {
			break
		}
		pos = next
	}

	line, next := lineAt(content, pos)
	if strings.TrimRight(line, " \t\r") != delim {
		return "", 0, false
	}

	start := next
	for p := next; p < len(content); {
		line, n := lineAt(content, p)
		if strings.TrimRight(line, " \t\r") == delim {
			return content[start:p], n, true
		}
		p = n
	}
	return "", 0, false
}

// lineAt returns the line beginning at pos without its newline, and the
// offset of the following line.
func lineAt(s string, pos int) (string, int) {
	if pos >= len(s) {
		return "", len(s)
	}
	if i := strings.IndexByte(s[pos:], '\n'); i >= 0 {
		return s[pos : pos+i], pos + i + 1
	}
	return s[pos:], len(s)
}
