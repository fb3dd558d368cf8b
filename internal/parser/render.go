package parser

import (
	"bytes"
	"strconv"
	"strings"
	"time"

	"github.com/starford/nerdnotes/internal/models"
)

// RenderNew produces the initial contents of a note: front matter with the
// title, creation timestamp and tags, followed by the empty canonical
// sections. Scalars are double-quoted so titles containing ':' or '#' stay
// valid YAML.
func RenderNew(title string, created time.Time, tags []string) []byte {
	quoted := make([]string, 0, len(tags))
	for _, t := range tags {
		quoted = append(quoted, strconv.Quote(t))
	}

	var b bytes.Buffer
	b.WriteString(delim + "\n")
	b.WriteString("title: " + strconv.Quote(title) + "\n")
	b.WriteString("date: " + strconv.Quote(created.Format(models.TimestampLayout)) + "\n")
	b.WriteString("tags: [" + strings.Join(quoted, ", ") + "]\n")
	b.WriteString(delim + "\n\n")
	for i, name := range models.CanonicalSections {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("# " + name + "\n")
	}
	return b.Bytes()
}

// FencedFrontmatter rewrites a leading front matter block as a fenced YAML
// code block for Markdown rendering. Content without front matter is
// returned unchanged.
func FencedFrontmatter(content string) string {
	block, bodyStart, ok := splitFrontmatter(content)
	if !ok {
		return content
	}
	return "```yaml\n" + strings.TrimRight(block, "\r\n") + "\n```\n" + content[bodyStart:]
}
