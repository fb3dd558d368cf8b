package parser

import "strings"

// section is one level-1 heading and the byte range of the text it owns.
type section struct {
	name      string
	bodyStart int // first byte after the heading line
	end       int // start of the next level-1 heading, or len(content)
}

type line struct {
	text  string
	start int
	next  int
}

// ExtractSection returns the trimmed text between the level-1 heading called
// name and the next level-1 heading. It returns "" when the section is absent.
func ExtractSection(content, name string) string {
	s, ok := findSection(content, strings.TrimSpace(name))
	if !ok {
		return ""
	}
	return strings.TrimSpace(content[s.bodyStart:s.end])
}

// UpdateSection replaces the body of the named section with body. When the
// section does not exist it is appended at the end of the document. Text
// outside the section is left byte-for-byte unchanged and body is written as
// given, minus trailing newlines.
func UpdateSection(content, name, body string) string {
	name = strings.TrimSpace(name)
	body = strings.TrimRight(body, "\r\n")

	if s, ok := findSection(content, name); ok {
		head := content[:s.bodyStart]
		if !strings.HasSuffix(head, "\n") {
			head += "\n"
		}
		tail := content[s.end:]
		if body != "" {
			body += "\n"
			// Keep a blank line before the following heading.
			if tail != "" {
				body += "\n"
			}
		} else if tail != "" {
			body = "\n"
		}
		return head + body + tail
	}

	var b strings.Builder
	if content != "" {
		b.WriteString(strings.TrimSuffix(content, "\n"))
		b.WriteString("\n\n")
	}
	b.WriteString("# ")
	b.WriteString(name)
	b.WriteByte('\n')
	if body != "" {
		b.WriteString(body)
		b.WriteByte('\n')
	}
	return b.String()
}

// Sections lists the level-1 heading names of content in document order.
func Sections(content string) []string {
	all := scanSections(content)
	names := make([]string, 0, len(all))
	for _, s := range all {
		names = append(names, s.name)
	}
	return names
}

func findSection(content, name string) (section, bool) {
	for _, s := range scanSections(content) {
		if s.name == name {
			return s, true
		}
	}
	return section{}, false
}

// scanSections finds level-1 headings in the body of content. Front matter
// and closed fenced code blocks are never scanned for headings.
func scanSections(content string) []section {
	start := 0
	if _, bodyStart, ok := splitFrontmatter(content); ok {
		start = bodyStart
	}

	lines := splitLines(content, start)
	fenced := fencedLines(lines)

	var out []section
	for i, l := range lines {
		if fenced[i] {
			continue
		}
		name, ok := headingName(l.text)
		if !ok {
			continue
		}
		if n := len(out); n > 0 {
			out[n-1].end = l.start
		}
		out = append(out, section{name: name, bodyStart: l.next, end: len(content)})
	}
	return out
}

func splitLines(content string, from int) []line {
	var lines []line
	for pos := from; pos < len(content); {
		text, next := lineAt(content, pos)
		lines = append(lines, line{text: text, start: pos, next: next})
		pos = next
	}
	return lines
}

type fence struct {
	char byte
	size int
}

// fencedLines marks the lines that belong to a closed ``` or ~~~ block,
// delimiters included. An unclosed fence marks nothing.
//
// A block whose closing delimiter lies past a level-1 heading is ambiguous:
// the heading may be code, or the fence may have been left open in the
// previous section. The block is kept only when that leaves fewer unclosed
// fences in the rest of the document; otherwise the heading wins.
func fencedLines(lines []line) []bool {
	marked := make([]bool, len(lines))
	for i := 0; i < len(lines); i++ {
		f, ok := openingFence(lines[i].text)
		if !ok {
			continue
		}
		j := closingLine(lines, i, f)
		if j < 0 {
			continue
		}
		if crossesHeading(lines[i+1:j]) && unclosedFrom(lines, j+1) >= 1+unclosedFrom(lines, i+1) {
			continue
		}
		for k := i; k <= j; k++ {
			marked[k] = true
		}
		i = j
	}
	return marked
}

// unclosedFrom counts the fences opened at or after from that never close.
func unclosedFrom(lines []line, from int) int {
	n := 0
	for k := from; k < len(lines); k++ {
		f, ok := openingFence(lines[k].text)
		if !ok {
			continue
		}
		if j := closingLine(lines, k, f); j >= 0 {
			k = j
		} else {
			n++
		}
	}
	return n
}

func closingLine(lines []line, open int, f fence) int {
	for k := open + 1; k < len(lines); k++ {
		if f.closedBy(lines[k].text) {
			return k
		}
	}
	return -1
}

func crossesHeading(lines []line) bool {
	for _, l := range lines {
		if _, ok := headingName(l.text); ok {
			return true
		}
	}
	return false
}

// openingFence reports whether text opens a block with at least three
// backticks or tildes, indented by no more than three spaces.
func openingFence(text string) (fence, bool) {
	t := strings.TrimLeft(text, " ")
	if len(text)-len(t) > 3 || t == "" || (t[0] != '`' && t[0] != '~') {
		return fence{}, false
	}
	n := 1
	for n < len(t) && t[n] == t[0] {
		n++
	}
	if n < 3 {
		return fence{}, false
	}
	return fence{char: t[0], size: n}, true
}

// closedBy reports whether text is a bare delimiter that closes f. An info
// string after the delimiter makes it an opener, not a closer.
func (f fence) closedBy(text string) bool {
	t := strings.TrimLeft(text, " ")
	if len(text)-len(t) > 3 {
		return false
	}
	t = strings.TrimRight(t, " \t\r")
	if len(t) < f.size {
		return false
	}
	for i := 0; i < len(t); i++ {
		if t[i] != f.char {
			return false
		}
	}
	return true
}

// headingName reports whether text is a level-1 ATX heading and returns its
// trimmed name.
func headingName(text string) (string, bool) {
	text = strings.TrimRight(text, "\r")
	if !strings.HasPrefix(text, "#") || strings.HasPrefix(text, "##") {
		return "", false
	}
	return strings.TrimSpace(text[1:]), true
}
