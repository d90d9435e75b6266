package main

import (
	"os"
	"regexp"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/cockroachdb/errors"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/term"
)

// defaultOutputWidth is used when the terminal width cannot be detected.
const defaultOutputWidth = 80

// resolveOutputWidth returns the requested width when one was given,
// otherwise the detected terminal width.
func resolveOutputWidth(requested int, explicit bool, out *os.File) (int, error) {
	if explicit {
		if requested <= 0 {
			return 0, markf(errInvalidOutputWidth, "output width must be greater than zero, got %d", requested)
		}
		return requested, nil
	}
	if out != nil {
		if w, _, err := term.GetSize(int(out.Fd())); err == nil && w > 0 {
			return w, nil
		}
	}
	return defaultOutputWidth, nil
}

// reEscape matches one escape sequence: CSI, OSC terminated by BEL or ST,
// any other ESC-introduced sequence, or a lone ESC byte.
var reEscape = regexp.MustCompile(`\x1b(?:\[[0-9;?]*[ -/]*[@-~]|\][^\x07\x1b]*(?:\x07|\x1b\\)|[ -/]*[0-~])?`)

// renderColorful converts HTML that may already contain ANSI escape
// sequences. Escapes never reach the HTML converter: every segment between
// them is converted on its own and the escapes are spliced back verbatim
// before the result is wrapped.
func renderColorful(src string, width int) string {
	var sb strings.Builder
	last := 0
	for _, loc := range reEscape.FindAllStringIndex(src, -1) {
		sb.WriteString(convertSegment(src[last:loc[0]]))
		sb.WriteString(src[loc[0]:loc[1]])
		last = loc[1]
	}
	sb.WriteString(convertSegment(src[last:]))
	return wrap.String(sb.String(), width)
}

// convertSegment renders a fragment as preformatted text, as if it were the
// content of a <pre> element.
func convertSegment(fragment string) string {
	if fragment == "" {
		return ""
	}
	ctx := &html.Node{Type: html.ElementNode, Data: "pre", DataAtom: atom.Pre}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), ctx)
	if err != nil {
		return fragment
	}
	w := &textWriter{pre: 1}
	for _, n := range nodes {
		walkText(n, w)
	}
	return string(w.buf)
}

// renderText converts an HTML fragment to wrapped plain text. Flowing text
// is word wrapped; preformatted text is only hard wrapped.
func renderText(src string, width int) string {
	var sb strings.Builder
	for _, seg := range htmlToText(src) {
		if seg.pre {
			sb.WriteString(wrap.String(seg.text, width))
			continue
		}
		sb.WriteString(wrap.String(wordwrap.String(seg.text, width), width))
	}
	return strings.Trim(sb.String(), "\n")
}

// renderMarkup renders an HTML fragment as styled markdown.
func renderMarkup(src string, width int, p palette) (string, error) {
	style := glamour.WithStandardStyle("notty")
	if p.enabled {
		style = glamour.WithStandardStyle("dark")
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return "", errors.Wrap(err, "create markdown renderer")
	}
	out, err := r.Render(htmlToMarkdown(src))
	if err != nil {
		return "", errors.Wrap(err, "render markdown")
	}
	return out, nil
}

// textWriter accumulates rendered text and tracks trailing newlines so that
// block elements can request separation without stacking blank lines.
type textWriter struct {
	buf      []byte
	pre      int
	newlines int
	preStart int
	preSpans [][2]int
}

func (w *textWriter) write(s string) {
	if s == "" {
		return
	}
	w.buf = append(w.buf, s...)
	trimmed := strings.TrimRight(s, "\n")
	if trimmed == "" {
		w.newlines += len(s)
	} else {
		w.newlines = len(s) - len(trimmed)
	}
}

func (w *textWriter) trimSpaces() {
	for len(w.buf) > 0 && w.buf[len(w.buf)-1] == ' ' {
		w.buf = w.buf[:len(w.buf)-1]
	}
}

// breakLines ends the current line and ensures n line breaks in a row,
// except at the very start of the output.
func (w *textWriter) breakLines(n int) {
	if w.pre > 0 || len(w.buf) == 0 {
		return
	}
	w.trimSpaces()
	for w.newlines < n {
		w.write("\n")
	}
}

func (w *textWriter) atLineStart() bool {
	return len(w.buf) == 0 || w.buf[len(w.buf)-1] == '\n'
}

func (w *textWriter) text(s string) {
	if w.pre > 0 {
		w.write(s)
		return
	}

	words := strings.Fields(s)
	leading := s != "" && isSpace(s[0])
	trailing := s != "" && isSpace(s[len(s)-1])
	if leading && !w.atLineStart() && w.buf[len(w.buf)-1] != ' ' {
		w.write(" ")
	}
	if len(words) == 0 {
		return
	}
	w.write(strings.Join(words, " "))
	if trailing {
		w.write(" ")
	}
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\n' || b == '\t' || b == '\r' || b == '\f'
}

// Elements separated from their neighbours by a blank line or a line break.
var (
	paragraphElements = map[string]bool{
		"p": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
		"article": true, "blockquote": true, "ul": true, "ol": true, "table": true,
	}
	lineElements = map[string]bool{
		"div": true, "li": true, "tr": true, "main": true, "section": true, "form": true,
	}
	skippedElements = map[string]bool{
		"script": true, "style": true, "head": true, "title": true, "noscript": true,
	}
)

// textSegment is a run of converted text. Preformatted runs keep their
// whitespace and must not be reflowed.
type textSegment struct {
	text string
	pre  bool
}

// htmlToText renders HTML as undecorated text: no emphasis markers and no
// link targets. Preformatted content is emitted verbatim in its own segments.
func htmlToText(src string) []textSegment {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return []textSegment{{text: src}}
	}
	w := &textWriter{}
	walkText(doc, w)

	var segs []textSegment
	last := 0
	for _, span := range w.preSpans {
		if span[0] > last {
			segs = append(segs, textSegment{text: string(w.buf[last:span[0]])})
		}
		if span[1] > span[0] {
			segs = append(segs, textSegment{text: string(w.buf[span[0]:span[1]]), pre: true})
		}
		last = span[1]
	}
	if last < len(w.buf) {
		segs = append(segs, textSegment{text: string(w.buf[last:])})
	}
	return segs
}

func walkText(n *html.Node, w *textWriter) {
	switch n.Type {
	case html.TextNode:
		w.text(n.Data)
		return
	case html.ElementNode:
		if skippedElements[n.Data] {
			return
		}
	}

	tag := ""
	if n.Type == html.ElementNode {
		tag = n.Data
	}

	switch {
	case tag == "br":
		if w.pre == 0 {
			w.trimSpaces()
		}
		w.write("\n")
		return
	case tag == "pre":
		w.breakLines(2)
		if w.pre == 0 {
			w.preStart = len(w.buf)
		}
		w.pre++
	case paragraphElements[tag]:
		w.breakLines(2)
	case lineElements[tag]:
		w.breakLines(1)
	}
	if tag == "li" && w.pre == 0 {
		w.write("* ")
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkText(c, w)
	}

	switch {
	case tag == "pre":
		w.pre--
		if w.pre == 0 {
			w.preSpans = append(w.preSpans, [2]int{w.preStart, len(w.buf)})
			w.write("\n")
		}
	case paragraphElements[tag]:
		w.breakLines(2)
	case lineElements[tag]:
		w.breakLines(1)
	}
}

// htmlToMarkdown converts a puzzle description to markdown.
func htmlToMarkdown(src string) string {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return src
	}
	var sb strings.Builder
	walkMarkdown(doc, &sb, 0)
	return reBlankRuns.ReplaceAllString(strings.TrimSpace(sb.String()), "\n\n") + "\n"
}

var reBlankRuns = regexp.MustCompile(`\n{3,}`)

// markdownEscaper escapes characters that would otherwise start emphasis,
// links, code spans or inline HTML in prose.
var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	`*`, `\*`,
	`_`, `\_`,
	`[`, `\[`,
	`]`, `\]`,
	`<`, `\<`,
)

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func walkMarkdown(n *html.Node, sb *strings.Builder, code int) {
	if n.Type == html.TextNode {
		if code > 0 {
			sb.WriteString(n.Data)
			return
		}
		if n.Data == "" {
			return
		}
		prev := sb.String()
		if isSpace(n.Data[0]) && prev != "" && !isSpace(prev[len(prev)-1]) {
			sb.WriteString(" ")
		}
		words := strings.Fields(n.Data)
		if len(words) > 0 {
			sb.WriteString(markdownEscaper.Replace(strings.Join(words, " ")))
			if isSpace(n.Data[len(n.Data)-1]) {
				sb.WriteString(" ")
			}
		}
		return
	}
	if n.Type == html.ElementNode && skippedElements[n.Data] {
		return
	}

	children := func(code int) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walkMarkdown(c, sb, code)
		}
	}

	if n.Type != html.ElementNode {
		children(code)
		return
	}

	switch n.Data {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		sb.WriteString("\n\n" + strings.Repeat("#", int(n.Data[1]-'0')) + " ")
		children(code)
		sb.WriteString("\n\n")
	case "p", "article", "div":
		sb.WriteString("\n\n")
		children(code)
		sb.WriteString("\n\n")
	case "br":
		sb.WriteString("  \n")
	case "ul", "ol":
		sb.WriteString("\n")
		children(code)
		sb.WriteString("\n")
	case "li":
		sb.WriteString("\n- ")
		children(code)
	case "pre":
		sb.WriteString("\n\n```\n")
		var inner strings.Builder
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walkMarkdown(c, &inner, code+1)
		}
		sb.WriteString(strings.TrimRight(inner.String(), "\n"))
		sb.WriteString("\n```\n\n")
	case "code":
		if code > 0 {
			children(code)
			return
		}
		sb.WriteString("`")
		children(code + 1)
		sb.WriteString("`")
	case "em", "i":
		if code > 0 {
			children(code)
			return
		}
		sb.WriteString("*")
		children(code)
		sb.WriteString("*")
	case "strong", "b":
		if code > 0 {
			children(code)
			return
		}
		sb.WriteString("**")
		children(code)
		sb.WriteString("**")
	case "a":
		href := attr(n, "href")
		if href == "" || code > 0 {
			children(code)
			return
		}
		sb.WriteString("[")
		children(code)
		sb.WriteString("](" + href + ")")
	default:
		children(code)
	}
}
