package composer

import (
	"context"
	"fmt"
	"html"
	"io"
	"regexp"
	"strings"

	"github.com/a-h/templ"
)

// Render returns a component writing the post body. Text blocks hold editor
// HTML and pass through unchanged; plain text is wrapped in paragraphs.
// Image blocks become figures. Empty blocks are skipped.
func Render(blocks []Block) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		for _, bl := range blocks {
			content := strings.TrimSpace(bl.Content)
			if content == "" {
				continue
			}
			switch bl.Type {
			case Image:
				fmt.Fprintf(&b, `<figure class="post-image"><img src="%s" alt="" loading="lazy"/></figure>`,
					html.EscapeString(content))
			default:
				if strings.HasPrefix(content, "<") {
					b.WriteString(content)
				} else {
					for _, para := range reBlankLines.Split(content, -1) {
						b.WriteString("<p>")
						b.WriteString(strings.ReplaceAll(html.EscapeString(strings.TrimSpace(para)), "\n", "<br/>"))
						b.WriteString("</p>")
					}
				}
			}
			b.WriteByte('\n')
		}
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// RenderContent renders stored content in either format.
func RenderContent(s string) templ.Component {
	blocks, err := Deserialize(s)
	if err != nil {
		return templ.Raw(html.EscapeString(s))
	}
	return Render(blocks)
}

var reTags = regexp.MustCompile(`<[^>]*>`)

// PlainText returns the words of all text blocks with markup removed.
func PlainText(blocks []Block) string {
	var parts []string
	for _, b := range blocks {
		if b.Type != Text {
			continue
		}
		txt := html.UnescapeString(reTags.ReplaceAllString(b.Content, " "))
		if f := strings.Fields(txt); len(f) > 0 {
			parts = append(parts, strings.Join(f, " "))
		}
	}
	return strings.Join(parts, " ")
}

// WordsPerMinute is the reading speed used by ReadingTime.
const WordsPerMinute = 200

// ReadingTime estimates the reading time of stored content as "N min read",
// rounding up, with a minimum of one minute.
func ReadingTime(s string) string {
	blocks, err := Deserialize(s)
	if err != nil {
		return "1 min read"
	}
	words := len(strings.Fields(PlainText(blocks)))
	mins := (words + WordsPerMinute - 1) / WordsPerMinute
	if mins < 1 {
		mins = 1
	}
	return fmt.Sprintf("%d min read", mins)
}
