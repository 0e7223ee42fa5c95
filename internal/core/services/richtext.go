package services

import (
	"regexp"
	"strings"

	"github.com/custodia-labs/tablecast-cli/internal/core/domain"
	"github.com/custodia-labs/tablecast-cli/internal/core/ports/driving"
)

// Ensure RichTextCompiler implements the interface.
var _ driving.RichTextService = (*RichTextCompiler)(nil)

// Block-level line patterns. Lines are matched after trimming surrounding
// whitespace; the horizontal rule must be checked before the unordered
// list marker since both start with "-".
var (
	hrPattern       = regexp.MustCompile(`^-{3,}$`)
	headingPattern  = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	bulletPattern   = regexp.MustCompile(`^[-*]\s+(.*)$`)
	numberedPattern = regexp.MustCompile(`^\d+\.\s+(.*)$`)
)

// inlinePattern is the combined alternation for inline spans. Alternation
// order gives bold priority over italic at the same position; otherwise
// whichever pattern opens first in the string wins.
var inlinePattern = regexp.MustCompile(`\*\*(.+?)\*\*|\*([^*]+)\*|\[([^\]]+)\]\(([^)]+)\)`)

// RichTextCompiler converts lightweight markup into a structured rich-text
// document in a single left-to-right, line-oriented pass. Consecutive list
// lines of the same flavour are grouped into one list block.
type RichTextCompiler struct{}

// NewRichTextCompiler creates a new rich-text compiler.
func NewRichTextCompiler() *RichTextCompiler {
	return &RichTextCompiler{}
}

// Compile parses markup into a rich-text document. Any input compiles:
// empty or whitespace-only markup yields one paragraph holding one empty
// text node, never zero nodes, so consumers can render without nil checks.
func (c *RichTextCompiler) Compile(markup string) domain.RichTextDocument {
	lines := strings.Split(markup, "\n")
	blocks := []domain.RichTextNode{}

	for i := 0; i < len(lines); {
		line := strings.TrimSpace(lines[i])

		switch {
		case line == "":
			// Blank lines separate blocks and emit nothing.
			i++

		case hrPattern.MatchString(line):
			blocks = append(blocks, domain.RichTextNode{Kind: domain.NodeHorizontalRule})
			i++

		case headingPattern.MatchString(line):
			m := headingPattern.FindStringSubmatch(line)
			blocks = append(blocks, domain.RichTextNode{
				Kind:    domain.NodeHeading,
				Level:   len(m[1]),
				Content: inlineNodes(m[2]),
			})
			i++

		case strings.HasPrefix(line, "> "):
			// Blockquotes are single-line: one quote block holding one
			// paragraph with the rest of the line.
			blocks = append(blocks, domain.RichTextNode{
				Kind:    domain.NodeBlockquote,
				Content: []domain.RichTextNode{paragraph(strings.TrimPrefix(line, "> "))},
			})
			i++

		case bulletPattern.MatchString(line):
			var items []domain.RichTextNode
			for i < len(lines) {
				m := bulletPattern.FindStringSubmatch(strings.TrimSpace(lines[i]))
				if m == nil {
					break
				}
				items = append(items, listItem(m[1]))
				i++
			}
			blocks = append(blocks, domain.RichTextNode{
				Kind:    domain.NodeUnorderedList,
				Content: items,
			})

		case numberedPattern.MatchString(line):
			var items []domain.RichTextNode
			for i < len(lines) {
				m := numberedPattern.FindStringSubmatch(strings.TrimSpace(lines[i]))
				if m == nil {
					break
				}
				items = append(items, listItem(m[1]))
				i++
			}
			blocks = append(blocks, domain.RichTextNode{
				Kind:    domain.NodeOrderedList,
				Content: items,
			})

		default:
			blocks = append(blocks, paragraph(line))
			i++
		}
	}

	if len(blocks) == 0 {
		blocks = append(blocks, paragraph(""))
	}

	return domain.RichTextDocument{Kind: domain.NodeDocument, Content: blocks}
}

func paragraph(text string) domain.RichTextNode {
	return domain.RichTextNode{Kind: domain.NodeParagraph, Content: inlineNodes(text)}
}

func listItem(text string) domain.RichTextNode {
	return domain.RichTextNode{Kind: domain.NodeListItem, Content: []domain.RichTextNode{paragraph(text)}}
}

// inlineNodes scans text left to right for bold, italic and hyperlink
// spans, emitting plain text between matches. It always returns at least
// one node: empty text yields a single empty text node.
func inlineNodes(text string) []domain.RichTextNode {
	nodes := []domain.RichTextNode{}
	rest := text

	for {
		loc := inlinePattern.FindStringSubmatchIndex(rest)
		if loc == nil {
			break
		}
		if loc[0] > 0 {
			nodes = append(nodes, textNode(rest[:loc[0]], nil))
		}

		switch {
		case loc[2] >= 0: // **bold**
			nodes = append(nodes, textNode(rest[loc[2]:loc[3]], []domain.Mark{domain.MarkBold}))
		case loc[4] >= 0: // *italic*
			nodes = append(nodes, textNode(rest[loc[4]:loc[5]], []domain.Mark{domain.MarkItalic}))
		default: // [text](url)
			nodes = append(nodes, domain.RichTextNode{
				Kind:    domain.NodeHyperlink,
				URL:     rest[loc[8]:loc[9]],
				Content: []domain.RichTextNode{textNode(rest[loc[6]:loc[7]], nil)},
			})
		}

		rest = rest[loc[1]:]
	}

	if rest != "" || len(nodes) == 0 {
		nodes = append(nodes, textNode(rest, nil))
	}
	return nodes
}

func textNode(value string, marks []domain.Mark) domain.RichTextNode {
	return domain.RichTextNode{Kind: domain.NodeText, Value: value, Marks: marks}
}
