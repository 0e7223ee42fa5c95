package domain

// NodeKind identifies a rich-text node type.
type NodeKind string

// Rich-text node kinds.
const (
	NodeDocument       NodeKind = "document"
	NodeParagraph      NodeKind = "paragraph"
	NodeHeading        NodeKind = "heading"
	NodeBlockquote     NodeKind = "blockquote"
	NodeUnorderedList  NodeKind = "unordered-list"
	NodeOrderedList    NodeKind = "ordered-list"
	NodeListItem       NodeKind = "list-item"
	NodeHorizontalRule NodeKind = "horizontal-rule"
	NodeText           NodeKind = "text"
	NodeHyperlink      NodeKind = "hyperlink"
)

// Mark is an inline text decoration.
type Mark string

const (
	// MarkBold marks bold text.
	MarkBold Mark = "bold"

	// MarkItalic marks italic text.
	MarkItalic Mark = "italic"
)

// RichTextNode is one node of a rich-text tree. Which fields are meaningful
// depends on Kind: text nodes carry Value and Marks, hyperlinks carry URL
// and children, headings carry Level, and container blocks carry Content.
type RichTextNode struct {
	Kind NodeKind `json:"kind"`

	// Level is the heading level (1-6) when Kind is NodeHeading.
	Level int `json:"level,omitempty"`

	// Value is the text content when Kind is NodeText.
	Value string `json:"value"`

	// Marks decorates text nodes (bold, italic).
	Marks []Mark `json:"marks,omitempty"`

	// URL is the link target when Kind is NodeHyperlink.
	URL string `json:"url,omitempty"`

	// Content holds the ordered child nodes of container kinds.
	Content []RichTextNode `json:"content,omitempty"`
}

// RichTextDocument is the root of a rich-text tree: an ordered sequence of
// block nodes. Every container, the document included, has at least one
// child so downstream renderers never see an empty container.
type RichTextDocument struct {
	Kind    NodeKind       `json:"kind"`
	Content []RichTextNode `json:"content"`
}
