package composer

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Version is written into every serialized document.
const Version = 1

type document struct {
	Version int     `json:"version"`
	Blocks  []block `json:"blocks"`
}

type block struct {
	Type    BlockType `json:"type"`
	Content string    `json:"content"`
}

// Serialize encodes the blocks as {"version":1,"blocks":[...]}. Block ids are
// not part of the document.
func (c *Composer) Serialize() (string, error) {
	return Serialize(c.Blocks())
}

// Serialize encodes blocks without ids.
func Serialize(blocks []Block) (string, error) {
	doc := document{Version: Version, Blocks: make([]block, len(blocks))}
	for i, b := range blocks {
		doc.Blocks[i] = block{Type: b.Type, Content: b.Content}
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("composer: serialize: %w", err)
	}
	return string(out), nil
}

// Deserialize returns the blocks stored in s with fresh ids. Documents
// written by Serialize round-trip exactly. Anything else is read as legacy
// content: "![alt](url)" markers become image blocks and the remaining text
// is split on blank lines into text blocks. Empty input yields one empty
// text block.
func Deserialize(s string) ([]Block, error) {
	if doc, ok := decodeDocument(s); ok {
		c, err := FromBlocks(toBlocks(doc.Blocks))
		if err != nil {
			return nil, err
		}
		return c.blocks, nil
	}
	blocks := parseLegacy(s)
	if len(blocks) == 0 {
		blocks = []Block{newBlock(Text, "")}
	}
	return blocks, nil
}

// Load returns a composer for previously stored content.
func Load(s string) (*Composer, error) {
	blocks, err := Deserialize(s)
	if err != nil {
		return nil, err
	}
	return &Composer{blocks: blocks}, nil
}

func decodeDocument(s string) (document, bool) {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "{") {
		return document{}, false
	}
	var doc document
	if err := json.Unmarshal([]byte(trimmed), &doc); err != nil || doc.Version < 1 || doc.Blocks == nil {
		return document{}, false
	}
	return doc, true
}

func toBlocks(in []block) []Block {
	out := make([]Block, len(in))
	for i, b := range in {
		out[i] = Block{Type: b.Type, Content: b.Content}
	}
	return out
}

var (
	reImageMarker = regexp.MustCompile(`!\[[^\]]*\]\(([^)\s]+)\)`)
	reBlankLines  = regexp.MustCompile(`\n\s*\n`)
)

func parseLegacy(s string) []Block {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	var blocks []Block
	addText := func(seg string) {
		for _, part := range reBlankLines.Split(seg, -1) {
			if part = strings.TrimSpace(part); part != "" {
				blocks = append(blocks, newBlock(Text, part))
			}
		}
	}
	last := 0
	for _, m := range reImageMarker.FindAllStringSubmatchIndex(s, -1) {
		addText(s[last:m[0]])
		blocks = append(blocks, newBlock(Image, s[m[2]:m[3]]))
		last = m[1]
	}
	addText(s[last:])
	return blocks
}
