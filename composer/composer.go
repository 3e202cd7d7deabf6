// Package composer assembles a blog post body from an ordered list of text
// and image blocks and stores it as a versioned JSON document.
package composer

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// BlockType is the kind of a block.
type BlockType string

const (
	Text  BlockType = "text"
	Image BlockType = "image"
)

func (t BlockType) Valid() bool { return t == Text || t == Image }

// Block is one unit of a post body. For image blocks Content is the public URL.
// ID lives only for the editing session and is not persisted.
type Block struct {
	ID      string    `json:"id,omitempty"`
	Type    BlockType `json:"type"`
	Content string    `json:"content"`
}

var (
	// ErrLastBlock is returned when deleting the only remaining block.
	ErrLastBlock = errors.New("composer: a post needs at least one block")
	// ErrNoBlock is returned for an id that is not in the composer.
	ErrNoBlock = errors.New("composer: no such block")
	// ErrBlockType is returned for a type other than text or image.
	ErrBlockType = errors.New("composer: unknown block type")
)

// Composer holds the ordered blocks of one post body. It always has at least
// one block and is safe for concurrent use.
type Composer struct {
	mu     sync.RWMutex
	blocks []Block
}

// New returns a composer with a single empty text block.
func New() *Composer {
	return &Composer{blocks: []Block{newBlock(Text, "")}}
}

// FromBlocks returns a composer holding blocks in order. Missing ids are
// assigned; an empty list yields a single empty text block.
func FromBlocks(blocks []Block) (*Composer, error) {
	out := make([]Block, 0, len(blocks))
	for _, b := range blocks {
		if !b.Type.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrBlockType, b.Type)
		}
		if b.ID == "" {
			b.ID = uuid.NewString()
		}
		out = append(out, b)
	}
	if len(out) == 0 {
		out = append(out, newBlock(Text, ""))
	}
	return &Composer{blocks: out}, nil
}

func newBlock(t BlockType, content string) Block {
	return Block{ID: uuid.NewString(), Type: t, Content: content}
}

// Blocks returns a copy of the blocks in order.
func (c *Composer) Blocks() []Block {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.blocks)
}

func (c *Composer) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.blocks)
}

// AddBlock appends an empty block of type t.
func (c *Composer) AddBlock(t BlockType) (Block, error) {
	if !t.Valid() {
		return Block{}, fmt.Errorf("%w: %q", ErrBlockType, t)
	}
	b := newBlock(t, "")
	c.mu.Lock()
	c.blocks = append(c.blocks, b)
	c.mu.Unlock()
	return b, nil
}

func (c *Composer) index(id string) int {
	return slices.IndexFunc(c.blocks, func(b Block) bool { return b.ID == id })
}

// MoveUp swaps the block with its predecessor. The first block stays put.
func (c *Composer) MoveUp(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.index(id)
	if i < 0 {
		return ErrNoBlock
	}
	if i > 0 {
		c.blocks[i-1], c.blocks[i] = c.blocks[i], c.blocks[i-1]
	}
	return nil
}

// MoveDown swaps the block with its successor. The last block stays put.
func (c *Composer) MoveDown(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.index(id)
	if i < 0 {
		return ErrNoBlock
	}
	if i < len(c.blocks)-1 {
		c.blocks[i], c.blocks[i+1] = c.blocks[i+1], c.blocks[i]
	}
	return nil
}

// DeleteBlock removes the block unless it is the only one left.
func (c *Composer) DeleteBlock(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.index(id)
	if i < 0 {
		return ErrNoBlock
	}
	if len(c.blocks) == 1 {
		return ErrLastBlock
	}
	c.blocks = slices.Delete(c.blocks, i, i+1)
	return nil
}

// UpdateBlockContent replaces the content of a block in place.
func (c *Composer) UpdateBlockContent(id, content string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.index(id)
	if i < 0 {
		return ErrNoBlock
	}
	c.blocks[i].Content = content
	return nil
}

func (c *Composer) block(id string) (Block, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i := c.index(id)
	if i < 0 {
		return Block{}, false
	}
	return c.blocks[i], true
}
