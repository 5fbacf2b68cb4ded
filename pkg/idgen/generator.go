package idgen

import (
	"fmt"
	"sync"

	"github.com/bwmarrin/snowflake"
)

// Generator hands out unique opaque tokens for flights and suggested filters.
type Generator interface {
	NewID(prefix string) string
}

// SnowflakeGenerator implements Generator using Twitter Snowflake ids.
type SnowflakeGenerator struct {
	node *snowflake.Node
	mu   sync.Mutex
}

// NewSnowflakeGenerator initializes a new ID generator.
// nodeID must be unique per server instance (0-1023) to prevent collisions.
func NewSnowflakeGenerator(nodeID int64) (*SnowflakeGenerator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to create snowflake node: %w", err)
	}

	return &SnowflakeGenerator{
		node: node,
	}, nil
}

// NewID returns prefix followed by a base58 snowflake, e.g. "flt_3xk9...".
func (g *SnowflakeGenerator) NewID(prefix string) string {
	g.mu.Lock()
	id := g.node.Generate()
	g.mu.Unlock()

	if prefix == "" {
		return id.Base58()
	}
	return prefix + "_" + id.Base58()
}
