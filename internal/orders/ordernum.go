package orders

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
)

// NumberGenerator produces unique human-readable order numbers of the form
// ORD-<yyyymmdd>-<sequence>. The sequence component comes from a snowflake
// node, so numbers are unique under concurrent creation without consulting
// the order count; the storage layer still carries a unique index as the
// final authority.
type NumberGenerator struct {
	node *snowflake.Node
}

// NewNumberGenerator creates a generator for the given node id (0-1023)
func NewNumberGenerator(nodeID int64) (*NumberGenerator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, err
	}
	return &NumberGenerator{node: node}, nil
}

// Next returns the next order number. The Base36 suffix is uppercased so the
// whole number reads as one uppercase token on invoices and in the UI.
func (g *NumberGenerator) Next() string {
	seq := strings.ToUpper(g.node.Generate().Base36())
	return fmt.Sprintf("ORD-%s-%s", time.Now().Format("20060102"), seq)
}
