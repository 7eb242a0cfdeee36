package pkguid

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"github.com/bwmarrin/snowflake"
)

// snowflakeEpoch is Thu Jan 01 2026 00:00:00 UTC.
const snowflakeEpoch = 1767225600000

const maxNodeID = 1<<10 - 1

// Snowflake generates time-ordered numeric IDs.
type Snowflake struct {
	node *snowflake.Node
}

func randomNodeID() (int64, error) {
	var nodeID int64
	if err := binary.Read(rand.Reader, binary.BigEndian, &nodeID); err != nil {
		return 0, err
	}

	return nodeID & maxNodeID, nil
}

// NewSnowflake constructs a Snowflake generator for the given node. A negative
// node picks a random one, which is fine for a single replica.
func NewSnowflake(node int64) (*Snowflake, error) {
	if node < 0 {
		id, err := randomNodeID()
		if err != nil {
			return nil, err
		}
		node = id
	}
	if node > maxNodeID {
		return nil, fmt.Errorf("snowflake node %d out of range 0..%d", node, maxNodeID)
	}

	snowflake.Epoch = snowflakeEpoch

	n, err := snowflake.NewNode(node)
	if err != nil {
		return nil, err
	}

	return &Snowflake{node: n}, nil
}

// Generate returns a new unique numeric ID.
func (s *Snowflake) Generate() int64 {
	return s.node.Generate().Int64()
}
