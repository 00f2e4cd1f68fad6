package store

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strings"
	"sync/atomic"
)

// newRandomID returns prefix-<suffix> where suffix is 8 chars of base32
// (lowercase, no padding). 8 chars base32 ~= 40 bits of space, plenty for a
// few thousand nodes per workspace.
func newRandomID(prefix string) (string, error) {
	var b [5]byte // 40 bits -> 8 base32 chars
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	enc := base32.StdEncoding.WithPadding(base32.NoPadding)
	suffix := strings.ToLower(enc.EncodeToString(b[:]))
	return prefix + "-" + suffix, nil
}

// NewNodeID generates a fresh node id.
func NewNodeID() (string, error) {
	return newRandomID("node")
}

var idFallback atomic.Uint64

// IDGenerator adapts NewNodeID to the plain func() string collaborator the
// converter and the editor take. Ids stay unique even if the random source
// fails (a counter takes over).
func IDGenerator() func() string {
	return func() string {
		id, err := NewNodeID()
		if err != nil {
			return fmt.Sprintf("node-f%d", idFallback.Add(1))
		}
		return id
	}
}
