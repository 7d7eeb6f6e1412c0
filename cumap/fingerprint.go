package cumap

import (
	"crypto/sha256"
	"encoding/binary"
)

// GetID returns a deterministic fingerprint of the current layout: the
// SHA-256 digest of the sequence of CU sizes walked in address order
// (spec §4.2). The optimizer's convergence loop uses this to detect a
// revisited layout (spec §4.6, §9 "ring buffer of recent fingerprints").
func (m *CUMap) GetID() [32]byte {
	h := sha256.New()
	var buf [8]byte
	var i int
	for i < len(m.funcToCU) {
		_, end := m.runBounds(i)
		binary.BigEndian.PutUint64(buf[:], uint64(end-i))
		h.Write(buf[:])
		i = end
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
