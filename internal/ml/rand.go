package ml

import (
	"encoding/binary"

	"lukechampine.com/frand"
)

// NewRand returns a deterministic generator: equal seeds give equal streams.
func NewRand(seed int64) *frand.RNG {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:], uint64(seed))
	return frand.NewCustom(key[:], 1024, 12)
}
