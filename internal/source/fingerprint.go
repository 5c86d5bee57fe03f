package source

import (
	"fmt"

	"github.com/minio/highwayhash"
)

// fingerprintKey is the fixed HighwayHash key. Changing it invalidates every
// persisted fingerprint, so it must stay constant across releases.
var fingerprintKey = []byte{
	0x6c, 0x6f, 0x67, 0x72, 0x65, 0x66, 0x2d, 0x66,
	0x69, 0x6e, 0x67, 0x65, 0x72, 0x70, 0x72, 0x69,
	0x6e, 0x74, 0x2d, 0x6b, 0x65, 0x79, 0x2d, 0x76,
	0x31, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
}

// Fingerprint identifies file content for cache validation: a 64-bit
// content hash plus the byte length.
type Fingerprint struct {
	Hash uint64 `msgpack:"h"`
	Size int64  `msgpack:"s"`
}

func (f Fingerprint) String() string {
	return fmt.Sprintf("%016x/%d", f.Hash, f.Size)
}

// Fingerprinted computes the fingerprint of content.
func Fingerprinted(content []byte) Fingerprint {
	return Fingerprint{
		Hash: Hash64(content),
		Size: int64(len(content)),
	}
}

// Hash64 hashes the concatenation of parts with HighwayHash-64.
func Hash64(parts ...[]byte) uint64 {
	h, err := highwayhash.New64(fingerprintKey)
	if err != nil {
		// only fails on a key that is not 32 bytes long
		panic(fmt.Errorf("highwayhash: %w", err))
	}
	for _, p := range parts {
		// hash.Hash never returns an error from Write
		_, _ = h.Write(p)
	}
	return h.Sum64()
}
