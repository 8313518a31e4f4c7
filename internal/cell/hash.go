package cell

import (
	"encoding/binary"

	"golang.org/x/crypto/blake2b"
)

// Hasher digests byte strings. Implementations must be deterministic.
type Hasher interface {
	Sum(parts ...[]byte) Hash
}

// Blake2b256 is the default Hasher.
type Blake2b256 struct{}

// Sum digests the concatenation of parts.
func (Blake2b256) Sum(parts ...[]byte) Hash {
	h, err := blake2b.New256(nil)
	if err != nil {
		// New256 only fails for keys longer than 64 bytes.
		panic(err)
	}
	for _, p := range parts {
		_, _ = h.Write(p)
	}

	var out Hash
	copy(out[:], h.Sum(nil))
	return out
}

// ScriptHash digests a script as code hash, hash type and args.
func ScriptHash(h Hasher, s Script) Hash {
	return h.Sum(s.CodeHash[:], []byte{s.HashType}, s.Args)
}

// TypeHash returns the hash of the record's type script and whether it has one.
func TypeHash(h Hasher, r Record) (Hash, bool) {
	if r.Type == nil {
		return Hash{}, false
	}
	return ScriptHash(h, *r.Type), true
}

// TypeID derives the one-time pool identifier from the first consumed outpoint
// and the position of the produced record.
func TypeID(h Hasher, first OutPoint, outputIndex uint64) Hash {
	var idx [4]byte
	binary.LittleEndian.PutUint32(idx[:], first.Index)

	var pos [8]byte
	binary.LittleEndian.PutUint64(pos[:], outputIndex)

	return h.Sum(first.TxHash[:], idx[:], pos[:])
}

// InfoLockFrontHalf is the first half of the info lock args for a reserve type.
func InfoLockFrontHalf(h Hasher, reserveTypeHash Hash) Hash {
	return h.Sum([]byte("ckb"), reserveTypeHash[:])
}
