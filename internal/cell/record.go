// Package cell models ledger records and decodes their fixed-width payloads.
package cell

import "bytes"

// HashLen is the width of every hash carried by records.
const HashLen = 32

// Hash is a 32-byte digest.
type Hash [HashLen]byte

// Prefix20 returns the first 20 bytes of the hash, the width the snapshot
// uses to name the liquidity token class.
func (h Hash) Prefix20() [20]byte {
	var p [20]byte
	copy(p[:], h[:20])
	return p
}

// Script is an ownership or asset-class predicate reference.
type Script struct {
	CodeHash Hash
	HashType uint8
	Args     []byte
}

// Equal reports whether two scripts are identical.
func (s Script) Equal(o Script) bool {
	return s.CodeHash == o.CodeHash && s.HashType == o.HashType && bytes.Equal(s.Args, o.Args)
}

// OutPoint identifies the transaction output a consumed record came from.
type OutPoint struct {
	TxHash Hash
	Index  uint32
}

// Record is one consumed or produced ledger entry.
type Record struct {
	OutPoint OutPoint
	Capacity uint64
	Data     []byte
	Lock     Script
	Type     *Script
}

// HasCodeHash reports whether the record's type script runs the given code.
func (r Record) HasCodeHash(codeHash Hash) bool {
	return r.Type != nil && r.Type.CodeHash == codeHash
}

// Transaction is the unit the validator judges.
type Transaction struct {
	Inputs    []Record
	Outputs   []Record
	Witnesses [][]byte
}
