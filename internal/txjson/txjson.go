// Package txjson is the JSON wire form of a transaction: hashes, byte strings
// and amounts are 0x-prefixed hex.
package txjson

import (
	"encoding/json"
	"io"
	"math"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"

	"github.com/fleshka4/amm-validator/internal/cell"
)

// Script is a lock or type script.
type Script struct {
	CodeHash common.Hash   `json:"code_hash"`
	HashType uint8         `json:"hash_type"`
	Args     hexutil.Bytes `json:"args"`
}

// OutPoint names a consumed record.
type OutPoint struct {
	TxHash common.Hash    `json:"tx_hash"`
	Index  hexutil.Uint64 `json:"index"`
}

// Record is a single input or output.
type Record struct {
	OutPoint *OutPoint      `json:"out_point,omitempty"`
	Capacity hexutil.Uint64 `json:"capacity"`
	Data     hexutil.Bytes  `json:"data"`
	Lock     Script         `json:"lock"`
	Type     *Script        `json:"type,omitempty"`
}

// Transaction is the full validation input.
type Transaction struct {
	Inputs    []Record        `json:"inputs"`
	Outputs   []Record        `json:"outputs"`
	Witnesses []hexutil.Bytes `json:"witnesses"`
}

// Decode reads one transaction from r. Unknown fields and anything after the
// transaction object are rejected.
func Decode(r io.Reader) (cell.Transaction, error) {
	var tx Transaction
	if err := DecodeStrict(r, &tx); err != nil {
		return cell.Transaction{}, err
	}
	return tx.ToTransaction()
}

// DecodeStrict decodes exactly one JSON value from r into v.
func DecodeStrict(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(err, "dec.Decode")
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err != nil {
			return errors.Wrap(err, "trailing data")
		}
		return errors.New("trailing data after the JSON value")
	}
	return nil
}

// ToTransaction converts the wire form into records.
func (t Transaction) ToTransaction() (cell.Transaction, error) {
	var (
		out cell.Transaction
		err error
	)

	if out.Inputs, err = toRecords(t.Inputs); err != nil {
		return cell.Transaction{}, errors.Wrap(err, "inputs")
	}
	if out.Outputs, err = toRecords(t.Outputs); err != nil {
		return cell.Transaction{}, errors.Wrap(err, "outputs")
	}

	if len(t.Witnesses) > 0 {
		out.Witnesses = make([][]byte, len(t.Witnesses))
		for i, w := range t.Witnesses {
			out.Witnesses[i] = w
		}
	}
	return out, nil
}

func toRecords(in []Record) ([]cell.Record, error) {
	if len(in) == 0 {
		return nil, nil
	}

	out := make([]cell.Record, len(in))
	for i, r := range in {
		rec := cell.Record{
			Capacity: uint64(r.Capacity),
			Data:     r.Data,
			Lock:     r.Lock.toScript(),
		}
		if r.OutPoint != nil {
			if r.OutPoint.Index > math.MaxUint32 {
				return nil, errors.Errorf("record %d: out point index %d out of range", i, r.OutPoint.Index)
			}
			rec.OutPoint = cell.OutPoint{
				TxHash: cell.Hash(r.OutPoint.TxHash),
				Index:  uint32(r.OutPoint.Index),
			}
		}
		if r.Type != nil {
			typ := r.Type.toScript()
			rec.Type = &typ
		}
		out[i] = rec
	}
	return out, nil
}

func (s Script) toScript() cell.Script {
	return cell.Script{
		CodeHash: cell.Hash(s.CodeHash),
		HashType: s.HashType,
		Args:     s.Args,
	}
}

// FromTransaction converts records into the wire form.
func FromTransaction(tx cell.Transaction) Transaction {
	out := Transaction{
		Inputs:    fromRecords(tx.Inputs),
		Outputs:   fromRecords(tx.Outputs),
		Witnesses: make([]hexutil.Bytes, len(tx.Witnesses)),
	}
	for i, w := range tx.Witnesses {
		out.Witnesses[i] = w
	}
	return out
}

func fromRecords(in []cell.Record) []Record {
	out := make([]Record, len(in))
	for i, r := range in {
		out[i] = Record{
			OutPoint: &OutPoint{
				TxHash: common.Hash(r.OutPoint.TxHash),
				Index:  hexutil.Uint64(r.OutPoint.Index),
			},
			Capacity: hexutil.Uint64(r.Capacity),
			Data:     r.Data,
			Lock:     fromScript(r.Lock),
		}
		if r.Type != nil {
			typ := fromScript(*r.Type)
			out[i].Type = &typ
		}
	}
	return out
}

func fromScript(s cell.Script) Script {
	return Script{
		CodeHash: common.Hash(s.CodeHash),
		HashType: s.HashType,
		Args:     s.Args,
	}
}
