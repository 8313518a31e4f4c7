package txjson

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleshka4/amm-validator/internal/cell"
)

const hash32 = "0x1111111111111111111111111111111111111111111111111111111111111111"

func TestDecode(t *testing.T) {
	t.Parallel()

	body := `{
		"inputs": [{
			"out_point": {"tx_hash": "` + hash32 + `", "index": "0x7"},
			"capacity": "0x5d21dba000",
			"data": "0x",
			"lock": {"code_hash": "` + hash32 + `", "hash_type": 1, "args": "0x0102"}
		}],
		"outputs": [{
			"capacity": "0x64",
			"data": "0xff",
			"lock": {"code_hash": "` + hash32 + `", "hash_type": 0, "args": "0x"},
			"type": {"code_hash": "` + hash32 + `", "hash_type": 2, "args": "0xaa"}
		}],
		"witnesses": ["0x0100000000000000"]
	}`

	tx, err := Decode(strings.NewReader(body))
	require.NoError(t, err)

	require.Len(t, tx.Inputs, 1)
	in := tx.Inputs[0]
	assert.Equal(t, uint32(7), in.OutPoint.Index)
	assert.Equal(t, byte(0x11), in.OutPoint.TxHash[31])
	assert.Equal(t, uint64(400_000_000_000), in.Capacity)
	assert.Equal(t, []byte{1, 2}, in.Lock.Args)
	assert.Nil(t, in.Type)

	require.Len(t, tx.Outputs, 1)
	out := tx.Outputs[0]
	assert.Equal(t, uint64(100), out.Capacity)
	require.NotNil(t, out.Type)
	assert.Equal(t, uint8(2), out.Type.HashType)
	assert.Equal(t, []byte{0xaa}, out.Type.Args)

	swaps, err := cell.DecodeSwapCount(tx.Witnesses)
	require.NoError(t, err)
	assert.Equal(t, 1, swaps)
}

func TestDecode_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: "inputs"},
		{name: "unknown field", body: `{"inputs": [], "fee": "0x1"}`},
		{name: "decimal capacity", body: `{"outputs": [{"capacity": 100, "lock": {"code_hash": "` + hash32 + `"}}]}`},
		{name: "short hash", body: `{"outputs": [{"capacity": "0x1", "lock": {"code_hash": "0x11"}}]}`},
		{name: "bytes without prefix", body: `{"witnesses": ["0102"]}`},
		{name: "second object", body: `{"witnesses": []} {"witnesses": []}`},
		{name: "stray closing brace", body: `{"witnesses": []}}`},
		{
			name: "index out of range",
			body: `{"inputs": [{"out_point": {"tx_hash": "` + hash32 + `", "index": "0x100000000"},
				"capacity": "0x1", "lock": {"code_hash": "` + hash32 + `"}}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Decode(strings.NewReader(tt.body))
			require.Error(t, err)
		})
	}
}

func TestDecodeStrict(t *testing.T) {
	t.Parallel()

	var v struct {
		Name string `json:"name"`
	}
	require.NoError(t, DecodeStrict(strings.NewReader("{\"name\": \"pool\"}\n  "), &v))
	assert.Equal(t, "pool", v.Name)

	err := DecodeStrict(strings.NewReader(`{"name": "pool"} 1`), &v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "trailing data")
}

func TestFromTransaction(t *testing.T) {
	t.Parallel()

	typ := cell.Script{CodeHash: cell.Hash{0x33}, HashType: 1, Args: []byte("token")}
	tx := cell.Transaction{
		Inputs: []cell.Record{{
			OutPoint: cell.OutPoint{TxHash: cell.Hash{0x42}, Index: 3},
			Capacity: 42,
			Lock:     cell.Script{CodeHash: cell.Hash{0x22}, Args: []byte{1}},
		}},
		Outputs: []cell.Record{{
			Capacity: 7,
			Data:     []byte{9, 9},
			Lock:     cell.Script{CodeHash: cell.Hash{0x22}, Args: []byte{2}},
			Type:     &typ,
		}},
		Witnesses: [][]byte{cell.EncodeSwapCount(0)},
	}

	raw, err := json.Marshal(FromTransaction(tx))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"capacity":"0x2a"`)
	assert.Contains(t, string(raw), `"index":"0x3"`)

	back, err := Decode(strings.NewReader(string(raw)))
	require.NoError(t, err)
	assert.Equal(t, tx.Inputs[0].OutPoint, back.Inputs[0].OutPoint)
	assert.Equal(t, tx.Outputs[0].Type.Args, back.Outputs[0].Type.Args)
	assert.Equal(t, tx.Witnesses, back.Witnesses)
}
