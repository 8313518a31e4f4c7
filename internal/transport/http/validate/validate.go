package validate

import (
	"io"
	"net/http"

	"github.com/pkg/errors"

	"github.com/fleshka4/amm-validator/internal/cell"
	"github.com/fleshka4/amm-validator/internal/transport/http/dto"
	"github.com/fleshka4/amm-validator/internal/txjson"
)

// ValidateRequestDecode checks the method of a /validate request and decodes
// its body. The int is the HTTP status to answer with on error.
func ValidateRequestDecode(w http.ResponseWriter, r *http.Request, limit int64) (*cell.Transaction, int, error) {
	if r.Method != http.MethodPost {
		return nil, http.StatusMethodNotAllowed, errors.New("method not allowed")
	}
	if r.Body == nil {
		return nil, http.StatusBadRequest, errors.New("empty body")
	}

	tx, err := txjson.Decode(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		return nil, http.StatusBadRequest, bodyError(err, "bad transaction")
	}
	return &tx, 0, nil
}

func bodyError(err error, msg string) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return errors.Errorf("body exceeds %d bytes", tooLarge.Limit)
	}
	if errors.Is(err, io.EOF) {
		return errors.New("empty body")
	}
	return errors.Wrap(err, msg)
}

// BatchRequestDecode checks the method of a /validate/batch request and
// decodes every transaction in it.
func BatchRequestDecode(w http.ResponseWriter, r *http.Request, limit int64) ([]cell.Transaction, int, error) {
	if r.Method != http.MethodPost {
		return nil, http.StatusMethodNotAllowed, errors.New("method not allowed")
	}
	if r.Body == nil {
		return nil, http.StatusBadRequest, errors.New("empty body")
	}

	var req dto.BatchRequest
	if err := txjson.DecodeStrict(http.MaxBytesReader(w, r.Body, limit), &req); err != nil {
		return nil, http.StatusBadRequest, bodyError(err, "bad batch")
	}
	if len(req.Transactions) == 0 {
		return nil, http.StatusBadRequest, errors.New("batch cannot be empty")
	}

	txs := make([]cell.Transaction, len(req.Transactions))
	for i, t := range req.Transactions {
		tx, err := t.ToTransaction()
		if err != nil {
			return nil, http.StatusBadRequest, errors.Wrapf(err, "transaction %d", i)
		}
		txs[i] = tx
	}
	return txs, 0, nil
}
