package txfile

import (
	"context"
	"os"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/fleshka4/amm-validator/internal/cell"
	"github.com/fleshka4/amm-validator/internal/txjson"
)

// Read loads one JSON transaction from path.
func Read(path string) (tx cell.Transaction, err error) {
	f, err := os.Open(path)
	if err != nil {
		return cell.Transaction{}, errors.Wrap(err, "os.Open")
	}
	defer func() {
		err = multierr.Append(err, errors.Wrap(f.Close(), "f.Close"))
	}()

	tx, err = txjson.Decode(f)
	if err != nil {
		return cell.Transaction{}, errors.Wrapf(err, "decode %s", path)
	}
	return tx, nil
}

// ReadAll loads every path concurrently. Transactions keep the order of
// paths; all read failures are reported together.
func ReadAll(ctx context.Context, paths []string) ([]cell.Transaction, error) {
	type readResult struct {
		idx int
		tx  cell.Transaction
		err error
	}

	var wg sync.WaitGroup
	ch := make(chan readResult, len(paths))

	wg.Add(len(paths))
	for i, path := range paths {
		go func() {
			defer wg.Done()

			select {
			case <-ctx.Done():
				ch <- readResult{idx: i, err: errors.Wrap(ctx.Err(), "context cancelled before read")}
				return
			default:
			}

			tx, err := Read(path)
			ch <- readResult{idx: i, tx: tx, err: err}
		}()
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	var (
		txs         = make([]cell.Transaction, len(paths))
		combinedErr error
	)
	for result := range ch {
		if result.err != nil {
			combinedErr = multierr.Append(combinedErr, result.err)
			continue
		}
		txs[result.idx] = result.tx
	}

	if combinedErr != nil {
		return nil, errors.Wrap(combinedErr, "failed to read transactions")
	}
	return txs, nil
}
