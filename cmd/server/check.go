package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fleshka4/amm-validator/internal/amm"
	"github.com/fleshka4/amm-validator/internal/infra/txfile"
	"github.com/fleshka4/amm-validator/internal/service"
	"github.com/fleshka4/amm-validator/internal/service/dto"
	"github.com/fleshka4/amm-validator/internal/service/validate"
	httpdto "github.com/fleshka4/amm-validator/internal/transport/http/dto"
)

type checkLine struct {
	File string `json:"file"`
	httpdto.VerdictResponse
}

func runCheck(cmd *cobra.Command, paths []string) error {
	cfg, params, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	txs, err := txfile.ReadAll(ctx, paths)
	if err != nil {
		return errors.Wrap(err, "txfile.ReadAll")
	}

	reqs := make([]dto.ValidateRequest, len(txs))
	for i, tx := range txs {
		reqs[i] = dto.ValidateRequest{Tx: tx}
	}

	svc := service.NewValidatorService(amm.NewValidator(params), logger)
	verdicts := make([]*dto.Verdict, 0, len(reqs))
	for start := 0; start < len(reqs); start += validate.MaxBatchSize {
		end := min(start+validate.MaxBatchSize, len(reqs))
		chunk, err := svc.ValidateBatch(ctx, reqs[start:end])
		if err != nil {
			return errors.Wrap(err, "svc.ValidateBatch")
		}
		verdicts = append(verdicts, chunk...)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	rejected := 0
	for i, v := range verdicts {
		if !v.Accepted {
			rejected++
		}
		if err := enc.Encode(checkLine{File: paths[i], VerdictResponse: httpdto.FromVerdict(v)}); err != nil {
			return errors.Wrap(err, "enc.Encode")
		}
	}

	logger.Info("check done",
		zap.Int("total", len(verdicts)),
		zap.Int("rejected", rejected),
	)

	if rejected > 0 {
		return errors.Errorf("%d of %d transactions rejected", rejected, len(verdicts))
	}
	return nil
}
