package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/fleshka4/amm-validator/internal/apperrors"
	"github.com/fleshka4/amm-validator/internal/service/dto"
	httpdto "github.com/fleshka4/amm-validator/internal/transport/http/dto"
	"github.com/fleshka4/amm-validator/internal/transport/http/validate"
)

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	tx, code, err := validate.ValidateRequestDecode(w, r, s.maxBodyBytes)
	if err != nil {
		if code == 0 {
			code = http.StatusBadRequest
		}
		http.Error(w, err.Error(), code)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	verdict, err := s.svc.Validate(ctx, dto.ValidateRequest{Tx: *tx})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	s.writeJSON(w, httpdto.FromVerdict(verdict))
}

func (s *Server) handleValidateBatch(w http.ResponseWriter, r *http.Request) {
	txs, code, err := validate.BatchRequestDecode(w, r, s.maxBodyBytes)
	if err != nil {
		if code == 0 {
			code = http.StatusBadRequest
		}
		http.Error(w, err.Error(), code)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	reqs := make([]dto.ValidateRequest, len(txs))
	for i, tx := range txs {
		reqs[i] = dto.ValidateRequest{Tx: tx}
	}

	verdicts, err := s.svc.ValidateBatch(ctx, reqs)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	resp := httpdto.BatchResponse{Verdicts: make([]httpdto.VerdictResponse, len(verdicts))}
	for i, v := range verdicts {
		resp.Verdicts[i] = httpdto.FromVerdict(v)
	}
	s.writeJSON(w, resp)
}

func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperrors.ErrInvalidArgument):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, context.DeadlineExceeded):
		http.Error(w, "validation timed out", http.StatusGatewayTimeout)
	default:
		s.log.Error("validate failed", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn("response write error", zap.Error(err))
	}
}
