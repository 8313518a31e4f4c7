package dto

import (
	"github.com/fleshka4/amm-validator/internal/service/dto"
	"github.com/fleshka4/amm-validator/internal/txjson"
)

// BatchRequest is the body of POST /validate/batch.
type BatchRequest struct {
	Transactions []txjson.Transaction `json:"transactions"`
}

// VerdictResponse is the JSON form of a verdict.
type VerdictResponse struct {
	Accepted  bool   `json:"accepted"`
	Operation string `json:"operation,omitempty"`
	Orders    int    `json:"orders,omitempty"`
	Code      uint8  `json:"code,omitempty"`
	Kind      string `json:"kind,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// BatchResponse is the body returned by POST /validate/batch.
type BatchResponse struct {
	Verdicts []VerdictResponse `json:"verdicts"`
}

// FromVerdict converts a service verdict for the wire.
func FromVerdict(v *dto.Verdict) VerdictResponse {
	if v.Accepted {
		return VerdictResponse{
			Accepted:  true,
			Operation: v.Operation.String(),
			Orders:    v.Orders,
		}
	}
	return VerdictResponse{
		Code:   uint8(v.Code),
		Kind:   v.Kind.String(),
		Reason: v.Reason,
	}
}
