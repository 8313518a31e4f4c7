package apperrors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind groups rejection codes by the nature of the failed check.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindStructural
	KindBinding
	KindCrossConsistency
	KindArithmetic
	KindSlippage
	KindClassification
)

func (k Kind) String() string {
	switch k {
	case KindStructural:
		return "structural"
	case KindBinding:
		return "binding"
	case KindCrossConsistency:
		return "cross-consistency"
	case KindArithmetic:
		return "arithmetic"
	case KindSlippage:
		return "slippage"
	case KindClassification:
		return "classification"
	default:
		return "unknown"
	}
}

// Code is an enumerated rejection reason. Values are stable and may be
// reported to callers as exit codes.
type Code uint8

const (
	CodeIndexOutOfBound                   Code = 1
	CodeMalformedLength                   Code = 3
	CodeMissingTypeScript                 Code = 5
	CodeMoreThanOneLiquidityPool          Code = 6
	CodeMintInitialLiquidityFailed        Code = 7
	CodeUserLockHashMismatch              Code = 8
	CodeInvalidTypeID                     Code = 9
	CodeVersionDiff                       Code = 10
	CodeSUDTTypeHashMismatch              Code = 11
	CodeUnknownLiquidity                  Code = 12
	CodeInvalidInfoData                   Code = 13
	CodeSellSUDTFailed                    Code = 14
	CodeBuySUDTFailed                     Code = 15
	CodeInvalidChangeCell                 Code = 16
	CodeInvalidTotalLiquidity             Code = 17
	CodeInvalidInitialLiquidityTx         Code = 18
	CodeBurnLiquidityFailed               Code = 19
	CodeSUDTGotAmountDiff                 Code = 20
	CodeCKBGotAmountDiff                  Code = 21
	CodeInvalidCKBAmount                  Code = 22
	CodeCKBReserveAmountDiff              Code = 23
	CodeSUDTReserveAmountDiff             Code = 24
	CodeInvalidCKBReserve                 Code = 25
	CodeInvalidSUDTReserve                Code = 26
	CodeCKBInjectAmountDiff               Code = 27
	CodeSUDTInjectAmountDiff              Code = 28
	CodeLiquidityPoolTokenDiff            Code = 29
	CodeInfoLockArgsFrontHalfMismatch     Code = 30
	CodeInfoLockArgsSecondHalfMismatch    Code = 31
	CodeCellDataLenTooShort               Code = 34
	CodeInfoPoolLockHashMismatch          Code = 35
	CodeLiquidityArgsInfoTypeHashMismatch Code = 36
	CodeInfoCapacityDiff                  Code = 37
	CodeInvalidInfoInData                 Code = 39
	CodeLiquiditySUDTTypeHashMismatch     Code = 40
	CodeSUDTOutLockHashMismatch           Code = 41
	CodeInvalidMinCKBInject               Code = 42
	CodeInvalidMinSUDTInject              Code = 43
	CodeInvalidMinCKBGot                  Code = 44
	CodeInvalidMinSUDTGot                 Code = 45
	CodeInvalidInfoTypeArgsLen            Code = 46
	CodeCKBOutLockHashMismatch            Code = 48
	CodeSUDTCellDataLenTooShort           Code = 49
	CodeCKBCellDataIsNotEmpty             Code = 50
	CodeInvalidOutputLockHash             Code = 51
	CodeRequestCapacityEqSUDTCapacity     Code = 52
	CodeInvalidOutputTypeHash             Code = 53
	CodeInvalidSwapOutputCapacity         Code = 54
	CodeSwapAmountLessThanMin             Code = 55
	CodeInvalidSwapOutputData             Code = 56
	CodeSwapInputSUDTAmountEqZero         Code = 57
	CodeInvalidOutputPoolData             Code = 58
	CodeInvalidOutputPoolCapacity         Code = 59
	CodeInvalidInfoLockCount              Code = 60
	CodeReserveOverflow                   Code = 61
	CodePoolIdentityChanged               Code = 62
)

type codeInfo struct {
	name string
	kind Kind
}

var codes = map[Code]codeInfo{
	CodeIndexOutOfBound:                   {"record index out of bound", KindStructural},
	CodeMalformedLength:                   {"malformed payload length", KindStructural},
	CodeMissingTypeScript:                 {"missing type script", KindStructural},
	CodeMoreThanOneLiquidityPool:          {"more than one liquidity pool", KindStructural},
	CodeMintInitialLiquidityFailed:        {"initial liquidity mismatch", KindArithmetic},
	CodeUserLockHashMismatch:              {"result not owned by order user", KindCrossConsistency},
	CodeInvalidTypeID:                     {"invalid type id", KindBinding},
	CodeVersionDiff:                       {"order version mismatch", KindStructural},
	CodeSUDTTypeHashMismatch:              {"sudt type hash mismatch", KindCrossConsistency},
	CodeUnknownLiquidity:                  {"unknown liquidity order kind", KindClassification},
	CodeInvalidInfoData:                   {"invalid snapshot data", KindStructural},
	CodeSellSUDTFailed:                    {"ckb paid mismatch", KindArithmetic},
	CodeBuySUDTFailed:                     {"sudt paid mismatch", KindArithmetic},
	CodeInvalidChangeCell:                 {"invalid change record", KindStructural},
	CodeInvalidTotalLiquidity:             {"total liquidity mismatch", KindCrossConsistency},
	CodeInvalidInitialLiquidityTx:         {"invalid initial liquidity transaction", KindStructural},
	CodeBurnLiquidityFailed:               {"burn of zero liquidity", KindArithmetic},
	CodeSUDTGotAmountDiff:                 {"sudt got mismatch", KindArithmetic},
	CodeCKBGotAmountDiff:                  {"ckb got mismatch", KindArithmetic},
	CodeInvalidCKBAmount:                  {"invalid ckb amount", KindArithmetic},
	CodeCKBReserveAmountDiff:              {"input reserve capacity disagrees with snapshot", KindCrossConsistency},
	CodeSUDTReserveAmountDiff:             {"input reserve balance disagrees with snapshot", KindCrossConsistency},
	CodeInvalidCKBReserve:                 {"ckb reserve mismatch", KindCrossConsistency},
	CodeInvalidSUDTReserve:                {"sudt reserve mismatch", KindCrossConsistency},
	CodeCKBInjectAmountDiff:               {"liquidity minted for ckb mismatch", KindArithmetic},
	CodeSUDTInjectAmountDiff:              {"liquidity minted for sudt mismatch", KindArithmetic},
	CodeLiquidityPoolTokenDiff:            {"injected amount mismatch", KindArithmetic},
	CodeInfoLockArgsFrontHalfMismatch:     {"info lock args front half mismatch", KindBinding},
	CodeInfoLockArgsSecondHalfMismatch:    {"info lock args second half mismatch", KindBinding},
	CodeCellDataLenTooShort:               {"reserve data too short", KindStructural},
	CodeInfoPoolLockHashMismatch:          {"snapshot and reserve locks differ", KindBinding},
	CodeLiquidityArgsInfoTypeHashMismatch: {"order names another pool", KindBinding},
	CodeInfoCapacityDiff:                  {"snapshot capacity mismatch", KindCrossConsistency},
	CodeInvalidInfoInData:                 {"snapshot not empty for initial mint", KindStructural},
	CodeLiquiditySUDTTypeHashMismatch:     {"liquidity token class mismatch", KindCrossConsistency},
	CodeSUDTOutLockHashMismatch:           {"sudt payout not owned by order user", KindCrossConsistency},
	CodeInvalidMinCKBInject:               {"ckb injected below minimum", KindSlippage},
	CodeInvalidMinSUDTInject:              {"sudt injected below minimum", KindSlippage},
	CodeInvalidMinCKBGot:                  {"ckb got below minimum", KindSlippage},
	CodeInvalidMinSUDTGot:                 {"sudt got below minimum", KindSlippage},
	CodeInvalidInfoTypeArgsLen:            {"invalid info type args length", KindStructural},
	CodeCKBOutLockHashMismatch:            {"ckb payout not owned by order user", KindCrossConsistency},
	CodeSUDTCellDataLenTooShort:           {"sudt payout data too short", KindStructural},
	CodeCKBCellDataIsNotEmpty:             {"ckb payout carries data", KindStructural},
	CodeInvalidOutputLockHash:             {"swap result not owned by order user", KindCrossConsistency},
	CodeRequestCapacityEqSUDTCapacity:     {"swap order pays no ckb", KindArithmetic},
	CodeInvalidOutputTypeHash:             {"swap result asset class mismatch", KindCrossConsistency},
	CodeInvalidSwapOutputCapacity:         {"swap result capacity mismatch", KindArithmetic},
	CodeSwapAmountLessThanMin:             {"swap amount below minimum", KindSlippage},
	CodeInvalidSwapOutputData:             {"swap result carries data", KindStructural},
	CodeSwapInputSUDTAmountEqZero:         {"swap order pays no sudt", KindArithmetic},
	CodeInvalidOutputPoolData:             {"output reserve balance mismatch", KindCrossConsistency},
	CodeInvalidOutputPoolCapacity:         {"output reserve capacity mismatch", KindCrossConsistency},
	CodeInvalidInfoLockCount:              {"info lock record count mismatch", KindBinding},
	CodeReserveOverflow:                   {"reserve arithmetic out of range", KindArithmetic},
	CodePoolIdentityChanged:               {"pool identity changed across transition", KindBinding},
}

// Kind returns the taxonomy group of the code.
func (c Code) Kind() Kind {
	return codes[c].kind
}

func (c Code) String() string {
	if info, ok := codes[c]; ok {
		return info.name
	}
	return fmt.Sprintf("code(%d)", uint8(c))
}

// Rejection is a terminal verdict carrying one enumerated reason.
type Rejection struct {
	code Code
}

// New returns a rejection for the code. Rejections are compared by identity,
// so packages declare them once as sentinels.
func New(code Code) *Rejection {
	return &Rejection{code: code}
}

func (r *Rejection) Error() string {
	return r.code.String()
}

// Code returns the enumerated reason.
func (r *Rejection) Code() Code {
	return r.code
}

// Kind returns the taxonomy group of the reason.
func (r *Rejection) Kind() Kind {
	return r.code.Kind()
}

// AsRejection unwraps err to the rejection it carries.
func AsRejection(err error) (*Rejection, bool) {
	var r *Rejection
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}

// CodeOf returns the rejection code carried by err, or 0 if err is not a rejection.
func CodeOf(err error) Code {
	if r, ok := AsRejection(err); ok {
		return r.code
	}
	return 0
}
