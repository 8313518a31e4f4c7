package apperrors

import "github.com/pkg/errors"

var (
	// ErrInvalidArgument is returned when the request parameters are invalid.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrMalformedLength is returned when a payload does not match its schema width.
	ErrMalformedLength = New(CodeMalformedLength)
)

// Structural rejections.
var (
	ErrIndexOutOfBound               = New(CodeIndexOutOfBound)
	ErrMissingTypeScript             = New(CodeMissingTypeScript)
	ErrMoreThanOneLiquidityPool      = New(CodeMoreThanOneLiquidityPool)
	ErrInvalidInitialLiquidityTx     = New(CodeInvalidInitialLiquidityTx)
	ErrInvalidInfoInData             = New(CodeInvalidInfoInData)
	ErrInvalidInfoData               = New(CodeInvalidInfoData)
	ErrCellDataLenTooShort           = New(CodeCellDataLenTooShort)
	ErrSUDTCellDataLenTooShort       = New(CodeSUDTCellDataLenTooShort)
	ErrCKBCellDataIsNotEmpty         = New(CodeCKBCellDataIsNotEmpty)
	ErrInvalidSwapOutputData         = New(CodeInvalidSwapOutputData)
	ErrInvalidInfoLockCount          = New(CodeInvalidInfoLockCount)
	ErrInvalidInfoTypeArgsLen        = New(CodeInvalidInfoTypeArgsLen)
	ErrVersionDiff                   = New(CodeVersionDiff)
	ErrInvalidChangeCell             = New(CodeInvalidChangeCell)
	ErrInvalidSwapOutputCapacity     = New(CodeInvalidSwapOutputCapacity)
	ErrRequestCapacityEqSUDTCapacity = New(CodeRequestCapacityEqSUDTCapacity)
)

// Binding rejections.
var (
	ErrInvalidTypeID                     = New(CodeInvalidTypeID)
	ErrInfoLockArgsFrontHalfMismatch     = New(CodeInfoLockArgsFrontHalfMismatch)
	ErrInfoLockArgsSecondHalfMismatch    = New(CodeInfoLockArgsSecondHalfMismatch)
	ErrInfoPoolLockHashMismatch          = New(CodeInfoPoolLockHashMismatch)
	ErrLiquidityArgsInfoTypeHashMismatch = New(CodeLiquidityArgsInfoTypeHashMismatch)
	ErrPoolIdentityChanged               = New(CodePoolIdentityChanged)
)

// Cross-consistency rejections.
var (
	ErrUserLockHashMismatch          = New(CodeUserLockHashMismatch)
	ErrSUDTTypeHashMismatch          = New(CodeSUDTTypeHashMismatch)
	ErrLiquiditySUDTTypeHashMismatch = New(CodeLiquiditySUDTTypeHashMismatch)
	ErrSUDTOutLockHashMismatch       = New(CodeSUDTOutLockHashMismatch)
	ErrCKBOutLockHashMismatch        = New(CodeCKBOutLockHashMismatch)
	ErrInvalidOutputLockHash         = New(CodeInvalidOutputLockHash)
	ErrInvalidOutputTypeHash         = New(CodeInvalidOutputTypeHash)
	ErrCKBReserveAmountDiff          = New(CodeCKBReserveAmountDiff)
	ErrSUDTReserveAmountDiff         = New(CodeSUDTReserveAmountDiff)
	ErrInfoCapacityDiff              = New(CodeInfoCapacityDiff)
	ErrInvalidCKBReserve             = New(CodeInvalidCKBReserve)
	ErrInvalidSUDTReserve            = New(CodeInvalidSUDTReserve)
	ErrInvalidTotalLiquidity         = New(CodeInvalidTotalLiquidity)
	ErrInvalidOutputPoolCapacity     = New(CodeInvalidOutputPoolCapacity)
	ErrInvalidOutputPoolData         = New(CodeInvalidOutputPoolData)
)

// Arithmetic rejections.
var (
	ErrMintInitialLiquidityFailed = New(CodeMintInitialLiquidityFailed)
	ErrSellSUDTFailed             = New(CodeSellSUDTFailed)
	ErrBuySUDTFailed              = New(CodeBuySUDTFailed)
	ErrBurnLiquidityFailed        = New(CodeBurnLiquidityFailed)
	ErrSUDTGotAmountDiff          = New(CodeSUDTGotAmountDiff)
	ErrCKBGotAmountDiff           = New(CodeCKBGotAmountDiff)
	ErrInvalidCKBAmount           = New(CodeInvalidCKBAmount)
	ErrCKBInjectAmountDiff        = New(CodeCKBInjectAmountDiff)
	ErrSUDTInjectAmountDiff       = New(CodeSUDTInjectAmountDiff)
	ErrLiquidityPoolTokenDiff     = New(CodeLiquidityPoolTokenDiff)
	ErrSwapInputSUDTAmountEqZero  = New(CodeSwapInputSUDTAmountEqZero)
	ErrReserveOverflow            = New(CodeReserveOverflow)
)

// Slippage rejections.
var (
	ErrInvalidMinCKBInject   = New(CodeInvalidMinCKBInject)
	ErrInvalidMinSUDTInject  = New(CodeInvalidMinSUDTInject)
	ErrInvalidMinCKBGot      = New(CodeInvalidMinCKBGot)
	ErrInvalidMinSUDTGot     = New(CodeInvalidMinSUDTGot)
	ErrSwapAmountLessThanMin = New(CodeSwapAmountLessThanMin)
)

// ErrUnknownLiquidity is returned when an order's asset class matches neither
// the pool token nor the liquidity token.
var ErrUnknownLiquidity = New(CodeUnknownLiquidity)
