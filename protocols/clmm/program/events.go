package program

import (
	"math/big"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
)

// SwapEvent is emitted by Swap and SwapV2. Price, liquidity and tick are the
// pool's values after the swap.
type SwapEvent struct {
	InvocationID  uuid.UUID        `json:"invocationId"`
	Pool          solana.PublicKey `json:"pool"`
	Sender        solana.PublicKey `json:"sender"`
	TokenAccount0 solana.PublicKey `json:"tokenAccount0"`
	TokenAccount1 solana.PublicKey `json:"tokenAccount1"`
	Amount0       uint64           `json:"amount0"`
	Amount1       uint64           `json:"amount1"`
	ZeroForOne    bool             `json:"zeroForOne"`
	SqrtPriceX64  *big.Int         `json:"sqrtPriceX64"`
	Liquidity     *big.Int         `json:"liquidity"`
	Tick          int32            `json:"tick"`
	Fee           uint64           `json:"fee"`
	TicksCrossed  int              `json:"ticksCrossed"`
}

// TwoHopSwapEvent is emitted by TwoHopSwap.
type TwoHopSwapEvent struct {
	InvocationID       uuid.UUID `json:"invocationId"`
	LegOne             SwapEvent `json:"legOne"`
	LegTwo             SwapEvent `json:"legTwo"`
	InputAmount        uint64    `json:"inputAmount"`
	IntermediateAmount uint64    `json:"intermediateAmount"`
	// IntermediateReceived is what reached the second pool's vault after the
	// intermediate mint's transfer fee.
	IntermediateReceived uint64 `json:"intermediateReceived"`
	OutputAmount         uint64 `json:"outputAmount"`
}

type CollectProtocolFeesEvent struct {
	InvocationID uuid.UUID        `json:"invocationId"`
	Pool         solana.PublicKey `json:"pool"`
	AmountA      uint64           `json:"amountA"`
	AmountB      uint64           `json:"amountB"`
	DestinationA solana.PublicKey `json:"destinationA"`
	DestinationB solana.PublicKey `json:"destinationB"`
}
