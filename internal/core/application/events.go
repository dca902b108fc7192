package application

import (
	"encoding/hex"
	"encoding/json"

	"github.com/hashlock-network/swapd/internal/core/domain"
)

// Event payloads are the compatibility surface consumed by off-chain
// relayers. Field sets and names must not change without a version bump.

type swapInitiatedEvent struct {
	Id                  string `json:"id"`
	Initiator           string `json:"initiator"`
	Participant         string `json:"participant"`
	Asset               string `json:"asset"`
	Amount              string `json:"amount"`
	Hashlock            string `json:"hashlock"`
	Timelock            uint32 `json:"timelock"`
	EthereumDestination string `json:"ethereum_destination"`
	EthereumAmount      string `json:"ethereum_amount"`
	EthereumToken       string `json:"ethereum_token"`
}

type withdrawnEvent struct {
	Id       string `json:"id"`
	Preimage string `json:"preimage"`
}

type refundedEvent struct {
	Id        string `json:"id"`
	Initiator string `json:"initiator"`
}

func serializeSwapInitiated(swap *domain.Swap) string {
	buf, _ := json.Marshal(swapInitiatedEvent{
		Id:                  swap.Id,
		Initiator:           swap.Initiator,
		Participant:         swap.Participant,
		Asset:               swap.Asset,
		Amount:              swap.Amount.String(),
		Hashlock:            hex.EncodeToString(swap.Hashlock),
		Timelock:            swap.Timelock,
		EthereumDestination: swap.EthereumDestination,
		EthereumAmount:      swap.EthereumAmount,
		EthereumToken:       swap.EthereumToken,
	})
	return string(buf)
}

func serializeWithdrawn(swap *domain.Swap, preimage []byte) string {
	buf, _ := json.Marshal(withdrawnEvent{
		Id:       swap.Id,
		Preimage: hex.EncodeToString(preimage),
	})
	return string(buf)
}

func serializeRefunded(swap *domain.Swap) string {
	buf, _ := json.Marshal(refundedEvent{
		Id:        swap.Id,
		Initiator: swap.Initiator,
	})
	return string(buf)
}
