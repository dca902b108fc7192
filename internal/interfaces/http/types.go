package httpinterface

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/hashlock-network/swapd/internal/core/application"
	"github.com/hashlock-network/swapd/internal/core/domain"
	"github.com/hashlock-network/swapd/internal/core/ports"

	log "github.com/sirupsen/logrus"
)

type initiateSwapRequest struct {
	Participant         string `json:"participant"`
	Asset               string `json:"asset"`
	Amount              string `json:"amount"`
	Hashlock            string `json:"hashlock"`
	Timelock            uint32 `json:"timelock"`
	EthereumDestination string `json:"ethereum_destination,omitempty"`
	EthereumAmount      string `json:"ethereum_amount,omitempty"`
	EthereumToken       string `json:"ethereum_token,omitempty"`
}

type initiateSwapResponse struct {
	Id string `json:"id"`
}

type withdrawSwapRequest struct {
	Preimage string `json:"preimage"`
}

type swapResponse struct {
	Id                  string `json:"id"`
	Initiator           string `json:"initiator"`
	Participant         string `json:"participant"`
	Asset               string `json:"asset"`
	Amount              string `json:"amount"`
	Hashlock            string `json:"hashlock"`
	Timelock            uint32 `json:"timelock"`
	Status              string `json:"status"`
	EthereumDestination string `json:"ethereum_destination,omitempty"`
	EthereumAmount      string `json:"ethereum_amount,omitempty"`
	EthereumToken       string `json:"ethereum_token,omitempty"`
	CreatedAt           string `json:"created_at,omitempty"`
	SettledAt           string `json:"settled_at,omitempty"`
}

func newSwapResponse(swap *domain.Swap) swapResponse {
	res := swapResponse{
		Id:                  swap.Id,
		Initiator:           swap.Initiator,
		Participant:         swap.Participant,
		Asset:               swap.Asset,
		Amount:              swap.Amount.String(),
		Hashlock:            hex.EncodeToString(swap.Hashlock),
		Timelock:            swap.Timelock,
		Status:              swap.Status().String(),
		EthereumDestination: swap.EthereumDestination,
		EthereumAmount:      swap.EthereumAmount,
		EthereumToken:       swap.EthereumToken,
	}
	if swap.CreatedAt > 0 {
		res.CreatedAt = time.Unix(swap.CreatedAt, 0).UTC().Format(time.RFC3339)
	}
	if swap.SettledAt > 0 {
		res.SettledAt = time.Unix(swap.SettledAt, 0).UTC().Format(time.RFC3339)
	}
	return res
}

type subscribeRequest struct {
	Topic    string `json:"topic"`
	Endpoint string `json:"endpoint"`
	Secret   string `json:"secret,omitempty"`
}

type subscribeResponse struct {
	Id string `json:"id"`
}

type subscriptionResponse struct {
	Id       string `json:"id"`
	Topic    string `json:"topic"`
	Endpoint string `json:"endpoint"`
	Secured  bool   `json:"secured"`
}

type depositRequest struct {
	Asset  string `json:"asset"`
	Amount string `json:"amount"`
}

type balanceResponse struct {
	Owner   string `json:"owner"`
	Asset   string `json:"asset"`
	Balance string `json:"balance"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Warn("failed to write http response")
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusForError(err), errorResponse{Error: err.Error()})
}

// statusForError maps the service error taxonomy onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrSwapNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrSwapAlreadyExists),
		errors.Is(err, domain.ErrSwapAlreadySettled):
		return http.StatusConflict
	case errors.Is(err, domain.ErrSwapExpired),
		errors.Is(err, domain.ErrSwapNotExpired),
		errors.Is(err, ports.ErrInsufficientBalance),
		errors.Is(err, application.ErrTransferFailed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidHashlock),
		errors.Is(err, domain.ErrInvalidPreimage),
		errors.Is(err, domain.ErrTimelockTooShort),
		errors.Is(err, domain.ErrTimelockTooLong):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
