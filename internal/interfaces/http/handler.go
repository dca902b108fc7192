package httpinterface

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/hashlock-network/swapd/internal/core/application"
	"github.com/hashlock-network/swapd/internal/core/domain"
	"github.com/hashlock-network/swapd/internal/core/ports"
	"github.com/shopspring/decimal"
)

type swapHandler struct {
	swapSvc *application.SwapService
	vault   ports.AssetVault
	pubsub  ports.SecurePubSub
	auth    ports.Authenticator
}

func (h *swapHandler) initiateSwap(w http.ResponseWriter, r *http.Request) {
	var req initiateSwapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: fmt.Sprintf("invalid request body: %s", err),
		})
		return
	}

	hashlock, err := hex.DecodeString(req.Hashlock)
	if err != nil {
		writeError(w, domain.ErrInvalidHashlock)
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeError(w, domain.ErrInvalidAmount)
		return
	}

	swapId, err := h.swapSvc.InitiateSwap(r.Context(), application.InitiateSwapRequest{
		Participant:         req.Participant,
		Asset:               req.Asset,
		Amount:              amount,
		Hashlock:            hashlock,
		Timelock:            req.Timelock,
		EthereumDestination: req.EthereumDestination,
		EthereumAmount:      req.EthereumAmount,
		EthereumToken:       req.EthereumToken,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, initiateSwapResponse{Id: swapId})
}

func (h *swapHandler) withdrawSwap(w http.ResponseWriter, r *http.Request) {
	swapId := mux.Vars(r)["id"]

	var req withdrawSwapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: fmt.Sprintf("invalid request body: %s", err),
		})
		return
	}
	preimage, err := hex.DecodeString(req.Preimage)
	if err != nil {
		writeError(w, domain.ErrInvalidPreimage)
		return
	}

	if err := h.swapSvc.Withdraw(r.Context(), swapId, preimage); err != nil {
		writeError(w, err)
		return
	}

	swap, err := h.swapSvc.GetSwap(r.Context(), swapId)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newSwapResponse(swap))
}

func (h *swapHandler) refundSwap(w http.ResponseWriter, r *http.Request) {
	swapId := mux.Vars(r)["id"]

	if err := h.swapSvc.Refund(r.Context(), swapId); err != nil {
		writeError(w, err)
		return
	}

	swap, err := h.swapSvc.GetSwap(r.Context(), swapId)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newSwapResponse(swap))
}

func (h *swapHandler) getSwap(w http.ResponseWriter, r *http.Request) {
	swap, err := h.swapSvc.GetSwap(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newSwapResponse(swap))
}

func (h *swapHandler) listSwaps(w http.ResponseWriter, r *http.Request) {
	swaps, err := h.swapSvc.ListSwaps(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	res := make([]swapResponse, 0, len(swaps))
	for _, swap := range swaps {
		res = append(res, newSwapResponse(swap))
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *swapHandler) subscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: fmt.Sprintf("invalid request body: %s", err),
		})
		return
	}

	subId, err := h.pubsub.Subscribe(req.Topic, req.Endpoint, req.Secret)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, subscribeResponse{Id: subId})
}

func (h *swapHandler) unsubscribe(w http.ResponseWriter, r *http.Request) {
	if err := h.pubsub.Unsubscribe("", mux.Vars(r)["id"]); err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *swapHandler) getSubscription(w http.ResponseWriter, r *http.Request) {
	sub, err := h.pubsub.GetSubscription(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, subscriptionResponse{
		Id:       sub.Id(),
		Topic:    sub.Topic(),
		Endpoint: sub.NotifyAt(),
		Secured:  sub.IsSecured(),
	})
}

func (h *swapHandler) listSubscriptions(w http.ResponseWriter, r *http.Request) {
	topic := r.URL.Query().Get("topic")
	subs := h.pubsub.ListSubscriptionsForTopic(topic)

	res := make([]subscriptionResponse, 0, len(subs))
	for _, sub := range subs {
		res = append(res, subscriptionResponse{
			Id:       sub.Id(),
			Topic:    sub.Topic(),
			Endpoint: sub.NotifyAt(),
			Secured:  sub.IsSecured(),
		})
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *swapHandler) deposit(w http.ResponseWriter, r *http.Request) {
	caller, err := h.auth.Caller(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	var req depositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: fmt.Sprintf("invalid request body: %s", err),
		})
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeError(w, domain.ErrInvalidAmount)
		return
	}

	if err := h.vault.Deposit(r.Context(), caller, req.Asset, amount); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	balance, err := h.vault.Balance(r.Context(), caller, req.Asset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, balanceResponse{
		Owner:   caller,
		Asset:   req.Asset,
		Balance: balance.String(),
	})
}

func (h *swapHandler) getBalance(w http.ResponseWriter, r *http.Request) {
	owner := mux.Vars(r)["owner"]
	asset := r.URL.Query().Get("asset")

	balance, err := h.vault.Balance(r.Context(), owner, asset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, balanceResponse{
		Owner:   owner,
		Asset:   asset,
		Balance: balance.String(),
	})
}
