package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/verifield/verifield/types"
)

type switchRequest struct {
	ChainID types.ChainID `json:"chainId"`
}

type acceptedResponse struct {
	Accepted bool             `json:"accepted"`
	Status   types.StatusView `json:"status"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": s.version})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   s.backend.Status(),
		"snapshot": s.backend.Snapshot(),
	})
}

func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	s.backend.ConnectWallet(r.Context())
	writeJSON(w, http.StatusAccepted, acceptedResponse{Accepted: true, Status: s.backend.Status()})
}

// handleSwitch takes an optional {"chainId": n}; an empty body switches to
// the target chain.
func (s *Server) handleSwitch(w http.ResponseWriter, r *http.Request) {
	var req switchRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, &types.VerifieldError{
				Code:    types.ErrChainSwitchFailed,
				Message: "invalid request body",
			})
			return
		}
	}
	s.backend.SwitchChain(r.Context(), req.ChainID)
	writeJSON(w, http.StatusAccepted, acceptedResponse{Accepted: true, Status: s.backend.Status()})
}

func (s *Server) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	if err := s.backend.DisconnectWallet(r.Context()); err != nil {
		s.log.Warn("disconnect failed", map[string]any{"err": err})
		writeError(w, http.StatusBadGateway, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleWallet(w http.ResponseWriter, r *http.Request) {
	overview, err := s.backend.Wallet(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

func (s *Server) handleRefreshWallet(w http.ResponseWriter, r *http.Request) {
	overview, err := s.backend.RefreshWallet(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

func (s *Server) handleMint(w http.ResponseWriter, r *http.Request) {
	var draft types.MintFormDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, &types.VerifieldError{
			Code:    types.ErrInvalidDraft,
			Message: "invalid request body",
		})
		return
	}

	result, err := s.backend.Mint(r.Context(), &draft)
	if err != nil {
		status := http.StatusInternalServerError
		var verr *types.VerifieldError
		if errors.As(err, &verr) {
			switch verr.Code {
			case types.ErrInvalidDraft:
				status = http.StatusUnprocessableEntity
			case types.ErrMintFailed:
				status = http.StatusBadGateway
			}
		}
		writeError(w, status, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	var since uint64
	if raw := r.URL.Query().Get("since"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			http.Error(w, fmt.Sprintf("invalid since %q", raw), http.StatusBadRequest)
			return
		}
		since = v
	}
	writeJSON(w, http.StatusOK, s.backend.Notifications(since))
}

func (s *Server) handleChains(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.backend.Chains())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError renders coded errors as-is and anything else as a bare message.
func writeError(w http.ResponseWriter, status int, err error) {
	var verr *types.VerifieldError
	if errors.As(err, &verr) {
		writeJSON(w, status, verr)
		return
	}
	writeJSON(w, status, map[string]string{"message": err.Error()})
}
