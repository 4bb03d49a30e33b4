package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"diamondpad/internal/domain"
	"diamondpad/internal/event"
	"diamondpad/internal/ledger"
	"diamondpad/internal/observability"
	"diamondpad/internal/storage"
)

// api is the HTTP surface over the ledger service.
type api struct {
	svc         *ledger.Service
	events      storage.EventStore
	broadcaster *event.Broadcaster
	log         *logrus.Logger
}

func newAPI(svc *ledger.Service, events storage.EventStore, broadcaster *event.Broadcaster, log *logrus.Logger) *api {
	return &api{
		svc:         svc,
		events:      events,
		broadcaster: broadcaster,
		log:         log,
	}
}

// routes wires every endpoint onto a ServeMux.
func (a *api) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /status", a.handleStatus)
	mux.Handle("GET /metrics", observability.Handler())
	mux.Handle("GET /ws/events", a.broadcaster)

	mux.HandleFunc("POST /protocol/init", a.handleInitProtocol)
	mux.HandleFunc("GET /protocol", a.handleGetProtocol)

	mux.HandleFunc("POST /launches", a.handleCreateLaunch)
	mux.HandleFunc("GET /launches", a.handleListLaunches)
	mux.HandleFunc("GET /launches/{id}", a.handleGetLaunch)
	mux.HandleFunc("POST /launches/{id}/status", a.handleSetLaunchStatus)

	mux.HandleFunc("POST /launches/{id}/positions", a.handleRecordPosition)
	mux.HandleFunc("GET /launches/{id}/positions", a.handleListPositions)
	mux.HandleFunc("GET /launches/{id}/positions/{holder}", a.handleGetPosition)
	mux.HandleFunc("POST /launches/{id}/claims", a.handleClaimRewards)
	mux.HandleFunc("GET /holders/{wallet}/positions", a.handleHolderPositions)

	mux.HandleFunc("POST /bundlers", a.handleFlagBundler)
	mux.HandleFunc("GET /bundlers", a.handleListBundlers)
	mux.HandleFunc("GET /bundlers/{wallet}", a.handleGetBundler)

	mux.HandleFunc("GET /events", a.handleQueryEvents)

	return mux
}

// writeJSON writes v as a JSON response.
func (a *api) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.log.WithError(err).Warn("encode response failed")
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps ledger/storage errors onto HTTP status codes.
func (a *api) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case ledger.IsValidationError(err), errors.Is(err, ledger.ErrOverflow):
		status = http.StatusBadRequest
	case errors.Is(err, ledger.ErrUnauthorized):
		status = http.StatusForbidden
	case errors.Is(err, storage.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, storage.ErrDuplicateKey), errors.Is(err, ledger.ErrInvalidTransition),
		errors.Is(err, ledger.ErrNotInitialized):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		a.log.WithError(err).Error("internal error")
	}
	a.writeJSON(w, status, errorResponse{Error: err.Error()})
}

// decode reads a JSON request body into v.
func (a *api) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		a.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body: " + err.Error()})
		return false
	}
	return true
}

// launchID parses the {id} path segment.
func (a *api) launchID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		a.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid launch id"})
		return 0, false
	}
	return id, true
}

type statusResponse struct {
	Status      string `json:"status"`
	Uptime      string `json:"uptime"`
	Subscribers int    `json:"event_subscribers"`
}

func (a *api) handleStatus(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, statusResponse{
		Status:      "running",
		Uptime:      time.Since(startedAt).String(),
		Subscribers: a.broadcaster.SubscriberCount(),
	})
}

type initProtocolRequest struct {
	Authority string `json:"authority"`
}

func (a *api) handleInitProtocol(w http.ResponseWriter, r *http.Request) {
	var req initProtocolRequest
	if !a.decode(w, r, &req) {
		return
	}

	p, err := a.svc.InitializeProtocol(r.Context(), req.Authority)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusCreated, p)
}

func (a *api) handleGetProtocol(w http.ResponseWriter, r *http.Request) {
	p, err := a.svc.Stats(r.Context())
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, p)
}

type createLaunchRequest struct {
	Creator          string `json:"creator"`
	Name             string `json:"name"`
	Symbol           string `json:"symbol"`
	TotalSupply      uint64 `json:"total_supply"`
	DevAllocationBps uint16 `json:"dev_allocation_bps"`
	DevVestingDays   uint16 `json:"dev_vesting_days"`
	LpLockDays       uint16 `json:"lp_lock_days"`
	HolderRewardsBps uint16 `json:"holder_rewards_bps"`
}

func (a *api) handleCreateLaunch(w http.ResponseWriter, r *http.Request) {
	var req createLaunchRequest
	if !a.decode(w, r, &req) {
		return
	}

	l, err := a.svc.CreateLaunch(r.Context(), ledger.CreateLaunchParams{
		Creator:          req.Creator,
		Name:             req.Name,
		Symbol:           req.Symbol,
		TotalSupply:      req.TotalSupply,
		DevAllocationBps: req.DevAllocationBps,
		DevVestingDays:   req.DevVestingDays,
		LpLockDays:       req.LpLockDays,
		HolderRewardsBps: req.HolderRewardsBps,
	})
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusCreated, l)
}

func (a *api) handleListLaunches(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if creator := r.URL.Query().Get("creator"); creator != "" {
		launches, err := a.svc.GetLaunchesByCreator(ctx, creator)
		if err != nil {
			a.writeError(w, err)
			return
		}
		a.writeJSON(w, http.StatusOK, launches)
		return
	}

	status := r.URL.Query().Get("status")
	if status == "" {
		a.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "creator or status query parameter required"})
		return
	}
	launches, err := a.svc.GetLaunchesByStatus(ctx, domain.LaunchStatus(status))
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, launches)
}

func (a *api) handleGetLaunch(w http.ResponseWriter, r *http.Request) {
	id, ok := a.launchID(w, r)
	if !ok {
		return
	}

	l, err := a.svc.GetLaunch(r.Context(), id)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, l)
}

type setStatusRequest struct {
	Authority string `json:"authority"`
	Status    string `json:"status"`
}

func (a *api) handleSetLaunchStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := a.launchID(w, r)
	if !ok {
		return
	}
	var req setStatusRequest
	if !a.decode(w, r, &req) {
		return
	}

	l, err := a.svc.SetLaunchStatus(r.Context(), req.Authority, id, domain.LaunchStatus(req.Status))
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, l)
}

type recordPositionRequest struct {
	Holder string `json:"holder"`
	Amount uint64 `json:"amount"`
}

func (a *api) handleRecordPosition(w http.ResponseWriter, r *http.Request) {
	id, ok := a.launchID(w, r)
	if !ok {
		return
	}
	var req recordPositionRequest
	if !a.decode(w, r, &req) {
		return
	}

	p, err := a.svc.RecordPosition(r.Context(), id, req.Holder, req.Amount)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, p)
}

func (a *api) handleListPositions(w http.ResponseWriter, r *http.Request) {
	id, ok := a.launchID(w, r)
	if !ok {
		return
	}

	positions, err := a.svc.GetPositionsByLaunch(r.Context(), id)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, positions)
}

func (a *api) handleGetPosition(w http.ResponseWriter, r *http.Request) {
	id, ok := a.launchID(w, r)
	if !ok {
		return
	}

	p, err := a.svc.GetPosition(r.Context(), id, r.PathValue("holder"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, p)
}

type claimRequest struct {
	Holder string `json:"holder"`
}

type claimResponse struct {
	Amount   uint64           `json:"amount"`
	Position *domain.Position `json:"position"`
}

func (a *api) handleClaimRewards(w http.ResponseWriter, r *http.Request) {
	id, ok := a.launchID(w, r)
	if !ok {
		return
	}
	var req claimRequest
	if !a.decode(w, r, &req) {
		return
	}

	amount, p, err := a.svc.ClaimRewards(r.Context(), id, req.Holder)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, claimResponse{Amount: amount, Position: p})
}

func (a *api) handleHolderPositions(w http.ResponseWriter, r *http.Request) {
	positions, err := a.svc.GetPositionsByHolder(r.Context(), r.PathValue("wallet"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, positions)
}

type flagBundlerRequest struct {
	Authority string `json:"authority"`
	Wallet    string `json:"wallet"`
	Evidence  string `json:"evidence"`
}

func (a *api) handleFlagBundler(w http.ResponseWriter, r *http.Request) {
	var req flagBundlerRequest
	if !a.decode(w, r, &req) {
		return
	}

	b, err := a.svc.FlagBundler(r.Context(), req.Authority, req.Wallet, req.Evidence)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusCreated, b)
}

func (a *api) handleListBundlers(w http.ResponseWriter, r *http.Request) {
	bundlers, err := a.svc.GetBundlers(r.Context())
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, bundlers)
}

func (a *api) handleGetBundler(w http.ResponseWriter, r *http.Request) {
	b, err := a.svc.GetBundler(r.Context(), r.PathValue("wallet"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, b)
}

// handleQueryEvents reads the event archive, by type or by time range.
func (a *api) handleQueryEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	if eventType := q.Get("type"); eventType != "" {
		events, err := a.events.GetByType(ctx, eventType)
		if err != nil {
			a.writeError(w, err)
			return
		}
		a.writeJSON(w, http.StatusOK, events)
		return
	}

	start, err1 := strconv.ParseInt(q.Get("start"), 10, 64)
	end, err2 := strconv.ParseInt(q.Get("end"), 10, 64)
	if err1 != nil || err2 != nil {
		a.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "type, or start and end query parameters required"})
		return
	}

	events, err := a.events.GetByTimeRange(ctx, start, end)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, events)
}
