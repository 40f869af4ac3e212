// Package hubtest runs an in-memory hub API for tests. It keeps a node
// forest, applies history updates to it, and tracks the pending Telegraf
// changes the way the real hub does.
package hubtest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/opcua-hub/hubexplorer/pkg/hubapi"
	"github.com/opcua-hub/hubexplorer/pkg/nodetree"
)

// Hub is a fake hub API. All methods are safe for concurrent use.
type Hub struct {
	URL string

	mu               sync.Mutex
	nodes            []nodetree.Node
	telegrafUpToDate bool
	pending          []hubapi.UpdateRequired
	rejectHistory    string
	failNodes        bool
	failTelegraf     bool
	historyUpdates   []hubapi.HistoryUpdate
	telegrafCalls    int
}

// New starts a hub serving nodes. The server stops when the test ends.
func New(t testing.TB, nodes []nodetree.Node) *Hub {
	t.Helper()
	h := &Hub{nodes: nodes, telegrafUpToDate: true}
	srv := httptest.NewServer(h.Router())
	t.Cleanup(srv.Close)
	h.URL = srv.URL
	return h
}

// Router returns the hub's routes.
func (h *Hub) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get(hubapi.PathNodes, h.handleNodes)
	r.Get(hubapi.PathUpdatesRequired, h.handlePending)
	r.Post(hubapi.PathNodeHistory, h.handleHistory)
	r.Post(hubapi.PathTelegrafConfig, h.handleTelegraf)
	return r
}

// SetTelegrafUpToDate sets the flag returned with the forest.
func (h *Hub) SetTelegrafUpToDate(v bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.telegrafUpToDate = v
}

// SetPending replaces the pending-update list.
func (h *Hub) SetPending(list []hubapi.UpdateRequired) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pending = slices.Clone(list)
}

// RejectHistory makes history updates answer with a non-success status and
// msg. An empty msg restores normal behaviour.
func (h *Hub) RejectHistory(msg string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rejectHistory = msg
}

// FailNodes makes GET /api/nodes answer 500.
func (h *Hub) FailNodes(fail bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.failNodes = fail
}

// FailTelegraf makes Telegraf updates answer 500.
func (h *Hub) FailTelegraf(fail bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.failTelegraf = fail
}

// HistoryUpdates returns every history update received, in order.
func (h *Hub) HistoryUpdates() []hubapi.HistoryUpdate {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.historyUpdates)
}

// TelegrafCalls counts Telegraf update requests.
func (h *Hub) TelegrafCalls() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.telegrafCalls
}

// Node looks a node up in the hub's forest.
func (h *Hub) Node(id string) (nodetree.Node, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return nodetree.Find(h.nodes, id)
}

func (h *Hub) handleNodes(w http.ResponseWriter, _ *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.failNodes {
		http.Error(w, "database unavailable", http.StatusInternalServerError)
		return
	}
	writeJSON(w, hubapi.NodesResponse{Nodes: h.nodes, TelegrafUpToDate: h.telegrafUpToDate})
}

func (h *Hub) handlePending(w http.ResponseWriter, _ *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	list := h.pending
	if list == nil {
		list = []hubapi.UpdateRequired{}
	}
	writeJSON(w, list)
}

func (h *Hub) handleHistory(w http.ResponseWriter, r *http.Request) {
	var upd hubapi.HistoryUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.historyUpdates = append(h.historyUpdates, upd)

	if h.rejectHistory != "" {
		writeJSON(w, hubapi.StatusResponse{Status: "error", Message: h.rejectHistory})
		return
	}

	nodes, found := nodetree.ApplyFieldUpdate(h.nodes, upd.NodeID, upd.HistoryEnabled)
	if !found {
		http.Error(w, fmt.Sprintf("node %s not found", upd.NodeID), http.StatusNotFound)
		return
	}
	h.nodes = nodes
	h.telegrafUpToDate = false

	action := "Removed"
	verb := "disabled"
	if upd.HistoryEnabled {
		action = "Added"
		verb = "enabled"
	}
	h.pending = slices.DeleteFunc(h.pending, func(u hubapi.UpdateRequired) bool { return u.NodeID == upd.NodeID })
	h.pending = append(h.pending, hubapi.UpdateRequired{NodeID: upd.NodeID, DBActionRequired: action})

	writeJSON(w, hubapi.StatusResponse{
		Status:  hubapi.StatusSuccess,
		Message: fmt.Sprintf("History %s for %s", verb, upd.NodePath),
	})
}

func (h *Hub) handleTelegraf(w http.ResponseWriter, _ *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.telegrafCalls++

	if h.failTelegraf {
		http.Error(w, "telegraf restart failed", http.StatusInternalServerError)
		return
	}
	h.pending = nil
	h.telegrafUpToDate = true
	writeJSON(w, hubapi.StatusResponse{Status: hubapi.StatusSuccess, Message: "Telegraf config updated"})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
