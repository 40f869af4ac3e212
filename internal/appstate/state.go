// Package appstate holds the explorer's application state and the
// transitions applied to it in response to user actions and hub replies.
//
// State is a value. Every transition returns a new State and leaves the
// receiver untouched, so the UI loop can compare or keep old snapshots.
// Requests to the hub are tagged with a Token; a reply carrying a token that
// is no longer current is discarded.
package appstate

import (
	"errors"
	"fmt"
	"slices"

	"github.com/opcua-hub/hubexplorer/pkg/hubapi"
	"github.com/opcua-hub/hubexplorer/pkg/nodetree"
)

// User-facing messages.
const (
	FetchFailedMessage    = "Failed to fetch nodes. Please try again later."
	ToggleFailedMessage   = "Failed to update node."
	TelegrafUpToDate      = "Telegraf config is up to date."
	TelegrafNeedsUpdate   = "Telegraf config requires an update."
	TelegrafUpdatedText   = "Telegraf config updated."
	TelegrafFailedMessage = "Failed to update Telegraf config."
	PendingFailedMessage  = "Failed to fetch pending updates."
	NoPendingUpdatesText  = "No pending updates."
)

// Token identifies one outstanding request. Zero is never issued.
type Token uint64

// Message is the one-line status shown to the user.
type Message struct {
	Text    string
	IsError bool
}

func info(text string) Message    { return Message{Text: text} }
func failure(text string) Message { return Message{Text: text, IsError: true} }

// State is the complete explorer state.
type State struct {
	// Nodes is the current snapshot with visibility applied for Term.
	Nodes    []nodetree.Node
	Expanded nodetree.Expansion
	Term     string

	TelegrafUpToDate bool
	TelegrafKnown    bool

	Message    Message
	FetchError string

	UpdatesRequired []hubapi.UpdateRequired
	ModalOpen       bool

	// Loading is true while a fetch is outstanding.
	Loading bool

	seq           Token
	fetchToken    Token
	pendingToken  Token
	telegrafToken Token
	toggleTokens  map[string]Token

	// confirmed holds history changes accepted by the hub while a fetch is
	// outstanding. The fetch reply may predate them.
	confirmed map[string]bool
}

// New returns an empty state.
func New() State {
	return State{Nodes: []nodetree.Node{}}
}

func (s State) next() (State, Token) {
	s.seq++
	return s, s.seq
}

// BeginFetch marks a fetch of the whole forest as outstanding. Replies to
// any earlier fetch become stale.
func (s State) BeginFetch() (State, Token) {
	s, tok := s.next()
	s.fetchToken = tok
	s.Loading = true
	s.confirmed = nil
	return s, tok
}

// FetchSucceeded installs a freshly fetched forest. The current search term
// is re-applied so a refetch never loses the user's filter.
// History changes confirmed after the fetch began are applied on top.
func (s State) FetchSucceeded(tok Token, resp *hubapi.NodesResponse) State {
	if tok != s.fetchToken {
		return s
	}
	if resp == nil {
		return s.FetchFailed(tok, nil)
	}
	nodes, upToDate := resp.Nodes, resp.TelegrafUpToDate
	for id, enabled := range s.confirmed {
		nodes, _ = nodetree.ApplyFieldUpdate(nodes, id, enabled)
		upToDate = false
	}
	s.fetchToken = 0
	s.Loading = false
	s.confirmed = nil
	s.Nodes = nodetree.ApplySearch(nodes, s.Term)
	s.FetchError = ""
	s.TelegrafUpToDate = upToDate
	s.TelegrafKnown = true
	return s
}

// FetchFailed records a failed fetch. The previous snapshot is kept.
func (s State) FetchFailed(tok Token, _ error) State {
	if tok != s.fetchToken {
		return s
	}
	s.fetchToken = 0
	s.Loading = false
	s.confirmed = nil
	s.FetchError = FetchFailedMessage
	return s
}

// SetTerm changes the search term and re-tags visibility over the whole
// snapshot.
func (s State) SetTerm(term string) State {
	s.Term = term
	s.Nodes = nodetree.ApplySearch(s.Nodes, term)
	return s
}

// ToggleExpanded flips the expansion of one node.
func (s State) ToggleExpanded(id string) State {
	s.Expanded = s.Expanded.Toggle(id)
	return s
}

// Expand marks id expanded.
func (s State) Expand(id string) State {
	s.Expanded = s.Expanded.With(id)
	return s
}

// Collapse marks id collapsed.
func (s State) Collapse(id string) State {
	s.Expanded = s.Expanded.Without(id)
	return s
}

// ExpandAll expands every node that has children.
func (s State) ExpandAll() State {
	var ids []string
	nodetree.Walk(s.Nodes, func(n nodetree.Node, _ int) bool {
		if n.HasChildren() {
			ids = append(ids, n.ID)
		}
		return true
	})
	s.Expanded = s.Expanded.WithAll(ids...)
	return s
}

// ExpandMatches expands every visible node that has a visible child, so
// that all search hits are on screen.
func (s State) ExpandMatches() State {
	var ids []string
	nodetree.Walk(s.Nodes, func(n nodetree.Node, _ int) bool {
		if !n.Visible {
			return true
		}
		for _, c := range n.Children {
			if c.Visible {
				ids = append(ids, n.ID)
				break
			}
		}
		return true
	})
	s.Expanded = s.Expanded.WithAll(ids...)
	return s
}

// CollapseAll collapses every node.
func (s State) CollapseAll() State {
	s.Expanded = nodetree.Expansion{}
	return s
}

// BeginToggle marks a history update for id as outstanding. An earlier
// outstanding update of the same node becomes stale.
func (s State) BeginToggle(id string) (State, Token) {
	s, tok := s.next()
	tokens := make(map[string]Token, len(s.toggleTokens)+1)
	for k, v := range s.toggleTokens {
		tokens[k] = v
	}
	tokens[id] = tok
	s.toggleTokens = tokens
	return s, tok
}

// TogglePending reports whether a history update for id is outstanding.
func (s State) TogglePending(id string) bool {
	_, ok := s.toggleTokens[id]
	return ok
}

func (s State) finishToggle(id string) State {
	tokens := make(map[string]Token, len(s.toggleTokens))
	for k, v := range s.toggleTokens {
		if k != id {
			tokens[k] = v
		}
	}
	s.toggleTokens = tokens
	return s
}

func (s State) toggleCurrent(tok Token, id string) bool {
	cur, ok := s.toggleTokens[id]
	return ok && cur == tok
}

// ToggleSucceeded applies a confirmed history change. The Telegraf
// configuration is known to be stale after any accepted change.
func (s State) ToggleSucceeded(tok Token, id string, enabled bool, serverMessage string) State {
	if !s.toggleCurrent(tok, id) {
		return s
	}
	s = s.finishToggle(id)
	s.TelegrafUpToDate = false
	s.TelegrafKnown = true
	if s.fetchToken != 0 {
		confirmed := make(map[string]bool, len(s.confirmed)+1)
		for k, v := range s.confirmed {
			confirmed[k] = v
		}
		confirmed[id] = enabled
		s.confirmed = confirmed
	}

	nodes, found := nodetree.ApplyFieldUpdate(s.Nodes, id, enabled)
	if !found {
		s.Message = failure(fmt.Sprintf("node %s is no longer in the tree", id))
		return s
	}
	s.Nodes = nodes
	s.Message = info(serverMessage)
	return s
}

// ToggleFailed records a rejected or failed history change. The snapshot is
// not touched.
func (s State) ToggleFailed(tok Token, id string, err error) State {
	if !s.toggleCurrent(tok, id) {
		return s
	}
	s = s.finishToggle(id)
	s.Message = failure(failureText(err, ToggleFailedMessage))
	return s
}

// BeginUpdatesRequired marks a request for the pending-update list as
// outstanding.
func (s State) BeginUpdatesRequired() (State, Token) {
	s, tok := s.next()
	s.pendingToken = tok
	return s, tok
}

// UpdatesRequiredLoaded stores the pending-update list and opens the modal.
func (s State) UpdatesRequiredLoaded(tok Token, list []hubapi.UpdateRequired) State {
	if tok != s.pendingToken {
		return s
	}
	s.pendingToken = 0
	s.UpdatesRequired = slices.Clone(list)
	s.ModalOpen = true
	return s
}

// UpdatesRequiredFailed leaves the modal closed and reports the error.
func (s State) UpdatesRequiredFailed(tok Token, err error) State {
	if tok != s.pendingToken {
		return s
	}
	s.pendingToken = 0
	s.ModalOpen = false
	s.Message = failure(failureText(err, PendingFailedMessage))
	return s
}

// CloseModal dismisses the pending-update modal without applying anything.
func (s State) CloseModal() State {
	s.ModalOpen = false
	return s
}

// BeginTelegrafUpdate marks a Telegraf config regeneration as outstanding.
func (s State) BeginTelegrafUpdate() (State, Token) {
	s, tok := s.next()
	s.telegrafToken = tok
	return s, tok
}

// TelegrafUpdating reports whether a Telegraf update is outstanding.
func (s State) TelegrafUpdating() bool {
	return s.telegrafToken != 0
}

// TelegrafUpdated records a successful regeneration.
func (s State) TelegrafUpdated(tok Token) State {
	if tok != s.telegrafToken {
		return s
	}
	s.telegrafToken = 0
	s.TelegrafUpToDate = true
	s.TelegrafKnown = true
	s.ModalOpen = false
	s.UpdatesRequired = nil
	s.Message = info(TelegrafUpdatedText)
	return s
}

// TelegrafUpdateFailed closes the modal and reports the error. The status
// flag is left as it was.
func (s State) TelegrafUpdateFailed(tok Token, err error) State {
	if tok != s.telegrafToken {
		return s
	}
	s.telegrafToken = 0
	s.ModalOpen = false
	s.Message = failure(failureText(err, TelegrafFailedMessage))
	return s
}

// SetMessage replaces the status message.
func (s State) SetMessage(text string, isError bool) State {
	s.Message = Message{Text: text, IsError: isError}
	return s
}

// ClearMessage removes the status message.
func (s State) ClearMessage() State {
	s.Message = Message{}
	return s
}

// TelegrafStatusText describes the Telegraf config state, or "" before the
// first successful fetch.
func (s State) TelegrafStatusText() string {
	if !s.TelegrafKnown {
		return ""
	}
	return TelegrafStatusText(s.TelegrafUpToDate)
}

// TelegrafStatusText maps the hub's status flag to the status line.
func TelegrafStatusText(upToDate bool) string {
	if upToDate {
		return TelegrafUpToDate
	}
	return TelegrafNeedsUpdate
}

// Rows returns the visible, expanded rows of the current snapshot.
func (s State) Rows() []nodetree.Row {
	return nodetree.Rows(s.Nodes, s.Expanded)
}

// Find looks a node up in the current snapshot.
func (s State) Find(id string) (nodetree.Node, bool) {
	return nodetree.Find(s.Nodes, id)
}

// failureText picks the server's message for rejections and fallback for
// everything else.
func failureText(err error, fallback string) string {
	if errors.Is(err, hubapi.ErrTransport) {
		return fallback
	}
	return hubapi.MessageOf(err, fallback)
}
