package hubapi

import "github.com/opcua-hub/hubexplorer/pkg/nodetree"

// NodesResponse is the body of GET /api/nodes.
type NodesResponse struct {
	Nodes            []nodetree.Node `json:"nodes"`
	TelegrafUpToDate bool            `json:"telegrafUpToDate"`
}

// StatusSuccess is the only status value the hub uses for an accepted change.
const StatusSuccess = "success"

// StatusResponse is the body the hub returns for mutations.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// OK reports whether the hub accepted the change.
func (s StatusResponse) OK() bool {
	return s.Status == StatusSuccess
}

// HistoryUpdate is the body of POST /api/update-node-history.
type HistoryUpdate struct {
	NodeID         string `json:"nodeID"`
	HistoryEnabled bool   `json:"historyEnabled"`
	NodePath       string `json:"nodePath"`
}

// Action is the database action the hub will perform for a node when the
// Telegraf configuration is next regenerated.
type Action int

const (
	ActionUnknown Action = iota
	ActionNone
	ActionAdded
	ActionRemoved
	ActionEnabledNoChange
	ActionDisabledNoChange
)

var actionNames = map[string]Action{
	"No Action":                  ActionNone,
	"Added":                      ActionAdded,
	"Removed":                    ActionRemoved,
	"History Enabled No Change":  ActionEnabledNoChange,
	"History Disabled No Change": ActionDisabledNoChange,
}

// ParseAction maps the hub's action label to an Action.
func ParseAction(s string) Action {
	if a, ok := actionNames[s]; ok {
		return a
	}
	return ActionUnknown
}

func (a Action) String() string {
	for name, v := range actionNames {
		if v == a {
			return name
		}
	}
	return "Unknown"
}

// Pending reports whether the action changes what Telegraf collects.
func (a Action) Pending() bool {
	return a == ActionAdded || a == ActionRemoved
}

// UpdateRequired is one entry of GET /api/updated-required.
type UpdateRequired struct {
	NodeID           string `json:"nodeID"`
	DBActionRequired string `json:"dbActionRequired"`
}

// Action parses DBActionRequired.
func (u UpdateRequired) Action() Action {
	return ParseAction(u.DBActionRequired)
}
