package hubtest

import "github.com/opcua-hub/hubexplorer/pkg/nodetree"

// Node IDs in SampleForest.
const (
	ObjectsID     = "i=85"
	BoilerID      = "ns=2;s=Boiler"
	BoilerTempID  = "ns=2;s=Boiler.Temperature"
	BoilerPressID = "ns=2;s=Boiler.Pressure"
	PumpID        = "ns=2;s=Pump"
	PumpSpeedID   = "ns=2;s=Pump.Speed"
	ServerID      = "i=2253"
)

// SampleForest returns a small plant: a boiler with two sensors, a pump
// with one, and the server object.
func SampleForest() []nodetree.Node {
	variable := func(id, parent, name, path, dataType string, history bool) nodetree.Node {
		return nodetree.Node{
			ID: id, ParentID: parent, DisplayName: name, Path: path,
			Class: nodetree.ClassVariable, NodeClassRaw: nodetree.VariableClassName,
			DataType: dataType, HistoryEnabled: history, Writable: true,
			LastUpdated: "2024-05-01T12:00:00Z",
			Children:    []nodetree.Node{},
		}
	}
	object := func(id, parent, name, path string, children ...nodetree.Node) nodetree.Node {
		if children == nil {
			children = []nodetree.Node{}
		}
		return nodetree.Node{
			ID: id, ParentID: parent, DisplayName: name, Path: path,
			NodeClassRaw: "NodeClassObject", Children: children,
		}
	}

	return []nodetree.Node{
		object(ObjectsID, "", "Objects", "Objects",
			object(BoilerID, ObjectsID, "Boiler", "Objects/Boiler",
				variable(BoilerTempID, BoilerID, "Temperature", "Objects/Boiler/Temperature", "Double", true),
				variable(BoilerPressID, BoilerID, "Pressure", "Objects/Boiler/Pressure", "Double", false),
			),
			object(PumpID, ObjectsID, "Pump", "Objects/Pump",
				variable(PumpSpeedID, PumpID, "Speed", "Objects/Pump/Speed", "Float", false),
			),
		),
		object(ServerID, "", "Server", "Server"),
	}
}
