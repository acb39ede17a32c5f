package scenario

import (
	"time"

	"github.com/stella/learning-switch/pkg/address"
)

var (
	macPCA       = address.MustParseMAC("AA:AA:AA:AA:AA:AA")
	macPCB       = address.MustParseMAC("BB:BB:BB:BB:BB:BB")
	macPCC       = address.MustParseMAC("CC:CC:CC:CC:CC:CC")
	macPCD       = address.MustParseMAC("DD:DD:DD:DD:DD:DD")
	macLaptop    = address.MustParseMAC("AA:BB:CC:DD:EE:FF")
	macServer    = address.MustParseMAC("11:22:33:44:55:66")
	macBroadcast = address.Broadcast
)

func intPtr(v int) *int { return &v }

func frame(src, dst address.MAC, port int, note string) Step {
	return Step{Note: note, Frame: &Frame{Src: src, Dst: dst, Port: port}}
}

// Builtin returns a fresh copy of the named built-in scenario
func Builtin(name string) (*Scenario, bool) {
	build, ok := builtins[name]
	if !ok {
		return nil, false
	}
	return build(), true
}

// BuiltinNames returns the built-in scenario names in presentation order
func BuiltinNames() []string {
	return append([]string(nil), builtinNames...)
}

var builtinNames = []string{"startup", "aging", "mac-move", "filter"}

var builtins = map[string]func() *Scenario{
	"startup":  startupScenario,
	"aging":    agingScenario,
	"mac-move": macMoveScenario,
	"filter":   filterScenario,
}

// startupScenario: PC-A..PC-D on ports 1..4 talk for the first time
func startupScenario() *Scenario {
	return &Scenario{
		Name:         "startup",
		Description:  "A fresh network where devices communicate for the first time",
		Ports:        8,
		AgingTimeout: intPtr(300),
		Steps: []Step{
			{Note: "Phase 1: initial discovery"},
			frame(macPCA, macBroadcast, 1, "PC-A broadcasts ARP request 'Who has PC-B?'"),
			frame(macPCB, macPCA, 2, "PC-B responds to PC-A's ARP"),
			frame(macPCA, macPCC, 1, "PC-A pings PC-C (destination unknown)"),
			frame(macPCC, macPCA, 3, "PC-C responds to PC-A's ping"),
			{Dump: true},

			{Note: "Phase 2: known unicast forwarding"},
			frame(macPCA, macPCB, 1, "PC-A sends data to PC-B"),
			frame(macPCB, macPCC, 2, "PC-B sends data to PC-C"),
			frame(macPCC, macPCA, 3, "PC-C sends data to PC-A"),

			{Note: "Phase 3: a new device joins"},
			frame(macPCD, macBroadcast, 4, "PC-D joins and broadcasts"),
			frame(macPCA, macPCD, 1, "PC-A reaches PC-D, learned from its broadcast"),
			frame(macPCD, macPCA, 4, "PC-D responds to PC-A"),
			frame(macPCA, macPCD, 1, "PC-A sends to PC-D again"),

			{Note: "Phase 4: broadcast traffic"},
			frame(macPCB, macBroadcast, 2, "PC-B sends a network-wide broadcast"),
			{Dump: true},
			{Stats: true},
		},
	}
}

// agingScenario shows entries timing out after a short aging timeout
func agingScenario() *Scenario {
	return &Scenario{
		Name:         "aging",
		Description:  "MAC entries age out after 5 seconds without traffic",
		Ports:        4,
		AgingTimeout: intPtr(5),
		Steps: []Step{
			frame(macPCA, macPCB, 1, "PC-A sends to PC-B"),
			frame(macPCB, macPCA, 2, "PC-B replies to PC-A"),
			{Dump: true},
			{Note: "Waiting 6 seconds for entries to age", Advance: Duration(6 * time.Second)},
			{Cleanup: true},
			{Dump: true},
			frame(macPCA, macPCB, 1, "New traffic relearns PC-A"),
			{Dump: true},
		},
	}
}

// macMoveScenario shows a laptop moving from port 1 to port 3
func macMoveScenario() *Scenario {
	return &Scenario{
		Name:         "mac-move",
		Description:  "A laptop is unplugged and reconnected on another port",
		Ports:        4,
		AgingTimeout: intPtr(0),
		Steps: []Step{
			frame(macLaptop, macServer, 1, "Laptop on port 1 contacts the server"),
			frame(macServer, macLaptop, 2, "Server replies"),
			{Dump: true},
			{Note: "Laptop physically moved to port 3"},
			frame(macLaptop, macServer, 3, "Laptop sends from its new port"),
			frame(macServer, macLaptop, 2, "Server reply now goes to port 3"),
			{Dump: true},
			{Stats: true},
		},
	}
}

// filterScenario shows two hosts behind the same port (e.g. an unmanaged hub)
func filterScenario() *Scenario {
	return &Scenario{
		Name:         "filter",
		Description:  "Frames between hosts on the same segment are filtered",
		Ports:        4,
		AgingTimeout: intPtr(300),
		Steps: []Step{
			frame(macPCA, macBroadcast, 1, "PC-A announces itself through the hub on port 1"),
			frame(macPCB, macBroadcast, 1, "PC-B announces itself through the same hub"),
			frame(macPCA, macPCB, 1, "PC-A talks to PC-B on the same segment"),
			frame(macPCC, macPCA, 3, "PC-C on port 3 reaches PC-A"),
			{Stats: true},
		},
	}
}
