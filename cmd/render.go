package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/stella/learning-switch/pkg/scenario"
	"github.com/stella/learning-switch/pkg/switcher"
)

var rule = strings.Repeat("-", 50)

// renderer narrates scenario steps as plain text
type renderer struct {
	out      io.Writer
	numPorts int
	frames   int
}

func newRenderer(out io.Writer, numPorts int) *renderer {
	return &renderer{out: out, numPorts: numPorts}
}

func (r *renderer) printf(format string, args ...interface{}) {
	fmt.Fprintf(r.out, format, args...)
}

func (r *renderer) header(sc *scenario.Scenario, ports, aging int) {
	r.printf("\n=== %s ===\n", sc.Name)
	if sc.Description != "" {
		r.printf("%s\n", sc.Description)
	}
	r.printf("Switch initialized with %d ports\n", ports)
	if aging > 0 {
		r.printf("MAC aging enabled: %d seconds\n", aging)
	} else {
		r.printf("MAC aging disabled\n")
	}
	r.printf("%s\n\n", rule)
}

func (r *renderer) Note(_ int, text string) {
	r.printf("Scenario: %s\n", text)
}

func (r *renderer) Frame(_ int, f scenario.Frame, result switcher.Result) {
	r.frames++
	r.printf("Frame #%d received on Port %d\n", r.frames, f.Port)
	r.printf("  Source MAC: %s\n", f.Src)
	r.printf("  Dest MAC:   %s\n", f.Dst)

	switch result.Event {
	case switcher.EventLearned:
		r.printf("  LEARNING: Added %s -> Port %d\n", f.Src, f.Port)
	case switcher.EventMoved:
		r.printf("  UPDATE: %s moved from Port %d to Port %d\n", f.Src, result.PreviousPort, f.Port)
	case switcher.EventRefreshed:
		r.printf("  REFRESH: %s timestamp updated on Port %d\n", f.Src, f.Port)
	}

	d := result.Decision
	switch d.Action {
	case switcher.ActionForward:
		r.printf("  FORWARDING: Sending to Port %d (Known Unicast)\n", d.Port)
	case switcher.ActionFilter:
		r.printf("  FILTERING: Destination on same port (Port %d) - frame dropped\n", d.Port)
	case switcher.ActionFlood:
		if result.Broadcast {
			r.printf("  BROADCAST: Flooding to all ports except Port %d\n", d.Port)
		} else {
			r.printf("  UNKNOWN UNICAST: Destination %s not in MAC table\n", f.Dst)
			r.printf("    Flooding to all ports except Port %d\n", d.Port)
		}
		r.printf("    Flooding ports: %s\n", joinPorts(d.EgressPorts(r.numPorts)))
	}
	r.printf("\n")
}

func (r *renderer) Advanced(_ int, by, elapsed time.Duration) {
	r.printf("Time advanced by %s (simulated clock at %s)\n\n", by, elapsed)
}

func (r *renderer) Aged(_ int, removed []switcher.AgedEntry) {
	for _, aged := range removed {
		r.printf("AGING OUT: %s (last seen %ds ago)\n", aged.MAC, int64(aged.Age/time.Second))
	}
	if len(removed) > 0 {
		r.printf("Removed %d aged entries from MAC table\n\n", len(removed))
	} else {
		r.printf("No aged entries\n\n")
	}
}

func (r *renderer) Cleared(int) {
	r.printf("MAC table cleared\n\n")
}

func (r *renderer) Dump(_ int, table []switcher.TableEntry) {
	r.printf("\nCurrent MAC Address Table\n%s\n", rule)
	if len(table) == 0 {
		r.printf("  (Empty - no MAC addresses learned yet)\n\n")
		return
	}

	w := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MAC Address\tPort\tAge (seconds)")
	for _, entry := range table {
		fmt.Fprintf(w, "%s\t%d\t%ds\n", entry.MAC, entry.Port, int64(entry.Age/time.Second))
	}
	w.Flush()
	r.printf("\n")
}

func (r *renderer) Stats(_ int, stats switcher.Stats, tableSize int) {
	r.printf("\nSwitch Statistics\n%s\n", rule)
	r.printf("Total Frames Processed:  %d\n", stats.FramesProcessed)
	r.printf("Learning Events:         %d\n", stats.LearningEvents)
	r.printf("Forwarding Events:       %d\n", stats.ForwardingEvents)
	r.printf("Flooding Events:         %d\n", stats.FloodingEvents)
	r.printf("Filtered Frames:         %d\n", stats.FilteredEvents)
	r.printf("MAC Table Size:          %d entries\n", tableSize)
	if stats.FramesProcessed > 0 {
		r.printf("Forwarding Efficiency:   %.1f%%\n", stats.ForwardingRate())
		r.printf("Flooding Rate:           %.1f%%\n", stats.FloodingRate())
	}
	r.printf("\n")
}

func joinPorts(ports []int) string {
	parts := make([]string, len(ports))
	for i, p := range ports {
		parts[i] = strconv.Itoa(p)
	}
	return strings.Join(parts, " ")
}
