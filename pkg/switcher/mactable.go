package switcher

import (
	"sort"
	"time"

	"github.com/stella/learning-switch/pkg/address"
)

// LearnEvent 描述学习阶段对源MAC做了什么
type LearnEvent int

const (
	// EventLearned means the source MAC was not in the table and has been added
	EventLearned LearnEvent = iota
	// EventMoved means the source MAC was known on another port and has been relearned
	EventMoved
	// EventRefreshed means the source MAC was seen again on the same port
	EventRefreshed
)

// String returns the string representation of the learn event
func (e LearnEvent) String() string {
	switch e {
	case EventLearned:
		return "LEARNED"
	case EventMoved:
		return "MOVED"
	case EventRefreshed:
		return "REFRESHED"
	default:
		return "UNKNOWN"
	}
}

// MAC表项结构
type MACEntry struct {
	MAC      address.MAC
	Port     int
	LastSeen time.Time
}

// Age returns how long ago the entry was last seen
func (e MACEntry) Age(now time.Time) time.Duration {
	return now.Sub(e.LastSeen)
}

// AgedEntry is an entry removed by an aging sweep
type AgedEntry struct {
	MAC  address.MAC
	Port int
	Age  time.Duration
}

// MAC表结构
//
// MACTable does no locking of its own; the owning Switch serializes access.
type MACTable struct {
	entries map[address.MAC]*MACEntry
}

// 创建新的MAC表
func NewMACTable() *MACTable {
	return &MACTable{
		entries: make(map[address.MAC]*MACEntry),
	}
}

// Learn records that mac was seen on port at now.
// previousPort is only meaningful for EventMoved.
func (m *MACTable) Learn(mac address.MAC, port int, now time.Time) (event LearnEvent, previousPort int) {
	entry, exists := m.entries[mac]
	if !exists {
		m.entries[mac] = &MACEntry{
			MAC:      mac,
			Port:     port,
			LastSeen: now,
		}
		return EventLearned, 0
	}

	if entry.Port != port {
		previousPort = entry.Port
		entry.Port = port
		entry.LastSeen = now
		return EventMoved, previousPort
	}

	// 同一端口，只刷新时间
	entry.LastSeen = now
	return EventRefreshed, 0
}

// Lookup returns a copy of the entry for mac
func (m *MACTable) Lookup(mac address.MAC) (MACEntry, bool) {
	entry, exists := m.entries[mac]
	if !exists {
		return MACEntry{}, false
	}
	return *entry, true
}

// Contains reports whether mac has an entry
func (m *MACTable) Contains(mac address.MAC) bool {
	_, exists := m.entries[mac]
	return exists
}

// Age removes every entry last seen more than timeout before now.
// A timeout of zero or less disables aging.
func (m *MACTable) Age(now time.Time, timeout time.Duration) []AgedEntry {
	if timeout <= 0 {
		return nil
	}

	var removed []AgedEntry
	for mac, entry := range m.entries {
		age := entry.Age(now)
		if age > timeout {
			removed = append(removed, AgedEntry{
				MAC:  mac,
				Port: entry.Port,
				Age:  age,
			})
			delete(m.entries, mac)
		}
	}

	sort.Slice(removed, func(i, j int) bool {
		return removed[i].MAC.Compare(removed[j].MAC) < 0
	})
	return removed
}

// Oldest returns the least recently seen entry
func (m *MACTable) Oldest() (MACEntry, bool) {
	var oldest *MACEntry
	for _, entry := range m.entries {
		if oldest == nil || entry.LastSeen.Before(oldest.LastSeen) ||
			(entry.LastSeen.Equal(oldest.LastSeen) && entry.MAC.Compare(oldest.MAC) < 0) {
			oldest = entry
		}
	}
	if oldest == nil {
		return MACEntry{}, false
	}
	return *oldest, true
}

// Clear removes every entry
func (m *MACTable) Clear() {
	m.entries = make(map[address.MAC]*MACEntry)
}

// Len returns the number of entries
func (m *MACTable) Len() int {
	return len(m.entries)
}

// Entries returns copies of all entries sorted by MAC address
func (m *MACTable) Entries() []MACEntry {
	entries := make([]MACEntry, 0, len(m.entries))
	for _, entry := range m.entries {
		entries = append(entries, *entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].MAC.Compare(entries[j].MAC) < 0
	})
	return entries
}
