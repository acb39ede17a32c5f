package switcher

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/stella/learning-switch/pkg/address"
)

var (
	// ErrInvalidPort is returned when an ingress port is outside [1, numPorts]
	ErrInvalidPort = errors.New("invalid port")
	// ErrInvalidAddress is returned when a frame carries a malformed MAC address
	ErrInvalidAddress = errors.New("invalid address")
	// ErrInvalidConfig is returned by NewSwitch for a bad port count or aging timeout
	ErrInvalidConfig = errors.New("invalid switch configuration")
)

// Stats holds the switch counters. Counters only ever grow.
type Stats struct {
	FramesProcessed  uint64
	LearningEvents   uint64
	ForwardingEvents uint64
	FloodingEvents   uint64
	FilteredEvents   uint64
}

// ForwardingRate returns known-unicast forwards as a percentage of processed frames
func (s Stats) ForwardingRate() float64 {
	if s.FramesProcessed == 0 {
		return 0
	}
	return 100 * float64(s.ForwardingEvents) / float64(s.FramesProcessed)
}

// FloodingRate returns floods as a percentage of processed frames
func (s Stats) FloodingRate() float64 {
	if s.FramesProcessed == 0 {
		return 0
	}
	return 100 * float64(s.FloodingEvents) / float64(s.FramesProcessed)
}

// Result is what ProcessFrame reports back to the caller
type Result struct {
	// Event is what the learning step did with the source address
	Event LearnEvent
	// PreviousPort is the port the source was known on before an EventMoved
	PreviousPort int
	// Decision is the forwarding decision
	Decision Decision
	// Broadcast is set when a flood was caused by the broadcast address
	// rather than an unknown unicast destination
	Broadcast bool
}

// TableEntry is one row of a MAC table snapshot
type TableEntry struct {
	MAC  address.MAC
	Port int
	Age  time.Duration
}

// Option configures a Switch
type Option func(*Switch)

// WithClock sets the time source used to stamp learned entries
func WithClock(now func() time.Time) Option {
	return func(s *Switch) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger used for per-frame debug records
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Switch) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Switch is the forwarding engine of a learning switch.
// Each frame goes through a learning step followed by a forwarding step.
type Switch struct {
	numPorts     int
	agingTimeout time.Duration

	macTable *MACTable
	stats    Stats

	now    func() time.Time
	logger logrus.FieldLogger

	// processFrame is a check-then-insert, so every operation takes the lock
	mutex sync.Mutex
}

// NewSwitch creates a switch with numPorts ports and the given aging timeout
// in seconds. An aging timeout of 0 disables aging.
func NewSwitch(numPorts int, agingTimeoutSeconds int, opts ...Option) (*Switch, error) {
	if numPorts <= 0 {
		return nil, fmt.Errorf("%w: port count must be positive, got %d", ErrInvalidConfig, numPorts)
	}
	if agingTimeoutSeconds < 0 {
		return nil, fmt.Errorf("%w: aging timeout must not be negative, got %d", ErrInvalidConfig, agingTimeoutSeconds)
	}

	discard := logrus.New()
	discard.SetOutput(io.Discard)

	s := &Switch{
		numPorts:     numPorts,
		agingTimeout: time.Duration(agingTimeoutSeconds) * time.Second,
		macTable:     NewMACTable(),
		now:          time.Now,
		logger:       discard,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.logger.WithFields(logrus.Fields{
		"ports":         numPorts,
		"aging_timeout": s.agingTimeout,
	}).Debug("switch initialized")

	return s, nil
}

// NumPorts returns the number of ports
func (s *Switch) NumPorts() int {
	return s.numPorts
}

// AgingTimeout returns the aging timeout; zero means aging is disabled
func (s *Switch) AgingTimeout() time.Duration {
	return s.agingTimeout
}

// ProcessFrame parses the addresses and runs ProcessMAC.
// Malformed addresses and out of range ports are rejected before any state changes.
func (s *Switch) ProcessFrame(sourceMAC, destMAC string, ingressPort int) (Result, error) {
	src, err := address.ParseMAC(sourceMAC)
	if err != nil {
		return Result{}, fmt.Errorf("%w: source: %w", ErrInvalidAddress, err)
	}
	dst, err := address.ParseMAC(destMAC)
	if err != nil {
		return Result{}, fmt.Errorf("%w: destination: %w", ErrInvalidAddress, err)
	}
	return s.ProcessMAC(src, dst, ingressPort)
}

// ProcessMAC learns the source address and decides where the frame goes
func (s *Switch) ProcessMAC(src, dst address.MAC, ingressPort int) (Result, error) {
	if err := validatePort(ingressPort, s.numPorts); err != nil {
		return Result{}, err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.stats.FramesProcessed++

	var result Result

	// 学习阶段
	result.Event, result.PreviousPort = s.macTable.Learn(src, ingressPort, s.now())
	if result.Event != EventRefreshed {
		s.stats.LearningEvents++
	}

	// 转发决策
	switch {
	case dst.IsBroadcast():
		result.Decision = Flood(ingressPort)
		result.Broadcast = true
		s.stats.FloodingEvents++
	default:
		entry, known := s.macTable.Lookup(dst)
		switch {
		case !known:
			result.Decision = Flood(ingressPort)
			s.stats.FloodingEvents++
		case entry.Port == ingressPort:
			result.Decision = Filter(ingressPort)
			s.stats.FilteredEvents++
		default:
			result.Decision = Forward(entry.Port)
			s.stats.ForwardingEvents++
		}
	}

	s.logger.WithFields(logrus.Fields{
		"src":      src,
		"dst":      dst,
		"in_port":  ingressPort,
		"event":    result.Event.String(),
		"decision": result.Decision.String(),
	}).Debug("frame processed")

	return result, nil
}

// CleanupTable removes entries that have not been seen for longer than the
// aging timeout and returns them sorted by MAC. It does nothing when aging is disabled.
func (s *Switch) CleanupTable(now time.Time) []AgedEntry {
	if s.agingTimeout <= 0 {
		return nil
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	removed := s.macTable.Age(now, s.agingTimeout)
	for _, aged := range removed {
		s.logger.WithFields(logrus.Fields{
			"mac":  aged.MAC,
			"port": aged.Port,
			"age":  aged.Age,
		}).Debug("entry aged out")
	}
	return removed
}

// ClearMACTable empties the MAC table. Counters are left untouched.
func (s *Switch) ClearMACTable() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.macTable.Clear()
	s.logger.Debug("MAC table cleared")
}

// IsLearned reports whether mac is in the table. Malformed input is never learned.
func (s *Switch) IsLearned(mac string) bool {
	parsed, err := address.ParseMAC(mac)
	if err != nil {
		return false
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.macTable.Contains(parsed)
}

// Lookup returns the port mac was learned on
func (s *Switch) Lookup(mac address.MAC) (int, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	entry, ok := s.macTable.Lookup(mac)
	return entry.Port, ok
}

// TableSize returns the number of learned addresses
func (s *Switch) TableSize() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.macTable.Len()
}

// Table returns a snapshot of the MAC table sorted by address,
// with ages measured against the switch clock
func (s *Switch) Table() []TableEntry {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	now := s.now()
	entries := s.macTable.Entries()
	table := make([]TableEntry, 0, len(entries))
	for _, entry := range entries {
		table = append(table, TableEntry{
			MAC:  entry.MAC,
			Port: entry.Port,
			Age:  entry.Age(now),
		})
	}
	return table
}

// Oldest returns the least recently seen table entry
func (s *Switch) Oldest() (TableEntry, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	entry, ok := s.macTable.Oldest()
	if !ok {
		return TableEntry{}, false
	}
	return TableEntry{MAC: entry.MAC, Port: entry.Port, Age: entry.Age(s.now())}, true
}

// Stats returns a copy of the counters
func (s *Switch) Stats() Stats {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.stats
}
