package node

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/stella/learning-switch/pkg/switcher"
)

// NodeState represents the current state of a node
type NodeState int

const (
	// NodeStateStopped means the node is not running
	NodeStateStopped NodeState = iota
	// NodeStateStarting means the node is building its switch
	NodeStateStarting
	// NodeStateRunning means the node accepts frames
	NodeStateRunning
	// NodeStateStopping means the node is in the process of shutting down
	NodeStateStopping
	// NodeStateError means the node encountered an error
	NodeStateError
)

// String returns the string representation of the node state
func (s NodeState) String() string {
	switch s {
	case NodeStateStopped:
		return "STOPPED"
	case NodeStateStarting:
		return "STARTING"
	case NodeStateRunning:
		return "RUNNING"
	case NodeStateStopping:
		return "STOPPING"
	case NodeStateError:
		return "ERROR"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", s)
	}
}

// ErrNotRunning is returned when a stopped node is asked to do work
var ErrNotRunning = errors.New("node is not running")

// Node hosts one simulated learning switch together with its clock.
// Every Start builds a fresh switch, so each run begins with an empty table
// and zeroed counters.
type Node struct {
	// ID is a unique identifier for the node
	ID string

	// State represents the current state of the node
	State NodeState

	config *Config
	clock  *SimClock
	logger *logrus.Entry
	sw     *switcher.Switch

	// mu protects concurrent access to the node
	mu sync.RWMutex

	// err holds the last error encountered by the node
	err error
}

// NewNode creates a new node with the given configuration
func NewNode(id string, config *Config, logger logrus.FieldLogger) (*Node, error) {
	if config == nil {
		return nil, errors.New("config cannot be nil")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if id == "" {
		id = "switch"
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Node{
		ID:     id,
		State:  NodeStateStopped,
		config: config,
		clock:  NewSimClock(),
		logger: ComponentLogger(logger, "node").WithField("node", id),
	}, nil
}

// GetState returns the current state of the node
func (n *Node) GetState() NodeState {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.State
}

// SetState sets the state of the node
func (n *Node) SetState(state NodeState) {
	n.mu.Lock()
	n.State = state
	n.mu.Unlock()
}

// GetError returns the last error encountered by the node
func (n *Node) GetError() error {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.err
}

// SetError sets the error state for the node
func (n *Node) SetError(err error) {
	n.mu.Lock()
	n.err = err
	n.State = NodeStateError
	n.mu.Unlock()
}

// IsRunning returns true if the node is in the RUNNING state
func (n *Node) IsRunning() bool {
	return n.GetState() == NodeStateRunning
}

// IsStopped returns true if the node is in the STOPPED state
func (n *Node) IsStopped() bool {
	return n.GetState() == NodeStateStopped
}

// Config returns the node configuration
func (n *Node) Config() *Config {
	return n.config
}

// Clock returns the simulated clock the switch is stamped with
func (n *Node) Clock() *SimClock {
	return n.clock
}

// Switch returns the running switch
func (n *Node) Switch() (*switcher.Switch, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if n.State != NodeStateRunning || n.sw == nil {
		return nil, ErrNotRunning
	}
	return n.sw, nil
}
