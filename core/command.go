package core

import (
	"context"
	"sync"
)

// CommandHandler executes one shell command and returns the text to write
// back to the peer. Handlers that stream their own output return "".
type CommandHandler func(ctx context.Context, sh *Shell) (string, error)

// Command represents a shell command
type Command struct {
	ID      uint16
	Name    string
	Help    string
	Handler CommandHandler
}

// CommandRegistry maps exact command lines to handlers
type CommandRegistry struct {
	mu       sync.RWMutex
	commands map[uint16]*Command
	nameToID map[string]uint16
	nextID   uint16
	usage    string // Help listing, rebuilt on every registration
}

// NewCommandRegistry creates a new command registry
func NewCommandRegistry() *CommandRegistry {
	return &CommandRegistry{
		commands: make(map[uint16]*Command),
		nameToID: make(map[string]uint16),
		nextID:   0,
	}
}

// Register adds a command to the registry. Registering a name twice keeps
// the first handler and returns its ID.
func (r *CommandRegistry) Register(name string, help string, handler CommandHandler) uint16 {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Check if already registered
	if id, exists := r.nameToID[name]; exists {
		return id
	}

	id := r.nextID
	r.nextID++

	r.commands[id] = &Command{
		ID:      id,
		Name:    name,
		Help:    help,
		Handler: handler,
	}
	r.nameToID[name] = id

	r.rebuildUsage()

	return id
}

// GetCommand retrieves a command by ID
func (r *CommandRegistry) GetCommand(id uint16) (*Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.commands[id]
	return cmd, ok
}

// Lookup finds a command by its exact name.
func (r *CommandRegistry) Lookup(name string) (*Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.nameToID[name]
	if !ok {
		return nil, false
	}
	return r.commands[id], true
}

// Count returns the number of registered commands
func (r *CommandRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.commands)
}

// Usage returns the help listing in registration order.
func (r *CommandRegistry) Usage() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.usage
}

// rebuildUsage rebuilds the help listing
// Must be called with lock held
func (r *CommandRegistry) rebuildUsage() {
	const column = 12

	usage := HelpHeader
	for i := uint16(0); i < r.nextID; i++ {
		cmd, ok := r.commands[i]
		if !ok {
			continue
		}
		line := "  " + cmd.Name
		for len(line) < column+2 {
			line += " "
		}
		usage += line + "- " + cmd.Help + "\r\n"
	}
	r.usage = usage
}
