package bot

import (
	"fmt"
	"sort"
)

// Registry maps command names to their descriptors. It is built once at
// startup and only read afterwards.
type Registry struct {
	commands map[string]*BotCommand
}

// NewRegistry collects the commands of every module. Command names must be
// unique across all modules.
func NewRegistry(modules ...*Module) (*Registry, error) {
	r := &Registry{commands: make(map[string]*BotCommand)}

	for _, m := range modules {
		for i := range m.Commands {
			cmd := m.Commands[i]
			cmd.Module = m
			if cmd.Name == "" {
				return nil, fmt.Errorf("module %q has a command with no name", m.Name)
			}
			if cmd.Handler == nil {
				return nil, fmt.Errorf("command %q from module %q has no handler", cmd.Name, m.Name)
			}
			if prev, exists := r.commands[cmd.Name]; exists {
				return nil, fmt.Errorf("command %q from module %q already registered by module %q",
					cmd.Name, m.Name, prev.moduleName())
			}
			r.commands[cmd.Name] = &cmd
		}
	}

	return r, nil
}

// Lookup returns the command registered under name
func (r *Registry) Lookup(name string) (*BotCommand, bool) {
	cmd, ok := r.commands[name]
	return cmd, ok
}

// Names returns all registered command names, sorted
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered commands
func (r *Registry) Len() int {
	return len(r.commands)
}
