package templates

import (
	"fmt"
	"sync"
)

// Registry manages the available tool sets
type Registry struct {
	tools map[string]*ToolSet
	order []string
	mutex sync.RWMutex
}

// NewRegistry creates a new tool set registry
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]*ToolSet),
	}
}

// NewRegistryFromManifest registers every tool set of m in manifest order.
func NewRegistryFromManifest(m *Manifest) (*Registry, error) {
	r := NewRegistry()
	for _, t := range m.Tools {
		if err := r.Register(t); err != nil {
			return nil, fmt.Errorf("failed to register tool %s: %w", t.Name, err)
		}
	}
	return r, nil
}

// Register registers a tool set in the registry
func (r *Registry) Register(tool *ToolSet) error {
	if err := tool.Validate(); err != nil {
		return fmt.Errorf("invalid tool set: %w", err)
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.tools[tool.Name]; exists {
		return fmt.Errorf("tool %s already registered", tool.Name)
	}

	r.tools[tool.Name] = tool
	r.order = append(r.order, tool.Name)
	return nil
}

// Get retrieves a tool set by name
func (r *Registry) Get(name string) (*ToolSet, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	tool, exists := r.tools[name]
	if !exists {
		return nil, fmt.Errorf("tool %s not found", name)
	}

	return tool, nil
}

// List returns all registered tool sets in registration order
func (r *Registry) List() []*ToolSet {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	tools := make([]*ToolSet, 0, len(r.order))
	for _, name := range r.order {
		tools = append(tools, r.tools[name])
	}

	return tools
}

// Names returns the registered tool names in registration order
func (r *Registry) Names() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Exists checks if a tool set exists
func (r *Registry) Exists(name string) bool {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	_, exists := r.tools[name]
	return exists
}

// Select returns the tool sets named by selector: one tool, or all of them
// for "" and "all".
func (r *Registry) Select(selector string) ([]*ToolSet, error) {
	if selector == "" || selector == "all" {
		return r.List(), nil
	}
	tool, err := r.Get(selector)
	if err != nil {
		return nil, err
	}
	return []*ToolSet{tool}, nil
}
