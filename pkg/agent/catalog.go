package agent

import (
	"fmt"
	"strings"
	"sync"
)

type ToolCatalog struct {
	tools map[string]Tool
	order []string
	mtx   sync.RWMutex
}

func NewToolCatalog(tools ...Tool) (*ToolCatalog, error) {
	c := &ToolCatalog{tools: make(map[string]Tool)}
	for _, t := range tools {
		if err := c.Register(t); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *ToolCatalog) Register(t Tool) error {
	if t == nil {
		return fmt.Errorf("tool is nil")
	}

	c.mtx.Lock()
	defer c.mtx.Unlock()

	key := normalizeName(t.Spec().Name)
	if len(key) == 0 {
		return fmt.Errorf("tool name is required")
	}
	if _, ok := c.tools[key]; ok {
		return fmt.Errorf("tool %s already registered", key)
	}

	c.tools[key] = t
	c.order = append(c.order, key)
	return nil
}

// Specs lists the registered tools in registration order.
func (c *ToolCatalog) Specs() []ToolSpec {
	c.mtx.RLock()
	defer c.mtx.RUnlock()

	specs := make([]ToolSpec, 0, len(c.order))
	for _, key := range c.order {
		specs = append(specs, c.tools[key].Spec())
	}
	return specs
}

func (c *ToolCatalog) Get(name string) (Tool, bool) {
	c.mtx.RLock()
	defer c.mtx.RUnlock()

	t, ok := c.tools[normalizeName(name)]
	return t, ok
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
