package strata

// CompositeConfiguration combines several configurations into one view.
// Lookups walk the children in registration order and the first
// configuration containing the key wins. Writes land in a dedicated
// in-memory configuration that is consulted before everything else.
type CompositeConfiguration struct {
	getters
	events EventSource

	children []Configuration
	inMemory Configuration
	interp   *Interpolator
}

var _ Configuration = (*CompositeConfiguration)(nil)

// NewCompositeConfiguration creates a composite over the given
// configurations. The internal in-memory configuration is always first.
func NewCompositeConfiguration(configurations ...Configuration) *CompositeConfiguration {
	c := &CompositeConfiguration{
		inMemory: NewBaseConfiguration(),
		interp:   NewInterpolator(),
	}
	c.getters.owner = c
	c.interp.setConfig(c)
	c.children = append(c.children, c.inMemory)
	for _, configuration := range configurations {
		c.AddConfiguration(configuration)
	}
	return c
}

// AddConfiguration appends a configuration to the lookup chain
func (c *CompositeConfiguration) AddConfiguration(configuration Configuration) {
	c.children = append(c.children, configuration)
}

// AddConfigurationFirst inserts a configuration right after the in-memory
// store, giving it precedence over previously added children
func (c *CompositeConfiguration) AddConfigurationFirst(configuration Configuration) {
	rest := make([]Configuration, 0, len(c.children)+1)
	rest = append(rest, c.children[0], configuration)
	c.children = append(rest, c.children[1:]...)
}

// RemoveConfiguration drops a configuration from the chain. The internal
// in-memory configuration cannot be removed.
func (c *CompositeConfiguration) RemoveConfiguration(configuration Configuration) bool {
	for i, candidate := range c.children {
		if candidate == configuration && candidate != c.inMemory {
			c.children = append(c.children[:i], c.children[i+1:]...)
			return true
		}
	}
	return false
}

// NumberOfConfigurations counts the children, including the in-memory
// store
func (c *CompositeConfiguration) NumberOfConfigurations() int {
	return len(c.children)
}

// GetConfiguration returns the child at an index
func (c *CompositeConfiguration) GetConfiguration(index int) Configuration {
	if index < 0 || index >= len(c.children) {
		return nil
	}
	return c.children[index]
}

// InMemoryConfiguration returns the configuration that receives writes
func (c *CompositeConfiguration) InMemoryConfiguration() Configuration {
	return c.inMemory
}

// Source returns the child configuration that supplies the key, nil when
// no child contains it
func (c *CompositeConfiguration) Source(key string) Configuration {
	for _, child := range c.children {
		if _, ok := child.Property(key); ok {
			return child
		}
	}
	return nil
}

func (c *CompositeConfiguration) Property(key string) (interface{}, bool) {
	for _, child := range c.children {
		if value, ok := child.Property(key); ok {
			return value, true
		}
	}
	return nil, false
}

func (c *CompositeConfiguration) Keys() []string {
	var result []string
	seen := make(map[string]bool)
	for _, child := range c.children {
		for _, key := range child.Keys() {
			if !seen[key] {
				seen[key] = true
				result = append(result, key)
			}
		}
	}
	return result
}

func (c *CompositeConfiguration) AddProperty(key string, value interface{}) {
	c.events.fire(EventAddProperty, key, value, true, c)
	c.inMemory.AddProperty(key, value)
	c.events.fire(EventAddProperty, key, value, false, c)
}

func (c *CompositeConfiguration) SetProperty(key string, value interface{}) {
	c.events.fire(EventSetProperty, key, value, true, c)
	c.inMemory.SetProperty(key, value)
	c.events.fire(EventSetProperty, key, value, false, c)
}

// ClearProperty removes the key from every child so underlying sources
// stop shadowing the removal
func (c *CompositeConfiguration) ClearProperty(key string) {
	c.events.fire(EventClearProperty, key, nil, true, c)
	for _, child := range c.children {
		child.ClearProperty(key)
	}
	c.events.fire(EventClearProperty, key, nil, false, c)
}

// Clear removes every child except the emptied in-memory store
func (c *CompositeConfiguration) Clear() {
	c.events.fire(EventClear, "", nil, true, c)
	c.inMemory.Clear()
	c.children = []Configuration{c.inMemory}
	c.events.fire(EventClear, "", nil, false, c)
}

func (c *CompositeConfiguration) Subset(prefix string) Configuration {
	return NewSubsetConfiguration(c, prefix)
}

func (c *CompositeConfiguration) Interpolator() *Interpolator {
	return c.interp
}

func (c *CompositeConfiguration) Events() *EventSource {
	return &c.events
}

func (c *CompositeConfiguration) ListDelimiter() string {
	return c.inMemory.ListDelimiter()
}
