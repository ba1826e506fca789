package strata

import (
	"strings"
	"time"
)

// SubsetConfiguration is a live view on the keys of a parent that share a
// prefix. Keys are translated in both directions; writes go through to
// the parent.
type SubsetConfiguration struct {
	getters

	parent    Configuration
	prefix    string
	delimiter string
}

var _ Configuration = (*SubsetConfiguration)(nil)

// NewSubsetConfiguration creates a view on parent under prefix. An empty
// prefix mirrors the parent unchanged.
func NewSubsetConfiguration(parent Configuration, prefix string) *SubsetConfiguration {
	c := &SubsetConfiguration{
		parent:    parent,
		prefix:    prefix,
		delimiter: ".",
	}
	c.getters.owner = c
	return c
}

// Parent returns the configuration the view is based on
func (c *SubsetConfiguration) Parent() Configuration {
	return c.parent
}

// Prefix returns the key prefix of the view
func (c *SubsetConfiguration) Prefix() string {
	return c.prefix
}

func (c *SubsetConfiguration) parentKey(key string) string {
	if c.prefix == "" {
		return key
	}
	if key == "" {
		return c.prefix
	}
	return c.prefix + c.delimiter + key
}

func (c *SubsetConfiguration) childKey(key string) string {
	if c.prefix == "" {
		return key
	}
	if key == c.prefix {
		return ""
	}
	return strings.TrimPrefix(key, c.prefix+c.delimiter)
}

func (c *SubsetConfiguration) Property(key string) (interface{}, bool) {
	return c.parent.Property(c.parentKey(key))
}

func (c *SubsetConfiguration) Keys() []string {
	parentKeys := c.parent.KeysWithPrefix(c.prefix)
	result := make([]string, 0, len(parentKeys))
	for _, key := range parentKeys {
		if child := c.childKey(key); child != "" {
			result = append(result, child)
		}
	}
	return result
}

func (c *SubsetConfiguration) AddProperty(key string, value interface{}) {
	c.parent.AddProperty(c.parentKey(key), value)
}

func (c *SubsetConfiguration) SetProperty(key string, value interface{}) {
	c.parent.SetProperty(c.parentKey(key), value)
}

func (c *SubsetConfiguration) ClearProperty(key string) {
	c.parent.ClearProperty(c.parentKey(key))
}

// Clear removes every key visible through the view from the parent
func (c *SubsetConfiguration) Clear() {
	for _, key := range c.Keys() {
		c.ClearProperty(key)
	}
}

func (c *SubsetConfiguration) Subset(prefix string) Configuration {
	return NewSubsetConfiguration(c.parent, c.parentKey(prefix))
}

func (c *SubsetConfiguration) Interpolator() *Interpolator {
	return c.parent.Interpolator()
}

func (c *SubsetConfiguration) Events() *EventSource {
	return c.parent.Events()
}

func (c *SubsetConfiguration) ListDelimiter() string {
	return c.parent.ListDelimiter()
}

// immutableView hides the mutators of a configuration
type immutableView struct {
	c Configuration
}

var _ ImmutableConfiguration = (*immutableView)(nil)

// Immutable wraps a configuration in a read-only view. The view reflects
// later changes made through the original.
func Immutable(c Configuration) ImmutableConfiguration {
	return &immutableView{c: c}
}

func (v *immutableView) IsEmpty() bool                   { return v.c.IsEmpty() }
func (v *immutableView) Size() int                       { return v.c.Size() }
func (v *immutableView) ContainsKey(key string) bool     { return v.c.ContainsKey(key) }
func (v *immutableView) Keys() []string                  { return v.c.Keys() }
func (v *immutableView) KeysWithPrefix(p string) []string { return v.c.KeysWithPrefix(p) }
func (v *immutableView) Property(key string) (interface{}, bool) {
	return v.c.Property(key)
}
func (v *immutableView) Get(key string) interface{} { return v.c.Get(key) }

func (v *immutableView) GetString(key string, def ...string) string { return v.c.GetString(key, def...) }
func (v *immutableView) GetStringE(key string) (string, error)      { return v.c.GetStringE(key) }
func (v *immutableView) GetInt(key string, def ...int) int          { return v.c.GetInt(key, def...) }
func (v *immutableView) GetIntE(key string) (int, error)            { return v.c.GetIntE(key) }
func (v *immutableView) GetInt64(key string, def ...int64) int64    { return v.c.GetInt64(key, def...) }
func (v *immutableView) GetInt64E(key string) (int64, error)        { return v.c.GetInt64E(key) }
func (v *immutableView) GetFloat64(key string, def ...float64) float64 {
	return v.c.GetFloat64(key, def...)
}
func (v *immutableView) GetFloat64E(key string) (float64, error) { return v.c.GetFloat64E(key) }
func (v *immutableView) GetBool(key string, def ...bool) bool    { return v.c.GetBool(key, def...) }
func (v *immutableView) GetBoolE(key string) (bool, error)       { return v.c.GetBoolE(key) }
func (v *immutableView) GetDuration(key string, def ...time.Duration) time.Duration {
	return v.c.GetDuration(key, def...)
}
func (v *immutableView) GetDurationE(key string) (time.Duration, error) {
	return v.c.GetDurationE(key)
}
func (v *immutableView) GetTime(key string, def ...time.Time) time.Time {
	return v.c.GetTime(key, def...)
}
func (v *immutableView) GetTimeE(key string) (time.Time, error) { return v.c.GetTimeE(key) }
func (v *immutableView) GetStringSlice(key string, def ...[]string) []string {
	return v.c.GetStringSlice(key, def...)
}
func (v *immutableView) GetStringSliceE(key string) ([]string, error) {
	return v.c.GetStringSliceE(key)
}
func (v *immutableView) GetIntSlice(key string, def ...[]int) []int {
	return v.c.GetIntSlice(key, def...)
}
func (v *immutableView) GetStringMap(key string, def ...map[string]string) map[string]string {
	return v.c.GetStringMap(key, def...)
}
