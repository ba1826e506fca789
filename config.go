package strata

import (
	"strings"
	"time"
)

// DefaultListDelimiter separates elements of list values stored as
// delimited strings
const DefaultListDelimiter = ","

// ImmutableConfiguration is the read-only contract shared by every
// configuration. Typed getters interpolate ${...} placeholders and apply
// loose type conversion; the plain variants swallow conversion problems
// and fall back to the zero value or the supplied default, the E variants
// surface them.
type ImmutableConfiguration interface {
	IsEmpty() bool
	Size() int
	ContainsKey(key string) bool
	Keys() []string
	KeysWithPrefix(prefix string) []string

	// Property returns the raw stored value without interpolation
	Property(key string) (interface{}, bool)
	Get(key string) interface{}

	GetString(key string, defaultValue ...string) string
	GetStringE(key string) (string, error)
	GetInt(key string, defaultValue ...int) int
	GetIntE(key string) (int, error)
	GetInt64(key string, defaultValue ...int64) int64
	GetInt64E(key string) (int64, error)
	GetFloat64(key string, defaultValue ...float64) float64
	GetFloat64E(key string) (float64, error)
	GetBool(key string, defaultValue ...bool) bool
	GetBoolE(key string) (bool, error)
	GetDuration(key string, defaultValue ...time.Duration) time.Duration
	GetDurationE(key string) (time.Duration, error)
	GetTime(key string, defaultValue ...time.Time) time.Time
	GetTimeE(key string) (time.Time, error)
	GetStringSlice(key string, defaultValue ...[]string) []string
	GetStringSliceE(key string) ([]string, error)
	GetIntSlice(key string, defaultValue ...[]int) []int
	GetStringMap(key string, defaultValue ...map[string]string) map[string]string
}

// Configuration adds mutation, views and interpolation control. Plain
// configurations are not safe for concurrent use; wrap them with
// Synchronized when shared between goroutines.
type Configuration interface {
	ImmutableConfiguration

	// AddProperty appends a value; an existing scalar is promoted to a list
	AddProperty(key string, value interface{})
	// SetProperty replaces the value for a key
	SetProperty(key string, value interface{})
	ClearProperty(key string)
	Clear()

	Subset(prefix string) Configuration
	Interpolator() *Interpolator
	Events() *EventSource
	ListDelimiter() string
}

// source is the minimal raw-access contract the shared typed getters are
// built on
type source interface {
	Property(key string) (interface{}, bool)
	Interpolator() *Interpolator
	Keys() []string
	ListDelimiter() string
}

// getters supplies every typed getter on top of a raw source. Each
// configuration embeds it and points owner at itself.
type getters struct {
	owner source
}

func (g *getters) Get(key string) interface{} {
	value, _ := g.owner.Property(key)
	return value
}

func (g *getters) ContainsKey(key string) bool {
	_, ok := g.owner.Property(key)
	return ok
}

func (g *getters) IsEmpty() bool {
	return len(g.owner.Keys()) == 0
}

func (g *getters) Size() int {
	return len(g.owner.Keys())
}

func (g *getters) KeysWithPrefix(prefix string) []string {
	var result []string
	for _, key := range g.owner.Keys() {
		if key == prefix || strings.HasPrefix(key, prefix+".") {
			result = append(result, key)
		}
	}
	return result
}

// interpolated returns the stored value with placeholders resolved
func (g *getters) interpolated(key string) (interface{}, bool) {
	value, ok := g.owner.Property(key)
	if !ok {
		return nil, false
	}
	return g.owner.Interpolator().Interpolate(value), true
}

func (g *getters) GetString(key string, defaultValue ...string) string {
	if value, err := g.GetStringE(key); err == nil {
		return value
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

func (g *getters) GetStringE(key string) (string, error) {
	value, ok := g.interpolated(key)
	if !ok {
		return "", &MissingKeyError{Key: key}
	}
	return toString(key, value)
}

func (g *getters) GetInt(key string, defaultValue ...int) int {
	if value, err := g.GetIntE(key); err == nil {
		return value
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return 0
}

func (g *getters) GetIntE(key string) (int, error) {
	value, ok := g.interpolated(key)
	if !ok {
		return 0, &MissingKeyError{Key: key}
	}
	return toInt(key, value)
}

func (g *getters) GetInt64(key string, defaultValue ...int64) int64 {
	if value, err := g.GetInt64E(key); err == nil {
		return value
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return 0
}

func (g *getters) GetInt64E(key string) (int64, error) {
	value, ok := g.interpolated(key)
	if !ok {
		return 0, &MissingKeyError{Key: key}
	}
	return toInt64(key, value)
}

func (g *getters) GetFloat64(key string, defaultValue ...float64) float64 {
	if value, err := g.GetFloat64E(key); err == nil {
		return value
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return 0
}

func (g *getters) GetFloat64E(key string) (float64, error) {
	value, ok := g.interpolated(key)
	if !ok {
		return 0, &MissingKeyError{Key: key}
	}
	return toFloat64(key, value)
}

func (g *getters) GetBool(key string, defaultValue ...bool) bool {
	if value, err := g.GetBoolE(key); err == nil {
		return value
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return false
}

func (g *getters) GetBoolE(key string) (bool, error) {
	value, ok := g.interpolated(key)
	if !ok {
		return false, &MissingKeyError{Key: key}
	}
	return toBool(key, value)
}

func (g *getters) GetDuration(key string, defaultValue ...time.Duration) time.Duration {
	if value, err := g.GetDurationE(key); err == nil {
		return value
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return 0
}

func (g *getters) GetDurationE(key string) (time.Duration, error) {
	value, ok := g.interpolated(key)
	if !ok {
		return 0, &MissingKeyError{Key: key}
	}
	return toDuration(key, value)
}

func (g *getters) GetTime(key string, defaultValue ...time.Time) time.Time {
	if value, err := g.GetTimeE(key); err == nil {
		return value
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return time.Time{}
}

func (g *getters) GetTimeE(key string) (time.Time, error) {
	value, ok := g.interpolated(key)
	if !ok {
		return time.Time{}, &MissingKeyError{Key: key}
	}
	return toTime(key, value)
}

func (g *getters) GetStringSlice(key string, defaultValue ...[]string) []string {
	if value, err := g.GetStringSliceE(key); err == nil {
		return value
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return nil
}

func (g *getters) GetStringSliceE(key string) ([]string, error) {
	value, ok := g.owner.Property(key)
	if !ok {
		return nil, &MissingKeyError{Key: key}
	}
	value = g.interpolateElements(value)
	return toStringSlice(key, value, g.owner.ListDelimiter())
}

func (g *getters) GetIntSlice(key string, defaultValue ...[]int) []int {
	value, ok := g.owner.Property(key)
	if !ok {
		if len(defaultValue) > 0 {
			return defaultValue[0]
		}
		return nil
	}

	value = g.interpolateElements(value)
	result, err := toIntSlice(key, value, g.owner.ListDelimiter())
	if err != nil {
		if len(defaultValue) > 0 {
			return defaultValue[0]
		}
		return nil
	}
	return result
}

func (g *getters) GetStringMap(key string, defaultValue ...map[string]string) map[string]string {
	value, ok := g.interpolated(key)
	if !ok {
		if len(defaultValue) > 0 {
			return defaultValue[0]
		}
		return nil
	}

	result, err := toStringMap(key, value)
	if err != nil {
		if len(defaultValue) > 0 {
			return defaultValue[0]
		}
		return nil
	}
	return result
}

// interpolateElements resolves placeholders in each element of a list
// value
func (g *getters) interpolateElements(value interface{}) interface{} {
	ip := g.owner.Interpolator()
	if list, ok := value.([]interface{}); ok {
		result := make([]interface{}, len(list))
		for i, item := range list {
			result[i] = ip.Interpolate(item)
		}
		return result
	}
	return ip.Interpolate(value)
}

// BaseConfiguration is the map-backed in-memory configuration. Key order
// follows first insertion.
type BaseConfiguration struct {
	getters
	events EventSource

	store         map[string]interface{}
	order         []string
	listDelimiter string
	interp        *Interpolator
}

// compile-time interface checks
var (
	_ Configuration = (*BaseConfiguration)(nil)
)

// NewBaseConfiguration creates an empty in-memory configuration with the
// default list delimiter
func NewBaseConfiguration() *BaseConfiguration {
	c := &BaseConfiguration{
		store:         make(map[string]interface{}),
		listDelimiter: DefaultListDelimiter,
		interp:        NewInterpolator(),
	}
	c.getters.owner = c
	c.interp.setConfig(c)
	return c
}

// NewMapConfiguration creates a configuration seeded from an existing
// flat map
func NewMapConfiguration(values map[string]interface{}) *BaseConfiguration {
	c := NewBaseConfiguration()
	for key, value := range values {
		c.store[key] = value
		c.order = append(c.order, key)
	}
	return c
}

func (c *BaseConfiguration) Property(key string) (interface{}, bool) {
	value, ok := c.store[key]
	return value, ok
}

func (c *BaseConfiguration) Keys() []string {
	result := make([]string, len(c.order))
	copy(result, c.order)
	return result
}

func (c *BaseConfiguration) IsEmpty() bool {
	return len(c.store) == 0
}

func (c *BaseConfiguration) Size() int {
	return len(c.store)
}

func (c *BaseConfiguration) ContainsKey(key string) bool {
	_, ok := c.store[key]
	return ok
}

// AddProperty appends a value to the key. An existing value is promoted
// to a list; string values containing the list delimiter are split.
func (c *BaseConfiguration) AddProperty(key string, value interface{}) {
	c.events.fire(EventAddProperty, key, value, true, c)
	c.addPropertyDirect(key, value)
	c.events.fire(EventAddProperty, key, value, false, c)
}

func (c *BaseConfiguration) addPropertyDirect(key string, value interface{}) {
	for _, element := range c.splitValue(value) {
		existing, ok := c.store[key]
		if !ok {
			c.store[key] = element
			c.order = append(c.order, key)
			continue
		}

		if list, isList := existing.([]interface{}); isList {
			c.store[key] = append(list, element)
		} else {
			c.store[key] = []interface{}{existing, element}
		}
	}
}

// SetProperty replaces the value for the key
func (c *BaseConfiguration) SetProperty(key string, value interface{}) {
	c.events.fire(EventSetProperty, key, value, true, c)
	c.clearPropertyDirect(key)
	c.addPropertyDirect(key, value)
	c.events.fire(EventSetProperty, key, value, false, c)
}

func (c *BaseConfiguration) ClearProperty(key string) {
	c.events.fire(EventClearProperty, key, nil, true, c)
	c.clearPropertyDirect(key)
	c.events.fire(EventClearProperty, key, nil, false, c)
}

func (c *BaseConfiguration) clearPropertyDirect(key string) {
	if _, ok := c.store[key]; !ok {
		return
	}
	delete(c.store, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

func (c *BaseConfiguration) Clear() {
	c.events.fire(EventClear, "", nil, true, c)
	c.store = make(map[string]interface{})
	c.order = nil
	c.events.fire(EventClear, "", nil, false, c)
}

func (c *BaseConfiguration) Subset(prefix string) Configuration {
	return NewSubsetConfiguration(c, prefix)
}

func (c *BaseConfiguration) Interpolator() *Interpolator {
	return c.interp
}

func (c *BaseConfiguration) SetInterpolator(interp *Interpolator) {
	c.interp = interp
	interp.setConfig(c)
}

func (c *BaseConfiguration) Events() *EventSource {
	return &c.events
}

func (c *BaseConfiguration) ListDelimiter() string {
	return c.listDelimiter
}

// SetListDelimiter changes the list delimiter; the empty string disables
// delimiter splitting entirely
func (c *BaseConfiguration) SetListDelimiter(delimiter string) {
	c.listDelimiter = delimiter
}

// splitValue turns a raw value into the elements AddProperty stores
func (c *BaseConfiguration) splitValue(value interface{}) []interface{} {
	return splitConfigValue(value, c.listDelimiter)
}

// Copy merges every property of another configuration into this one,
// replacing existing keys
func (c *BaseConfiguration) Copy(other ImmutableConfiguration) {
	for _, key := range other.Keys() {
		if value, ok := other.Property(key); ok {
			c.SetProperty(key, value)
		}
	}
}

// Append adds every property of another configuration, keeping existing
// values as lists
func (c *BaseConfiguration) Append(other ImmutableConfiguration) {
	for _, key := range other.Keys() {
		if value, ok := other.Property(key); ok {
			c.AddProperty(key, value)
		}
	}
}
