package strata

import (
	"sync"
	"time"
)

// SynchronizedConfiguration decorates a configuration with a read-write
// mutex so it can be shared between goroutines. Read operations take the
// read lock, mutations the write lock.
type SynchronizedConfiguration struct {
	mutex sync.RWMutex
	c     Configuration
}

var _ Configuration = (*SynchronizedConfiguration)(nil)

// Synchronized wraps a configuration for concurrent use. The original
// must no longer be used directly.
func Synchronized(c Configuration) *SynchronizedConfiguration {
	if sc, ok := c.(*SynchronizedConfiguration); ok {
		return sc
	}
	return &SynchronizedConfiguration{c: c}
}

// Unwrap returns the decorated configuration
func (sc *SynchronizedConfiguration) Unwrap() Configuration {
	return sc.c
}

// LockRead takes the read lock for a compound read sequence
func (sc *SynchronizedConfiguration) LockRead() {
	sc.mutex.RLock()
}

func (sc *SynchronizedConfiguration) UnlockRead() {
	sc.mutex.RUnlock()
}

// LockWrite takes the write lock for a compound mutation sequence
func (sc *SynchronizedConfiguration) LockWrite() {
	sc.mutex.Lock()
}

func (sc *SynchronizedConfiguration) UnlockWrite() {
	sc.mutex.Unlock()
}

func (sc *SynchronizedConfiguration) IsEmpty() bool {
	sc.mutex.RLock()
	defer sc.mutex.RUnlock()
	return sc.c.IsEmpty()
}

func (sc *SynchronizedConfiguration) Size() int {
	sc.mutex.RLock()
	defer sc.mutex.RUnlock()
	return sc.c.Size()
}

func (sc *SynchronizedConfiguration) ContainsKey(key string) bool {
	sc.mutex.RLock()
	defer sc.mutex.RUnlock()
	return sc.c.ContainsKey(key)
}

func (sc *SynchronizedConfiguration) Keys() []string {
	sc.mutex.RLock()
	defer sc.mutex.RUnlock()
	return sc.c.Keys()
}

func (sc *SynchronizedConfiguration) KeysWithPrefix(prefix string) []string {
	sc.mutex.RLock()
	defer sc.mutex.RUnlock()
	return sc.c.KeysWithPrefix(prefix)
}

func (sc *SynchronizedConfiguration) Property(key string) (interface{}, bool) {
	sc.mutex.RLock()
	defer sc.mutex.RUnlock()
	return sc.c.Property(key)
}

func (sc *SynchronizedConfiguration) Get(key string) interface{} {
	sc.mutex.RLock()
	defer sc.mutex.RUnlock()
	return sc.c.Get(key)
}

func (sc *SynchronizedConfiguration) GetString(key string, defaultValue ...string) string {
	sc.mutex.RLock()
	defer sc.mutex.RUnlock()
	return sc.c.GetString(key, defaultValue...)
}

func (sc *SynchronizedConfiguration) GetStringE(key string) (string, error) {
	sc.mutex.RLock()
	defer sc.mutex.RUnlock()
	return sc.c.GetStringE(key)
}

func (sc *SynchronizedConfiguration) GetInt(key string, defaultValue ...int) int {
	sc.mutex.RLock()
	defer sc.mutex.RUnlock()
	return sc.c.GetInt(key, defaultValue...)
}

func (sc *SynchronizedConfiguration) GetIntE(key string) (int, error) {
	sc.mutex.RLock()
	defer sc.mutex.RUnlock()
	return sc.c.GetIntE(key)
}

func (sc *SynchronizedConfiguration) GetInt64(key string, defaultValue ...int64) int64 {
	sc.mutex.RLock()
	defer sc.mutex.RUnlock()
	return sc.c.GetInt64(key, defaultValue...)
}

func (sc *SynchronizedConfiguration) GetInt64E(key string) (int64, error) {
	sc.mutex.RLock()
	defer sc.mutex.RUnlock()
	return sc.c.GetInt64E(key)
}

func (sc *SynchronizedConfiguration) GetFloat64(key string, defaultValue ...float64) float64 {
	sc.mutex.RLock()
	defer sc.mutex.RUnlock()
	return sc.c.GetFloat64(key, defaultValue...)
}

func (sc *SynchronizedConfiguration) GetFloat64E(key string) (float64, error) {
	sc.mutex.RLock()
	defer sc.mutex.RUnlock()
	return sc.c.GetFloat64E(key)
}

func (sc *SynchronizedConfiguration) GetBool(key string, defaultValue ...bool) bool {
	sc.mutex.RLock()
	defer sc.mutex.RUnlock()
	return sc.c.GetBool(key, defaultValue...)
}

func (sc *SynchronizedConfiguration) GetBoolE(key string) (bool, error) {
	sc.mutex.RLock()
	defer sc.mutex.RUnlock()
	return sc.c.GetBoolE(key)
}

func (sc *SynchronizedConfiguration) GetDuration(key string, defaultValue ...time.Duration) time.Duration {
	sc.mutex.RLock()
	defer sc.mutex.RUnlock()
	return sc.c.GetDuration(key, defaultValue...)
}

func (sc *SynchronizedConfiguration) GetDurationE(key string) (time.Duration, error) {
	sc.mutex.RLock()
	defer sc.mutex.RUnlock()
	return sc.c.GetDurationE(key)
}

func (sc *SynchronizedConfiguration) GetTime(key string, defaultValue ...time.Time) time.Time {
	sc.mutex.RLock()
	defer sc.mutex.RUnlock()
	return sc.c.GetTime(key, defaultValue...)
}

func (sc *SynchronizedConfiguration) GetTimeE(key string) (time.Time, error) {
	sc.mutex.RLock()
	defer sc.mutex.RUnlock()
	return sc.c.GetTimeE(key)
}

func (sc *SynchronizedConfiguration) GetStringSlice(key string, defaultValue ...[]string) []string {
	sc.mutex.RLock()
	defer sc.mutex.RUnlock()
	return sc.c.GetStringSlice(key, defaultValue...)
}

func (sc *SynchronizedConfiguration) GetStringSliceE(key string) ([]string, error) {
	sc.mutex.RLock()
	defer sc.mutex.RUnlock()
	return sc.c.GetStringSliceE(key)
}

func (sc *SynchronizedConfiguration) GetIntSlice(key string, defaultValue ...[]int) []int {
	sc.mutex.RLock()
	defer sc.mutex.RUnlock()
	return sc.c.GetIntSlice(key, defaultValue...)
}

func (sc *SynchronizedConfiguration) GetStringMap(key string, defaultValue ...map[string]string) map[string]string {
	sc.mutex.RLock()
	defer sc.mutex.RUnlock()
	return sc.c.GetStringMap(key, defaultValue...)
}

func (sc *SynchronizedConfiguration) AddProperty(key string, value interface{}) {
	sc.mutex.Lock()
	defer sc.mutex.Unlock()
	sc.c.AddProperty(key, value)
}

func (sc *SynchronizedConfiguration) SetProperty(key string, value interface{}) {
	sc.mutex.Lock()
	defer sc.mutex.Unlock()
	sc.c.SetProperty(key, value)
}

func (sc *SynchronizedConfiguration) ClearProperty(key string) {
	sc.mutex.Lock()
	defer sc.mutex.Unlock()
	sc.c.ClearProperty(key)
}

func (sc *SynchronizedConfiguration) Clear() {
	sc.mutex.Lock()
	defer sc.mutex.Unlock()
	sc.c.Clear()
}

// Subset returns a synchronized view sharing this decorator's lock
// indirectly through the parent delegation
func (sc *SynchronizedConfiguration) Subset(prefix string) Configuration {
	return NewSubsetConfiguration(sc, prefix)
}

func (sc *SynchronizedConfiguration) Interpolator() *Interpolator {
	return sc.c.Interpolator()
}

func (sc *SynchronizedConfiguration) Events() *EventSource {
	return sc.c.Events()
}

func (sc *SynchronizedConfiguration) ListDelimiter() string {
	return sc.c.ListDelimiter()
}
