package strata

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"time"
)

var placeholderPattern = regexp.MustCompile(`\$\{([^${}]+)\}`)

// Lookup resolves variable names for one interpolation prefix
type Lookup interface {
	Lookup(name string) (string, bool)
}

// LookupFunc adapts a plain function to the Lookup interface
type LookupFunc func(name string) (string, bool)

func (f LookupFunc) Lookup(name string) (string, bool) {
	return f(name)
}

// rawLookup is implemented by configurations so a placeholder that spans
// an entire string can resolve to the underlying value, not its string
// form.
type rawLookup interface {
	Property(key string) (interface{}, bool)
}

// Interpolator resolves ${...} placeholders in string values. Variables
// take the form ${name}, ${prefix:name} or ${name:-default}. Resolution
// is recursive; cycles leave the placeholder text untouched.
type Interpolator struct {
	prefixes  map[string]Lookup
	defaults  []Lookup
	config    rawLookup
	constants map[string]interface{}
}

// NewInterpolator creates an interpolator with the built-in prefix
// lookups (env, sys, const, date) registered.
func NewInterpolator() *Interpolator {
	ip := &Interpolator{
		prefixes:  make(map[string]Lookup),
		constants: make(map[string]interface{}),
	}

	ip.RegisterLookup("env", LookupFunc(func(name string) (string, bool) {
		return os.LookupEnv(name)
	}))
	ip.RegisterLookup("sys", LookupFunc(sysLookup))
	ip.RegisterLookup("const", LookupFunc(func(name string) (string, bool) {
		if value, ok := ip.constants[name]; ok {
			return fmt.Sprintf("%v", value), true
		}
		return "", false
	}))
	ip.RegisterLookup("date", LookupFunc(func(layout string) (string, bool) {
		if layout == "" {
			layout = time.RFC3339
		}
		return time.Now().Format(layout), true
	}))

	return ip
}

// RegisterLookup adds or replaces the lookup behind a prefix
func (ip *Interpolator) RegisterLookup(prefix string, lookup Lookup) {
	ip.prefixes[prefix] = lookup
}

// DeregisterLookup removes a prefix lookup
func (ip *Interpolator) DeregisterLookup(prefix string) bool {
	if _, ok := ip.prefixes[prefix]; !ok {
		return false
	}
	delete(ip.prefixes, prefix)
	return true
}

// AddDefaultLookup appends a fallback lookup consulted for prefix-less
// variables after the owning configuration
func (ip *Interpolator) AddDefaultLookup(lookup Lookup) {
	ip.defaults = append(ip.defaults, lookup)
}

// RegisterConstant makes a value available under the const: prefix
func (ip *Interpolator) RegisterConstant(name string, value interface{}) {
	ip.constants[name] = value
}

func (ip *Interpolator) setConfig(config rawLookup) {
	ip.config = config
}

// Interpolate resolves placeholders in string values. Non-strings and
// strings without placeholders pass through unchanged. A string that
// consists of exactly one placeholder resolves to the underlying value,
// preserving its type.
func (ip *Interpolator) Interpolate(value interface{}) interface{} {
	str, ok := value.(string)
	if !ok || !strings.Contains(str, "${") {
		return value
	}
	return ip.interpolateString(str, make(map[string]bool))
}

func (ip *Interpolator) interpolateString(str string, active map[string]bool) interface{} {
	// Whole-string placeholder keeps the resolved value's type
	if match := placeholderPattern.FindStringSubmatch(str); match != nil && match[0] == str {
		if resolved, ok := ip.resolveVariable(match[1], active); ok {
			return resolved
		}
		return str
	}

	return placeholderPattern.ReplaceAllStringFunc(str, func(placeholder string) string {
		variable := placeholder[2 : len(placeholder)-1]
		resolved, ok := ip.resolveVariable(variable, active)
		if !ok {
			return placeholder
		}
		return fmt.Sprintf("%v", resolved)
	})
}

// resolveVariable handles prefix dispatch and ${name:-default} fallbacks
func (ip *Interpolator) resolveVariable(variable string, active map[string]bool) (interface{}, bool) {
	name := variable
	fallback := ""
	hasFallback := false
	if idx := strings.Index(variable, ":-"); idx >= 0 {
		name = variable[:idx]
		fallback = variable[idx+2:]
		hasFallback = true
	}

	if active[name] {
		return nil, false
	}
	active[name] = true
	defer delete(active, name)

	if idx := strings.Index(name, ":"); idx >= 0 {
		prefix, rest := name[:idx], name[idx+1:]
		if lookup, ok := ip.prefixes[prefix]; ok {
			if value, found := lookup.Lookup(rest); found {
				return ip.interpolateProperty(value, active), true
			}
			if hasFallback {
				return fallback, true
			}
			return nil, false
		}
	}

	if ip.config != nil {
		if value, found := ip.config.Property(name); found {
			return ip.interpolateProperty(value, active), true
		}
	}
	for _, lookup := range ip.defaults {
		if value, found := lookup.Lookup(name); found {
			return ip.interpolateProperty(value, active), true
		}
	}

	if hasFallback {
		return fallback, true
	}
	return nil, false
}

func (ip *Interpolator) interpolateProperty(value interface{}, active map[string]bool) interface{} {
	if str, ok := value.(string); ok && strings.Contains(str, "${") {
		return ip.interpolateString(str, active)
	}
	return value
}

func sysLookup(name string) (string, bool) {
	switch name {
	case "os":
		return runtime.GOOS, true
	case "arch":
		return runtime.GOARCH, true
	case "numcpu":
		return strconv.Itoa(runtime.NumCPU()), true
	case "pid":
		return strconv.Itoa(os.Getpid()), true
	case "hostname":
		if hostname, err := os.Hostname(); err == nil {
			return hostname, true
		}
		return "", false
	case "workdir":
		if dir, err := os.Getwd(); err == nil {
			return dir, true
		}
		return "", false
	case "tempdir":
		return os.TempDir(), true
	case "pathsep":
		return string(filepath.Separator), true
	}
	return "", false
}
