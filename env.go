package strata

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// NewEnvConfiguration snapshots the process environment into a
// configuration. Keys are lower-cased; when mapped is true, underscores
// become dots so APP_SERVER_PORT is reachable as app.server.port.
func NewEnvConfiguration(mapped bool) *BaseConfiguration {
	c := NewBaseConfiguration()
	c.SetListDelimiter("")

	for _, entry := range os.Environ() {
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.ToLower(parts[0])
		if mapped {
			key = strings.ReplaceAll(key, "_", ".")
		}
		c.store[key] = parseScalar(parts[1])
		c.order = append(c.order, key)
	}
	return c
}

// DotEnvConfiguration holds key/value pairs loaded from a .env style
// file
type DotEnvConfiguration struct {
	*BaseConfiguration
	path string
}

// NewDotEnvConfiguration loads a .env file. The file must exist.
func NewDotEnvConfiguration(path string) (*DotEnvConfiguration, error) {
	c := &DotEnvConfiguration{BaseConfiguration: NewBaseConfiguration()}
	c.SetListDelimiter("")
	if err := c.Load(path); err != nil {
		return nil, err
	}
	return c, nil
}

// Path returns the file the configuration was loaded from
func (c *DotEnvConfiguration) Path() string {
	return c.path
}

// Load replaces the content with the entries of the file. Values may
// reference earlier entries or the environment with ${VAR}.
func (c *DotEnvConfiguration) Load(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return &LoadError{Source: path, Err: err}
	}
	defer file.Close()

	c.events.suspendDetail()
	defer c.events.resumeDetail()
	c.Clear()
	c.path = path

	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return &ParseError{Source: path, Line: lineNum, Err: fmt.Errorf("invalid syntax: %s", line)}
		}

		key := strings.ToLower(strings.TrimSpace(parts[0]))
		value := unquote(strings.TrimSpace(parts[1]))
		value = c.expand(value)
		c.SetProperty(key, parseScalar(value))
	}

	if err := scanner.Err(); err != nil {
		return &LoadError{Source: path, Err: err}
	}
	return nil
}

// expand resolves ${VAR} against already-loaded entries first, then the
// process environment
func (c *DotEnvConfiguration) expand(value string) string {
	return placeholderPattern.ReplaceAllStringFunc(value, func(match string) string {
		name := match[2 : len(match)-1]
		if existing, ok := c.Property(strings.ToLower(name)); ok {
			return fmt.Sprintf("%v", existing)
		}
		if env, ok := os.LookupEnv(name); ok {
			return env
		}
		return match
	})
}

func unquote(value string) string {
	if len(value) >= 2 {
		if (value[0] == '"' && value[len(value)-1] == '"') ||
			(value[0] == '\'' && value[len(value)-1] == '\'') {
			return value[1 : len(value)-1]
		}
	}
	return value
}

// parseScalar guesses the natural type of a raw string value
func parseScalar(value string) interface{} {
	lower := strings.ToLower(value)
	if lower == "true" || lower == "false" {
		return lower == "true"
	}
	if n, err := strconv.Atoi(value); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	return value
}
