package strata

import (
	"encoding/json"
	"io"
	"os"
)

// JSONConfiguration is a hierarchical configuration backed by a JSON
// document
type JSONConfiguration struct {
	*HierarchicalConfiguration
	path string
}

// NewJSONConfiguration creates an empty JSON configuration
func NewJSONConfiguration() *JSONConfiguration {
	return &JSONConfiguration{HierarchicalConfiguration: NewHierarchicalConfiguration()}
}

func (c *JSONConfiguration) Path() string {
	return c.path
}

func (c *JSONConfiguration) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &LoadError{Source: path, Err: err}
	}

	c.path = path
	var parsed map[string]interface{}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return &ParseError{Source: path, Err: err}
	}

	c.events.suspendDetail()
	defer c.events.resumeDetail()
	c.events.fire(EventRead, path, nil, true, c)
	c.setFromMap(parsed)
	c.events.fire(EventRead, path, nil, false, c)
	return nil
}

func (c *JSONConfiguration) Read(r io.Reader) error {
	var parsed map[string]interface{}
	if err := json.NewDecoder(r).Decode(&parsed); err != nil {
		return &ParseError{Source: "json", Err: err}
	}

	c.events.suspendDetail()
	defer c.events.resumeDetail()
	c.setFromMap(parsed)
	return nil
}

func (c *JSONConfiguration) Save(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return &LoadError{Source: path, Err: err}
	}
	defer file.Close()

	if err := c.Write(file); err != nil {
		return &LoadError{Source: path, Err: err}
	}
	c.path = path
	return nil
}

func (c *JSONConfiguration) Write(w io.Writer) error {
	c.events.fire(EventWrite, c.path, nil, true, c)

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(c.toMap()); err != nil {
		c.events.fireError(EventWrite, c.path, err, c)
		return err
	}

	c.events.fire(EventWrite, c.path, nil, false, c)
	return nil
}
