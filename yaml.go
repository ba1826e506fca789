package strata

import (
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// YAMLConfiguration is a hierarchical configuration backed by a YAML
// document
type YAMLConfiguration struct {
	*HierarchicalConfiguration
	path string
}

// NewYAMLConfiguration creates an empty YAML configuration
func NewYAMLConfiguration() *YAMLConfiguration {
	return &YAMLConfiguration{HierarchicalConfiguration: NewHierarchicalConfiguration()}
}

func (c *YAMLConfiguration) Path() string {
	return c.path
}

// Load replaces the tree with the content of a YAML file
func (c *YAMLConfiguration) Load(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return &LoadError{Source: path, Err: err}
	}
	defer file.Close()

	c.path = path
	if err := c.Read(file); err != nil {
		return &LoadError{Source: path, Err: err}
	}
	return nil
}

// Read replaces the tree with a YAML document from a reader
func (c *YAMLConfiguration) Read(r io.Reader) error {
	c.events.suspendDetail()
	defer c.events.resumeDetail()

	var data map[string]interface{}
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&data); err != nil && err != io.EOF {
		return &ParseError{Source: "yaml", Err: err}
	}

	c.events.fire(EventRead, c.path, nil, true, c)
	c.setFromMap(data)
	c.events.fire(EventRead, c.path, nil, false, c)
	return nil
}

// Save writes the tree as a YAML document
func (c *YAMLConfiguration) Save(path string) error {
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

func (c *YAMLConfiguration) Write(w io.Writer) error {
	c.events.fire(EventWrite, c.path, nil, true, c)

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(c.toMap()); err != nil {
		c.events.fireError(EventWrite, c.path, err, c)
		return err
	}
	if err := encoder.Close(); err != nil {
		return err
	}

	c.events.fire(EventWrite, c.path, nil, false, c)
	return nil
}
