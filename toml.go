package strata

import (
	"io"
	"os"

	"github.com/BurntSushi/toml"
)

// TOMLConfiguration is a hierarchical configuration backed by a TOML
// document
type TOMLConfiguration struct {
	*HierarchicalConfiguration
	path string
}

// NewTOMLConfiguration creates an empty TOML configuration
func NewTOMLConfiguration() *TOMLConfiguration {
	return &TOMLConfiguration{HierarchicalConfiguration: NewHierarchicalConfiguration()}
}

func (c *TOMLConfiguration) Path() string {
	return c.path
}

func (c *TOMLConfiguration) Load(path string) error {
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

func (c *TOMLConfiguration) Read(r io.Reader) error {
	var data map[string]interface{}
	if _, err := toml.NewDecoder(r).Decode(&data); err != nil {
		return &ParseError{Source: "toml", Err: err}
	}

	c.events.suspendDetail()
	defer c.events.resumeDetail()
	c.events.fire(EventRead, c.path, nil, true, c)
	c.setFromMap(data)
	c.events.fire(EventRead, c.path, nil, false, c)
	return nil
}

func (c *TOMLConfiguration) Save(path string) error {
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

func (c *TOMLConfiguration) Write(w io.Writer) error {
	c.events.fire(EventWrite, c.path, nil, true, c)

	if err := toml.NewEncoder(w).Encode(c.toMap()); err != nil {
		c.events.fireError(EventWrite, c.path, err, c)
		return err
	}

	c.events.fire(EventWrite, c.path, nil, false, c)
	return nil
}
