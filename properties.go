package strata

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	includeDirective         = "include"
	includeOptionalDirective = "includeoptional"
)

// PropertiesConfiguration reads and writes the classic .properties
// format: key/value pairs separated by '=', ':' or whitespace, '#' and
// '!' comments, backslash escapes and line continuations. Repeated keys
// accumulate into lists. An "include = file" entry pulls in another
// properties file relative to the current one.
type PropertiesConfiguration struct {
	*BaseConfiguration

	header          string
	includesAllowed bool
	path            string
}

// NewPropertiesConfiguration creates an empty properties configuration
func NewPropertiesConfiguration() *PropertiesConfiguration {
	return &PropertiesConfiguration{
		BaseConfiguration: NewBaseConfiguration(),
		includesAllowed:   true,
	}
}

// Path returns the file the configuration was last loaded from or saved
// to
func (c *PropertiesConfiguration) Path() string {
	return c.path
}

// Header returns the comment written at the top of the file on save
func (c *PropertiesConfiguration) Header() string {
	return c.header
}

func (c *PropertiesConfiguration) SetHeader(header string) {
	c.header = header
}

// SetIncludesAllowed controls whether include directives are processed
func (c *PropertiesConfiguration) SetIncludesAllowed(allowed bool) {
	c.includesAllowed = allowed
}

// Load replaces the content with the entries of the file
func (c *PropertiesConfiguration) Load(path string) error {
	c.events.suspendDetail()
	defer c.events.resumeDetail()

	c.Clear()
	c.path = path
	c.events.fire(EventRead, path, nil, true, c)
	if err := c.read(path); err != nil {
		c.events.fireError(EventRead, path, err, c)
		return err
	}
	c.events.fire(EventRead, path, nil, false, c)
	return nil
}

// Read parses properties from a reader. Includes resolve relative to
// baseDir; pass "" when includes should resolve against the working
// directory.
func (c *PropertiesConfiguration) Read(r io.Reader, baseDir string) error {
	c.events.suspendDetail()
	defer c.events.resumeDetail()
	return c.parse(r, baseDir, "reader")
}

func (c *PropertiesConfiguration) read(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return &LoadError{Source: path, Err: err}
	}
	defer file.Close()
	return c.parse(file, filepath.Dir(path), path)
}

func (c *PropertiesConfiguration) parse(r io.Reader, baseDir, source string) error {
	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimLeft(scanner.Text(), " \t\f")

		if line == "" || line[0] == '#' || line[0] == '!' {
			continue
		}

		// Logical lines continue while they end in an odd number of
		// backslashes
		for hasContinuation(line) && scanner.Scan() {
			lineNum++
			line = line[:len(line)-1] + strings.TrimLeft(scanner.Text(), " \t\f")
		}

		key, value, err := splitPropertyLine(line)
		if err != nil {
			return &ParseError{Source: source, Line: lineNum, Err: err}
		}

		if c.includesAllowed && (key == includeDirective || key == includeOptionalDirective) {
			optional := key == includeOptionalDirective
			for _, name := range splitList(value, c.ListDelimiter()) {
				if err := c.include(baseDir, name, optional); err != nil {
					return err
				}
			}
			continue
		}

		c.AddProperty(key, value)
	}

	if err := scanner.Err(); err != nil {
		return &LoadError{Source: source, Err: err}
	}
	return nil
}

func (c *PropertiesConfiguration) include(baseDir, name string, optional bool) error {
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, name)
	}

	file, err := os.Open(path)
	if err != nil {
		if optional && os.IsNotExist(err) {
			return nil
		}
		return &LoadError{Source: path, Err: err}
	}
	defer file.Close()
	return c.parse(file, filepath.Dir(path), path)
}

// Save writes the configuration to a file, creating it when necessary
func (c *PropertiesConfiguration) Save(path string) error {
	c.events.fire(EventWrite, path, nil, true, c)

	file, err := os.Create(path)
	if err != nil {
		c.events.fireError(EventWrite, path, err, c)
		return &LoadError{Source: path, Err: err}
	}
	defer file.Close()

	if err := c.Write(file); err != nil {
		c.events.fireError(EventWrite, path, err, c)
		return err
	}
	c.path = path
	c.events.fire(EventWrite, path, nil, false, c)
	return nil
}

// Write emits the properties in insertion order, lists one line per
// element
func (c *PropertiesConfiguration) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)

	if c.header != "" {
		for _, line := range strings.Split(c.header, "\n") {
			if _, err := fmt.Fprintf(bw, "# %s\n", line); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(bw); err != nil {
			return err
		}
	}

	for _, key := range c.Keys() {
		value, _ := c.Property(key)
		for _, element := range listElements(value) {
			str, err := toString(key, element)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintf(bw, "%s = %s\n", escapePropertyKey(key), escapePropertyValue(str)); err != nil {
				return err
			}
		}
	}

	return bw.Flush()
}

func listElements(value interface{}) []interface{} {
	if list, ok := value.([]interface{}); ok {
		return list
	}
	return []interface{}{value}
}

func hasContinuation(line string) bool {
	trailing := 0
	for i := len(line) - 1; i >= 0 && line[i] == '\\'; i-- {
		trailing++
	}
	return trailing%2 == 1
}

// splitPropertyLine separates key and value at the first unescaped '=',
// ':' or run of whitespace and unescapes both parts
func splitPropertyLine(line string) (string, string, error) {
	for i := 0; i < len(line); i++ {
		ch := line[i]
		if ch == '\\' {
			i++
			continue
		}
		if ch == '=' || ch == ':' {
			key := strings.TrimRight(line[:i], " \t\f")
			value := strings.TrimLeft(line[i+1:], " \t\f")
			return unescapeProperty(key), unescapeProperty(value), nil
		}
		if ch == ' ' || ch == '\t' || ch == '\f' {
			key := line[:i]
			rest := strings.TrimLeft(line[i+1:], " \t\f")
			// A separator may still follow the whitespace
			if rest != "" && (rest[0] == '=' || rest[0] == ':') {
				rest = strings.TrimLeft(rest[1:], " \t\f")
			}
			return unescapeProperty(key), unescapeProperty(rest), nil
		}
	}
	return "", "", fmt.Errorf("missing separator in %q", line)
}

func unescapeProperty(s string) string {
	if !strings.Contains(s, "\\") {
		return s
	}

	var b strings.Builder
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch != '\\' || i == len(s)-1 {
			b.WriteByte(ch)
			continue
		}
		i++
		switch s[i] {
		case 't':
			b.WriteByte('\t')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 'f':
			b.WriteByte('\f')
		case 'u':
			if i+4 < len(s) {
				if code, err := strconv.ParseUint(s[i+1:i+5], 16, 32); err == nil {
					b.WriteRune(rune(code))
					i += 4
					continue
				}
			}
			b.WriteByte('u')
		case '\\', '=', ':', ' ', '#', '!':
			b.WriteByte(s[i])
		default:
			// Unknown escapes keep their backslash so list-delimiter
			// escapes like \, survive until splitting
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func escapePropertyKey(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch r {
		case ' ', '=', ':', '#', '!', '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case '\t':
			b.WriteString(`\t`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		default:
			writePropertyRune(&b, r)
		}
	}
	return b.String()
}

func escapePropertyValue(value string) string {
	var b strings.Builder
	for i, r := range value {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\t':
			b.WriteString(`\t`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case ' ':
			// Only leading whitespace needs protection
			if i == 0 {
				b.WriteString(`\ `)
			} else {
				b.WriteByte(' ')
			}
		default:
			writePropertyRune(&b, r)
		}
	}
	return b.String()
}

func writePropertyRune(b *strings.Builder, r rune) {
	if r < utf8.RuneSelf {
		b.WriteByte(byte(r))
		return
	}
	b.WriteRune(r)
}
