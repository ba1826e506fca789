package strata

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// DatabaseConfiguration reads and writes properties in a database table
// with a key column and a value column. An optional name column lets
// several logical configurations share one table. All mutations are
// immediate; nothing is cached.
type DatabaseConfiguration struct {
	getters
	events EventSource

	db            *sql.DB
	driver        string
	table         string
	keyColumn     string
	valueColumn   string
	nameColumn    string
	name          string
	listDelimiter string
	interp        *Interpolator
}

var _ Configuration = (*DatabaseConfiguration)(nil)

// DatabaseOption customizes a DatabaseConfiguration
type DatabaseOption func(*DatabaseConfiguration)

// WithKeyColumn overrides the default "key" column name
func WithKeyColumn(column string) DatabaseOption {
	return func(c *DatabaseConfiguration) { c.keyColumn = column }
}

// WithValueColumn overrides the default "value" column name
func WithValueColumn(column string) DatabaseOption {
	return func(c *DatabaseConfiguration) { c.valueColumn = column }
}

// WithConfigurationName scopes the configuration to the rows whose name
// column matches name
func WithConfigurationName(column, name string) DatabaseOption {
	return func(c *DatabaseConfiguration) {
		c.nameColumn = column
		c.name = name
	}
}

// WithDatabaseListDelimiter sets the delimiter used to split string
// values into lists; empty disables splitting
func WithDatabaseListDelimiter(delimiter string) DatabaseOption {
	return func(c *DatabaseConfiguration) { c.listDelimiter = delimiter }
}

// NewDatabaseConfiguration creates a configuration over an open
// database handle. The driver name selects the placeholder dialect
// ("postgres" uses $n, everything else ?).
func NewDatabaseConfiguration(db *sql.DB, driver, table string, options ...DatabaseOption) *DatabaseConfiguration {
	c := &DatabaseConfiguration{
		db:            db,
		driver:        driver,
		table:         table,
		keyColumn:     "key",
		valueColumn:   "value",
		listDelimiter: DefaultListDelimiter,
		interp:        NewInterpolator(),
	}
	for _, option := range options {
		option(c)
	}
	c.getters.owner = c
	c.interp.setConfig(c)
	return c
}

// placeholder renders the n-th (1-based) statement parameter for the
// configured driver
func (c *DatabaseConfiguration) placeholder(n int) string {
	if c.driver == "postgres" {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// nameFilter appends the name-column condition when configured. n is the
// index of the next free placeholder.
func (c *DatabaseConfiguration) nameFilter(n int) (string, []interface{}) {
	if c.nameColumn == "" {
		return "", nil
	}
	return fmt.Sprintf(" AND %s = %s", c.nameColumn, c.placeholder(n)), []interface{}{c.name}
}

func (c *DatabaseConfiguration) Property(key string) (interface{}, bool) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = %s", c.valueColumn, c.table, c.keyColumn, c.placeholder(1))
	args := []interface{}{key}
	if filter, filterArgs := c.nameFilter(2); filter != "" {
		query += filter
		args = append(args, filterArgs...)
	}

	rows, err := c.db.Query(query, args...)
	if err != nil {
		c.events.fireError(EventRead, key, &LoadError{Source: c.table, Err: err}, c)
		return nil, false
	}
	defer rows.Close()

	var values []interface{}
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			c.events.fireError(EventRead, key, &LoadError{Source: c.table, Err: err}, c)
			return nil, false
		}
		if c.listDelimiter != "" && strings.Contains(value, c.listDelimiter) {
			for _, part := range splitList(value, c.listDelimiter) {
				values = append(values, part)
			}
		} else {
			values = append(values, value)
		}
	}
	if err := rows.Err(); err != nil {
		c.events.fireError(EventRead, key, &LoadError{Source: c.table, Err: err}, c)
		return nil, false
	}

	switch len(values) {
	case 0:
		return nil, false
	case 1:
		return values[0], true
	}
	return values, true
}

func (c *DatabaseConfiguration) Keys() []string {
	query := fmt.Sprintf("SELECT DISTINCT %s FROM %s", c.keyColumn, c.table)
	var args []interface{}
	if c.nameColumn != "" {
		query += fmt.Sprintf(" WHERE %s = %s", c.nameColumn, c.placeholder(1))
		args = append(args, c.name)
	}
	query += fmt.Sprintf(" ORDER BY %s", c.keyColumn)

	rows, err := c.db.Query(query, args...)
	if err != nil {
		c.events.fireError(EventRead, "", &LoadError{Source: c.table, Err: err}, c)
		return nil
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			c.events.fireError(EventRead, "", &LoadError{Source: c.table, Err: err}, c)
			return nil
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		c.events.fireError(EventRead, "", &LoadError{Source: c.table, Err: err}, c)
		return nil
	}
	return keys
}

// AddProperty inserts one row per list element
func (c *DatabaseConfiguration) AddProperty(key string, value interface{}) {
	c.events.fire(EventAddProperty, key, value, true, c)
	c.addPropertyDirect(key, value)
	c.events.fire(EventAddProperty, key, value, false, c)
}

func (c *DatabaseConfiguration) addPropertyDirect(key string, value interface{}) {
	for _, element := range splitConfigValue(value, c.listDelimiter) {
		str, err := toString(key, element)
		if err != nil {
			c.events.fireError(EventAddProperty, key, err, c)
			return
		}

		columns := []string{c.keyColumn, c.valueColumn}
		args := []interface{}{key, str}
		if c.nameColumn != "" {
			columns = append(columns, c.nameColumn)
			args = append(args, c.name)
		}

		placeholders := make([]string, len(args))
		for i := range args {
			placeholders[i] = c.placeholder(i + 1)
		}
		statement := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
			c.table, strings.Join(columns, ", "), strings.Join(placeholders, ", "))

		if _, err := c.db.Exec(statement, args...); err != nil {
			c.events.fireError(EventAddProperty, key, &LoadError{Source: c.table, Err: err}, c)
			return
		}
	}
}

// SetProperty deletes the existing rows for the key, then inserts the
// new value
func (c *DatabaseConfiguration) SetProperty(key string, value interface{}) {
	c.events.fire(EventSetProperty, key, value, true, c)
	c.deleteKey(key)
	c.addPropertyDirect(key, value)
	c.events.fire(EventSetProperty, key, value, false, c)
}

func (c *DatabaseConfiguration) ClearProperty(key string) {
	c.events.fire(EventClearProperty, key, nil, true, c)
	c.deleteKey(key)
	c.events.fire(EventClearProperty, key, nil, false, c)
}

func (c *DatabaseConfiguration) deleteKey(key string) {
	statement := fmt.Sprintf("DELETE FROM %s WHERE %s = %s", c.table, c.keyColumn, c.placeholder(1))
	args := []interface{}{key}
	if filter, filterArgs := c.nameFilter(2); filter != "" {
		statement += filter
		args = append(args, filterArgs...)
	}

	if _, err := c.db.Exec(statement, args...); err != nil {
		c.events.fireError(EventClearProperty, key, &LoadError{Source: c.table, Err: err}, c)
	}
}

// Clear removes every row of this configuration
func (c *DatabaseConfiguration) Clear() {
	c.events.fire(EventClear, "", nil, true, c)

	statement := fmt.Sprintf("DELETE FROM %s", c.table)
	var args []interface{}
	if c.nameColumn != "" {
		statement += fmt.Sprintf(" WHERE %s = %s", c.nameColumn, c.placeholder(1))
		args = append(args, c.name)
	}
	if _, err := c.db.Exec(statement, args...); err != nil {
		c.events.fireError(EventClear, "", &LoadError{Source: c.table, Err: err}, c)
	}

	c.events.fire(EventClear, "", nil, false, c)
}

func (c *DatabaseConfiguration) Size() int {
	query := fmt.Sprintf("SELECT COUNT(DISTINCT %s) FROM %s", c.keyColumn, c.table)
	var args []interface{}
	if c.nameColumn != "" {
		query += fmt.Sprintf(" WHERE %s = %s", c.nameColumn, c.placeholder(1))
		args = append(args, c.name)
	}

	var count int
	if err := c.db.QueryRow(query, args...).Scan(&count); err != nil {
		c.events.fireError(EventRead, "", &LoadError{Source: c.table, Err: err}, c)
		return 0
	}
	return count
}

func (c *DatabaseConfiguration) IsEmpty() bool {
	return c.Size() == 0
}

func (c *DatabaseConfiguration) Subset(prefix string) Configuration {
	return NewSubsetConfiguration(c, prefix)
}

func (c *DatabaseConfiguration) Interpolator() *Interpolator {
	return c.interp
}

func (c *DatabaseConfiguration) Events() *EventSource {
	return &c.events
}

func (c *DatabaseConfiguration) ListDelimiter() string {
	return c.listDelimiter
}
