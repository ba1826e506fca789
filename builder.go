package strata

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
)

// Supported file formats
const (
	FormatProperties = "properties"
	FormatYAML       = "yaml"
	FormatJSON       = "json"
	FormatTOML       = "toml"
)

// FileConfiguration is a configuration bound to a file on disk
type FileConfiguration interface {
	Configuration
	Load(path string) error
	Save(path string) error
	Path() string
	SetListDelimiter(delimiter string)
}

// BuilderOption customizes a FileConfigurationBuilder
type BuilderOption func(*FileConfigurationBuilder)

// WithFormat forces a file format instead of detecting it from the
// extension
func WithFormat(format string) BuilderOption {
	return func(b *FileConfigurationBuilder) { b.format = format }
}

// WithListDelimiter sets the list delimiter of created configurations;
// the empty string disables splitting
func WithListDelimiter(delimiter string) BuilderOption {
	return func(b *FileConfigurationBuilder) {
		b.listDelimiter = delimiter
		b.hasDelimiter = true
	}
}

// WithLogger routes builder and reload diagnostics to a logger
func WithLogger(logger Logger) BuilderOption {
	return func(b *FileConfigurationBuilder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithReloading attaches a reloading strategy; Start must be called for
// active strategies to take effect
func WithReloading(strategy ReloadingStrategy) BuilderOption {
	return func(b *FileConfigurationBuilder) { b.strategy = strategy }
}

// FileConfigurationBuilder creates and caches a file-backed
// configuration. The cached result is returned until ResetResult is
// called or the reloading strategy reports a change; the next access
// then re-reads the file.
type FileConfigurationBuilder struct {
	mutex  sync.Mutex
	events EventSource

	path          string
	format        string
	listDelimiter string
	hasDelimiter  bool
	logger        Logger
	strategy      ReloadingStrategy

	result FileConfiguration
	stale  bool
}

// NewFileBuilder creates a builder for the given file. The format is
// detected from the extension unless WithFormat overrides it.
func NewFileBuilder(path string, options ...BuilderOption) *FileConfigurationBuilder {
	b := &FileConfigurationBuilder{
		path:   path,
		logger: NopLogger{},
	}
	for _, option := range options {
		option(b)
	}
	if b.format == "" {
		b.format = DetectFormat(path)
	}
	return b
}

// DetectFormat maps a file extension to a configuration format. Unknown
// extensions fall back to the properties format.
func DetectFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	case ".toml":
		return FormatTOML
	default:
		return FormatProperties
	}
}

// Path returns the file the builder reads
func (b *FileConfigurationBuilder) Path() string {
	return b.path
}

// Format returns the effective file format
func (b *FileConfigurationBuilder) Format() string {
	return b.format
}

func (b *FileConfigurationBuilder) Events() *EventSource {
	return &b.events
}

// Configuration returns the managed configuration, creating or
// re-reading it when necessary
func (b *FileConfigurationBuilder) Configuration() (FileConfiguration, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if b.result != nil && !b.stale {
		if b.strategy == nil || !b.strategy.NeedsReload(b.path) {
			return b.result, nil
		}
		b.logger.Info("configuration out of date, reloading", map[string]interface{}{"path": b.path})
	}

	configuration, err := b.create()
	if err != nil {
		b.events.fireError(EventResultCreated, b.path, err, b)
		return nil, err
	}

	if b.strategy != nil {
		b.strategy.Reloaded(b.path)
	}
	b.result = configuration
	b.stale = false
	b.events.fire(EventResultCreated, b.path, configuration, false, b)
	b.logger.Debug("configuration created", map[string]interface{}{
		"path":   b.path,
		"format": b.format,
	})
	return configuration, nil
}

func (b *FileConfigurationBuilder) create() (FileConfiguration, error) {
	var configuration FileConfiguration
	switch b.format {
	case FormatProperties:
		configuration = NewPropertiesConfiguration()
	case FormatYAML:
		configuration = NewYAMLConfiguration()
	case FormatJSON:
		configuration = NewJSONConfiguration()
	case FormatTOML:
		configuration = NewTOMLConfiguration()
	default:
		return nil, fmt.Errorf("unsupported configuration format %q", b.format)
	}

	if b.hasDelimiter {
		configuration.SetListDelimiter(b.listDelimiter)
	}
	if err := configuration.Load(b.path); err != nil {
		return nil, err
	}
	return configuration, nil
}

// ResetResult discards the cached configuration; the next access
// re-reads the file
func (b *FileConfigurationBuilder) ResetResult() {
	b.mutex.Lock()
	b.stale = true
	b.mutex.Unlock()
	b.events.fire(EventResultReset, b.path, nil, false, b)
}

// Save writes the cached configuration back to its file
func (b *FileConfigurationBuilder) Save() error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if b.result == nil {
		return fmt.Errorf("no configuration to save")
	}
	if err := b.result.Save(b.path); err != nil {
		b.events.fireError(EventWrite, b.path, err, b)
		return err
	}
	return nil
}

// Start activates the reloading strategy, if any. The strategy stops
// when the context is canceled or Stop is called.
func (b *FileConfigurationBuilder) Start(ctx context.Context) error {
	if b.strategy == nil {
		return nil
	}
	return b.strategy.Start(ctx, b.path, func() {
		b.logger.Info("configuration reload triggered", map[string]interface{}{"path": b.path})
		b.ResetResult()
	})
}

// Stop deactivates the reloading strategy
func (b *FileConfigurationBuilder) Stop() {
	if b.strategy != nil {
		b.strategy.Stop()
	}
}
