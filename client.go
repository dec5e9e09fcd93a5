// Package mnemosyne manages personal catalogs of books and other media.
//
// A catalog ("library") is a JSON file of records in a data directory. A
// registry file in the same directory lists the known libraries and which
// one opens by default. The Client opens, creates and lists libraries
// through that registry; records are edited with the library and results
// packages.
//
// Example usage:
//
//	client, err := mnemosyne.New(mnemosyne.WithDataDir("/home/me/catalogs"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	lib, err := client.OpenDefault()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer lib.Close()
//
//	set, err := results.Search(lib, records.Attribution, "asimov")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for i, e := range set.Entries() {
//	    fmt.Printf("[%d]: %s\n", i, e.Record)
//	}
package mnemosyne

import (
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/agentstation/mnemosyne/internal/registry"
	"github.com/agentstation/mnemosyne/pkg/errors"
	"github.com/agentstation/mnemosyne/pkg/library"
	"github.com/agentstation/mnemosyne/pkg/logging"
	"github.com/agentstation/mnemosyne/pkg/records"
)

// LibraryInfo describes a registered library.
type LibraryInfo struct {
	Name    string `json:"name" yaml:"name"`
	Default bool   `json:"default" yaml:"default"`
	Path    string `json:"path" yaml:"path"`
}

// Client resolves library names through the registry.
type Client struct {
	options *options
	logger  zerolog.Logger
}

// New creates a Client with the given options.
func New(opts ...Option) (*Client, error) {
	o, err := defaults().apply(opts...)
	if err != nil {
		return nil, err
	}

	logger := logging.Default()
	if o.logger != nil {
		logger = o.logger
	}

	return &Client{
		options: o,
		logger:  logger.With().Str("data_dir", o.dataDir).Logger(),
	}, nil
}

// DataDir returns the data directory.
func (c *Client) DataDir() string { return c.options.dataDir }

// RegistryFile returns the registry file name inside the data directory.
func (c *Client) RegistryFile() string { return c.options.registryFile }

// RegistryPath returns the registry file path.
func (c *Client) RegistryPath() string {
	return filepath.Join(c.options.dataDir, c.options.registryFile)
}

// LibraryPath returns the file path of the named library.
func (c *Client) LibraryPath(name string) string {
	return library.Path(c.options.dataDir, name)
}

func (c *Client) registry() (*registry.Registry, error) {
	return registry.LoadOrEmpty(c.RegistryPath())
}

// Libraries lists registered libraries in registration order.
func (c *Client) Libraries() ([]LibraryInfo, error) {
	reg, err := c.registry()
	if err != nil {
		return nil, err
	}
	entries := reg.Entries()
	out := make([]LibraryInfo, 0, len(entries))
	for _, e := range entries {
		out = append(out, LibraryInfo{Name: e.Name, Default: e.IsDefault, Path: c.LibraryPath(e.Name)})
	}
	return out, nil
}

// Open opens a registered library. The caller must Close it.
func (c *Client) Open(name string) (*library.Library, error) {
	reg, err := c.registry()
	if err != nil {
		return nil, err
	}
	if !reg.Has(name) {
		return nil, errors.NewNotFoundError("library", name)
	}
	return library.Load(c.LibraryPath(name), name)
}

// OpenDefault opens the default library.
func (c *Client) OpenDefault() (*library.Library, error) {
	reg, err := c.registry()
	if err != nil {
		return nil, err
	}
	def, ok := reg.Default()
	if !ok {
		return nil, errors.NewNotFoundError("library", "default")
	}
	return library.Load(c.LibraryPath(def.Name), def.Name)
}

// CreateLibrary writes a new library holding recs and registers it. The
// first library registered becomes the default, as does any created with
// makeDefault. The returned library is open and must be closed.
func (c *Client) CreateLibrary(name string, recs []*records.Record, makeDefault bool) (*library.Library, error) {
	if err := registry.ValidateName(name); err != nil {
		return nil, err
	}
	reg, err := c.registry()
	if err != nil {
		return nil, err
	}
	lib, err := reg.CreateLibrary(c.options.dataDir, name, makeDefault, recs...)
	if err != nil {
		return nil, err
	}

	c.logger.Info().
		Str("library", name).
		Int("records", lib.Len()).
		Msg("Library created")
	return lib, nil
}

// SetDefault makes a registered library the default.
func (c *Client) SetDefault(name string) error {
	reg, err := c.registry()
	if err != nil {
		return err
	}
	if err := reg.SetDefault(name); err != nil {
		return err
	}
	return reg.Save()
}
