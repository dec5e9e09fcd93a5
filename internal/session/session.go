package session

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/agentstation/mnemosyne/internal/registry"
	"github.com/agentstation/mnemosyne/pkg/constants"
	"github.com/agentstation/mnemosyne/pkg/errors"
	"github.com/agentstation/mnemosyne/pkg/library"
	"github.com/agentstation/mnemosyne/pkg/logging"
	"github.com/agentstation/mnemosyne/pkg/results"
)

// Prompt is printed before every command line.
const Prompt = "Instructions: "

// Config configures a Session.
type Config struct {
	// DataDir holds the registry and library files.
	DataDir string
	// RegistryFile is the registry file name inside DataDir.
	RegistryFile string
	// Library is opened at start instead of the registry default.
	Library string

	Input     LineReader
	Collector Collector
	Renderer  Renderer
	Out       io.Writer
	Logger    *zerolog.Logger
}

// Session is one interactive run.
type Session struct {
	id        string
	dataDir   string
	initial   string
	registry  *registry.Registry
	lib       *library.Library
	set       *results.Set
	state     State
	input     LineReader
	collector Collector
	renderer  Renderer
	out       io.Writer
	logger    zerolog.Logger
}

// New loads the registry and prepares a session. No library is opened
// until Start.
func New(cfg Config) (*Session, error) {
	if cfg.Collector == nil {
		return nil, errors.NewConfigError("session", "collector is required", nil)
	}
	if cfg.Renderer == nil {
		return nil, errors.NewConfigError("session", "renderer is required", nil)
	}

	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = constants.DefaultDataDir
	}
	registryFile := cfg.RegistryFile
	if registryFile == "" {
		registryFile = constants.DefaultRegistryFile
	}
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}

	reg, err := registry.LoadOrEmpty(filepath.Join(dataDir, registryFile))
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	base := logging.Default()
	if cfg.Logger != nil {
		base = cfg.Logger
	}

	return &Session{
		id:        id,
		dataDir:   dataDir,
		initial:   cfg.Library,
		registry:  reg,
		set:       &results.Set{},
		state:     Idle,
		input:     cfg.Input,
		collector: cfg.Collector,
		renderer:  cfg.Renderer,
		out:       out,
		logger:    base.With().Str("session_id", id).Logger(),
	}, nil
}

// ID returns the session identifier used in logs.
func (s *Session) ID() string { return s.id }

// State returns the dispatcher state.
func (s *Session) State() State { return s.state }

// Library returns the active library, or nil.
func (s *Session) Library() *library.Library { return s.lib }

// Results returns the current result set.
func (s *Session) Results() *results.Set { return s.set }

// Registry returns the catalog registry.
func (s *Session) Registry() *registry.Registry { return s.registry }

// Start opens the configured library, or the registry default. A failure
// is printed and the session continues with no active library.
func (s *Session) Start(ctx context.Context) {
	name := ""
	if e, ok := s.registry.Default(); ok {
		name = e.Name
	}
	if s.initial != "" {
		name = s.initial
	}
	if name == "" {
		s.printf("No default library. Use newlib to create one.\n")
		return
	}

	lib, err := s.load(name)
	if err != nil {
		s.logger.Warn().Err(err).Str("library", name).Msg("Could not open library at start")
		s.printf("Error: %v\n", err)
		return
	}
	s.lib = lib
	s.printf("%s is now open.\n", name)
}

func (s *Session) load(name string) (*library.Library, error) {
	if !s.registry.Has(name) {
		return nil, errors.NewNotFoundError("library", name)
	}
	return library.Load(library.Path(s.dataDir, name), name)
}

// Run reads and executes command lines until quit, end of input or
// cancellation of ctx. It returns the error of the final commit.
func (s *Session) Run(ctx context.Context) error {
	if s.input == nil {
		return errors.NewConfigError("session", "input is required", nil)
	}

	ctx = logging.WithLogger(ctx, &s.logger)
	s.logger.Debug().Msg("Session started")

	for s.state != Quitting {
		line, err := s.input.ReadLine(ctx, Prompt)
		if err != nil {
			if err != io.EOF && ctx.Err() == nil {
				s.logger.Warn().Err(err).Msg("Reading input failed")
			}
			s.printf("\n")
			return s.quit()
		}
		if err := s.Execute(ctx, line); err != nil && s.state == Quitting {
			return err
		}
	}
	return nil
}

// Execute runs one command line. Command failures are printed as
// "Error: ..." and also returned; the session stays usable unless the
// command was quit.
func (s *Session) Execute(ctx context.Context, line string) error {
	if s.state == Quitting {
		return errors.NewValidationError("session", line, "session has ended")
	}

	s.state = Parsing
	cmd, ok := parse(line)
	if !ok {
		s.state = Idle
		return nil
	}

	spec, found := lookup(cmd.Name)
	if !found {
		s.state = Idle
		err := errors.NewValidationError("command", cmd.Name, "invalid command (try help)")
		s.printf("Error: %v\n", err)
		return err
	}

	s.state = Executing
	ctx = logging.WithCommand(ctx, cmd.Name)
	logger := logging.FromContext(ctx)
	logger.Debug().Strs("args", cmd.Args).Msg("Executing command")

	err := spec.run(ctx, s, cmd)
	if s.state != Quitting {
		s.state = Idle
	}
	if err != nil {
		if ctx.Err() != nil {
			logger.Debug().Err(err).Msg("Command canceled")
			return err
		}
		s.printf("Error: %v\n", err)
	}
	return err
}

// Close releases the active library without committing.
func (s *Session) Close() error {
	if s.lib == nil {
		return nil
	}
	err := s.lib.Close()
	s.lib = nil
	return err
}

// quit performs the final commit and ends the session.
func (s *Session) quit() error {
	s.state = Quitting
	if s.lib == nil {
		return nil
	}

	err := s.lib.Commit()
	if err != nil {
		s.logger.Error().Err(err).Str("library", s.lib.Name()).Msg("Final commit failed")
	} else {
		s.logger.Debug().Str("library", s.lib.Name()).Msg("Final commit")
	}
	if cerr := s.Close(); err == nil {
		err = cerr
	}
	return err
}

func (s *Session) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.out, format, args...)
}

// activeName returns the active library name or "".
func (s *Session) activeName() string {
	if s.lib == nil {
		return ""
	}
	return s.lib.Name()
}

func (s *Session) requireLibrary() error {
	if s.lib == nil {
		return fmt.Errorf("%w: use openlib or newlib", errors.ErrNoLibrary)
	}
	return nil
}

// command is a parsed input line.
type command struct {
	Name string
	Args []string
	// Rest is the raw text after the command name.
	Rest string
}

func parse(line string) (command, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return command{}, false
	}
	name := strings.Fields(line)[0]
	rest := strings.TrimSpace(line[len(name):])
	return command{
		Name: strings.ToLower(name),
		Args: strings.Fields(rest),
		Rest: rest,
	}, true
}
