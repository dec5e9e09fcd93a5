package session

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/agentstation/mnemosyne/internal/registry"
	"github.com/agentstation/mnemosyne/pkg/errors"
	"github.com/agentstation/mnemosyne/pkg/library"
	"github.com/agentstation/mnemosyne/pkg/logging"
	"github.com/agentstation/mnemosyne/pkg/records"
	"github.com/agentstation/mnemosyne/pkg/results"
)

type commandSpec struct {
	usage   string
	summary string
	run     func(ctx context.Context, s *Session, cmd command) error
}

var commands map[string]commandSpec

func init() {
	commands = map[string]commandSpec{
		"search":        {"search <field> <terms>", "Search the library; fields are t, a, r, n, c", runSearch},
		"list":          {"list", "List every record in the library", runList},
		"display":       {"display", "Show the current results again", runDisplay},
		"open":          {"open <index>", "Show every field of a result", runOpen},
		"edit":          {"edit <index> [field]", "Edit one field, or all fields, of a result", runEdit},
		"delete":        {"delete <index>", "Remove a result from the library", runDelete},
		"new":           {"new", "Add a record to the library", runNew},
		"commit":        {"commit", "Save the library to disk", runCommit},
		"newlib":        {"newlib [name]", "Create and open a new library", runNewLib},
		"openlib":       {"openlib <name>", "Save the current library and open another", runOpenLib},
		"switchdefault": {"switchdefault", "Make the current library the default", runSwitchDefault},
		"libs":          {"libs", "List registered libraries", runLibs},
		"help":          {"help [command]", "Show command help", runHelp},
		"quit":          {"quit", "Save and exit", runQuit},
		"exit":          {"exit", "Save and exit", runQuit},
	}
}

func lookup(name string) (commandSpec, bool) {
	spec, ok := commands[name]
	return spec, ok
}

func usageError(name, message string) error {
	return errors.NewValidationError("parameters", name, fmt.Sprintf("%s (usage: %s)", message, commands[name].usage))
}

func parseIndex(name string, args []string) (int, error) {
	if len(args) == 0 {
		return 0, usageError(name, "missing result index")
	}
	i, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, errors.NewValidationError("result index", args[0], "must be an integer")
	}
	return i, nil
}

// resolve maps a result index to its entry in the active library.
func (s *Session) resolve(i int) (results.Entry, error) {
	if err := s.requireLibrary(); err != nil {
		return results.Entry{}, err
	}
	if s.set.Len() > 0 && s.set.Library() != s.lib.Name() {
		return results.Entry{}, errors.NewValidationError("results", s.set.Library(), "results belong to another library")
	}
	return s.set.Resolve(i)
}

func (s *Session) show(set *results.Set) error {
	s.set = set
	if set.Len() == 0 {
		s.printf("Not found.\n")
		return nil
	}
	return s.renderer.Results(s.out, set)
}

func runSearch(ctx context.Context, s *Session, cmd command) error {
	if err := s.requireLibrary(); err != nil {
		return err
	}
	if len(cmd.Args) < 2 {
		return usageError(cmd.Name, "missing field or search terms")
	}
	field, err := records.ParseField(cmd.Args[0])
	if err != nil {
		return err
	}
	terms := strings.Join(cmd.Args[1:], " ")

	set, err := results.Search(s.lib, field, terms)
	if err != nil {
		return err
	}
	logging.FromContext(ctx).Debug().
		Str("field", field.String()).
		Int("matches", set.Len()).
		Msg("Search complete")
	return s.show(set)
}

func runList(_ context.Context, s *Session, _ command) error {
	if err := s.requireLibrary(); err != nil {
		return err
	}
	return s.show(results.All(s.lib))
}

func runDisplay(_ context.Context, s *Session, _ command) error {
	if s.set.Len() == 0 {
		s.printf("Nothing to display.\n")
		return nil
	}
	return s.renderer.Results(s.out, s.set)
}

func runOpen(_ context.Context, s *Session, cmd command) error {
	i, err := parseIndex(cmd.Name, cmd.Args)
	if err != nil {
		return err
	}
	entry, err := s.resolve(i)
	if err != nil {
		return err
	}
	return s.renderer.Record(s.out, i, entry)
}

func runEdit(ctx context.Context, s *Session, cmd command) error {
	i, err := parseIndex(cmd.Name, cmd.Args)
	if err != nil {
		return err
	}
	var field records.Field
	if len(cmd.Args) > 1 {
		if field, err = records.ParseField(cmd.Args[1]); err != nil {
			return err
		}
	}
	entry, err := s.resolve(i)
	if err != nil {
		return err
	}

	var values records.Values
	if field != "" {
		v, err := s.collector.CollectField(ctx, field, entry.Record.Get(field))
		if err != nil {
			return err
		}
		values = records.Values{field: v}
	} else {
		values, err = s.collector.CollectRecord(ctx, fmt.Sprintf("Edit [%d] %s", i, entry.Record), entry.Record.Values())
		if err != nil {
			return err
		}
	}

	updated, err := entry.Record.Apply(values)
	if err != nil {
		return err
	}
	if err := s.lib.ReplaceAt(entry.Origin, updated); err != nil {
		return err
	}
	if err := s.set.Replace(i, updated); err != nil {
		return err
	}

	logging.FromContext(ctx).Debug().
		Int("index", i).
		Int("origin", entry.Origin).
		Msg("Record updated")
	s.printf("Updated [%d] %s.\n", i, updated)
	return nil
}

func runDelete(ctx context.Context, s *Session, cmd command) error {
	i, err := parseIndex(cmd.Name, cmd.Args)
	if err != nil {
		return err
	}
	entry, err := s.resolve(i)
	if err != nil {
		return err
	}
	if err := s.lib.DeleteAt(entry.Origin); err != nil {
		return err
	}

	set, err := s.set.Rebuild(s.lib)
	if err != nil {
		s.set = &results.Set{}
		return err
	}
	s.set = set

	logging.FromContext(ctx).Debug().
		Int("index", i).
		Int("origin", entry.Origin).
		Msg("Record deleted")
	s.printf("Deleted %s.\n", entry.Record)
	return nil
}

func runNew(ctx context.Context, s *Session, _ command) error {
	if err := s.requireLibrary(); err != nil {
		return err
	}
	values, err := s.collector.CollectRecord(ctx, "New record", records.Values{})
	if err != nil {
		return err
	}
	rec, err := records.New(values)
	if err != nil {
		return err
	}
	pos, err := s.lib.Append(rec)
	if err != nil {
		return err
	}
	logging.FromContext(ctx).Debug().Int("origin", pos).Msg("Record added")
	s.printf("Added %s.\n", rec)
	return nil
}

func runCommit(ctx context.Context, s *Session, _ command) error {
	if err := s.requireLibrary(); err != nil {
		return err
	}
	if err := s.lib.Commit(); err != nil {
		return err
	}
	logging.FromContext(ctx).Debug().Str("library", s.lib.Name()).Msg("Committed")
	s.printf("Saved %d records to %s.\n", s.lib.Len(), s.lib.Name())
	return nil
}

func runNewLib(ctx context.Context, s *Session, cmd command) error {
	name := ""
	if len(cmd.Args) > 0 {
		name = cmd.Rest
	} else {
		var err error
		if name, err = s.collector.CollectLine(ctx, "Enter library name (no spaces): "); err != nil {
			return err
		}
		name = strings.TrimSpace(name)
	}
	if err := registry.ValidateName(name); err != nil {
		return err
	}
	if s.registry.Has(name) {
		return errors.WrapResource("create", "library", name, errors.ErrAlreadyExists)
	}
	path := library.Path(s.dataDir, name)
	if _, err := os.Stat(path); err == nil {
		return errors.WrapResource("create", "library", name, errors.ErrAlreadyExists)
	}

	s.printf("Now create the first entry in your new library.\n")
	values, err := s.collector.CollectRecord(ctx, "First record of "+name, records.Values{})
	if err != nil {
		return err
	}
	first, err := records.New(values)
	if err != nil {
		return err
	}

	lib, err := s.registry.CreateLibrary(s.dataDir, name, false, first)
	if err != nil {
		return err
	}

	if err := s.swap(lib); err != nil {
		return err
	}
	logging.FromContext(ctx).Info().Str("library", name).Msg("Library created")
	s.printf("%s created and now open.\n", name)
	return nil
}

func runOpenLib(ctx context.Context, s *Session, cmd command) error {
	if len(cmd.Args) == 0 {
		return usageError(cmd.Name, "missing library name")
	}
	name := cmd.Rest
	if name == s.activeName() {
		s.printf("%s is already open.\n", name)
		return nil
	}

	lib, err := s.load(name)
	if err != nil {
		return err
	}
	if err := s.swap(lib); err != nil {
		return err
	}
	logging.FromContext(ctx).Debug().Str("library", name).Msg("Library opened")
	s.printf("%s is now open.\n", name)
	return nil
}

// swap commits and releases the active library, makes next active and
// clears the result set. If the commit fails next is released and the
// active library stays open.
func (s *Session) swap(next *library.Library) error {
	if s.lib != nil {
		if err := s.lib.Commit(); err != nil {
			_ = next.Close()
			return err
		}
		if err := s.lib.Close(); err != nil {
			s.logger.Warn().Err(err).Str("library", s.lib.Name()).Msg("Releasing library lock failed")
		}
	}
	s.lib = next
	s.set = &results.Set{}
	return nil
}

func runSwitchDefault(_ context.Context, s *Session, _ command) error {
	if err := s.requireLibrary(); err != nil {
		return err
	}
	if err := s.registry.SetDefault(s.lib.Name()); err != nil {
		return err
	}
	if err := s.registry.Save(); err != nil {
		return err
	}
	s.printf("Default library changed to %s.\n", s.lib.Name())
	return nil
}

func runLibs(_ context.Context, s *Session, _ command) error {
	if s.registry.Len() == 0 {
		s.printf("No libraries registered.\n")
		return nil
	}
	return s.renderer.Libraries(s.out, s.registry.Entries(), s.activeName())
}

func runHelp(_ context.Context, s *Session, cmd command) error {
	if len(cmd.Args) > 0 {
		spec, ok := lookup(strings.ToLower(cmd.Args[0]))
		if !ok {
			return errors.NewValidationError("command", cmd.Args[0], "unknown command")
		}
		s.printf("%s\n    %s\n", spec.usage, spec.summary)
		return nil
	}

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		spec := commands[name]
		s.printf("  %-24s %s\n", spec.usage, spec.summary)
	}
	return nil
}

func runQuit(_ context.Context, s *Session, _ command) error {
	return s.quit()
}
