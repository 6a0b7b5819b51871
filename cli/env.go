package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/warp/shiftlock/factory"
	"github.com/warp/shiftlock/logging"
	"github.com/warp/shiftlock/shift"
	"github.com/warp/shiftlock/shift/store"
	"github.com/warp/shiftlock/store/sqlite"
)

// session is what a command runs against: a store, the rules in force and
// the output settings.
type session struct {
	store  shift.Store
	db     *sqlite.Store // nil unless --db was given
	rules  *factory.Ruleset
	out    io.Writer
	json   bool
	logger *slog.Logger

	statePath string
	mem       *store.Memory
}

func openSession(cmd *cobra.Command, opts *options) (*session, error) {
	ctx := cmd.Context()
	s := &session{
		out:    cmd.OutOrStdout(),
		json:   opts.output == "json",
		logger: logging.New(cmd.ErrOrStderr(), opts.logLevel, "text"),
	}

	switch {
	case opts.dbPath != "":
		db, err := sqlite.New(opts.dbPath)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		s.db, s.store = db, db
	case opts.statePath != "":
		st, err := readStateFile(opts.statePath)
		if err != nil {
			return nil, err
		}
		s.mem = store.NewMemoryFromState(st)
		s.store, s.statePath = s.mem, opts.statePath
	default:
		s.mem = store.NewMemory()
		s.store = s.mem
	}

	rules, err := s.loadRules(ctx, opts.rulesPath)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.rules = rules
	s.logger.Debug("session opened", "db", opts.dbPath, "state", opts.statePath, "ruleset", rules.ID)
	return s, nil
}

func (s *session) loadRules(ctx context.Context, path string) (*factory.Ruleset, error) {
	f := factory.NewRulesFactory()
	if path != "" {
		return f.ParseFile(path)
	}
	if s.db != nil {
		rec, err := s.db.GetRuleset(ctx, sqlite.ActiveRulesetID)
		if err != nil {
			return nil, err
		}
		if rec != nil {
			return f.Parse(rec.ConfigJSON)
		}
	}
	return factory.DefaultRuleset(), nil
}

// Save persists a state file. Database writes are already durable.
func (s *session) Save(ctx context.Context) error {
	if s.statePath == "" {
		return nil
	}
	st, err := s.mem.LoadState(ctx)
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.statePath, append(b, '\n'), 0o600); err != nil {
		return fmt.Errorf("write state %s: %w", s.statePath, err)
	}
	s.logger.Debug("state saved", "path", s.statePath, "days", len(st.Shifts))
	return nil
}

func (s *session) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// readStateFile decodes a state export. A missing file is an empty state so
// that the first "day" command can create it.
func readStateFile(path string) (shift.State, error) {
	st := shift.NewState()
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return st, nil
	}
	if err != nil {
		return st, fmt.Errorf("read state %s: %w", path, err)
	}
	if err := json.Unmarshal(b, &st); err != nil {
		return st, fmt.Errorf("parse state %s: %w", path, err)
	}
	if st.Shifts == nil {
		st.Shifts = shift.Shifts{}
	}
	return st, nil
}

func (s *session) writeJSON(v any) error {
	enc := json.NewEncoder(s.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// withSession opens a session around fn and closes it afterwards.
func withSession(opts *options, fn func(cmd *cobra.Command, s *session, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, opts)
		if err != nil {
			return err
		}
		defer s.Close()
		return fn(cmd, s, args)
	}
}
