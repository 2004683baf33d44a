// Package state reads and writes the persisted state file of a generated
// project.
//
// The file is a small JSON record read and written as a whole. Writes replace
// the file atomically; concurrent writers are not coordinated and the last
// one wins.
package state

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed persisted_state.schema.json
var schemaBytes []byte

const schemaURL = "persisted_state.schema.json"

var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
)

const flagKey = "has_run_db_migrations"

// PersistedState records facts about stateful operations a project has
// completed. Keys other than the migrations flag are kept as read and
// written back on save.
type PersistedState struct {
	HasRunDBMigrations bool

	extra map[string]json.RawMessage
}

func (s *PersistedState) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if raw, ok := fields[flagKey]; ok {
		if err := json.Unmarshal(raw, &s.HasRunDBMigrations); err != nil {
			return fmt.Errorf("%s: %w", flagKey, err)
		}
		delete(fields, flagKey)
	}
	s.extra = nil
	if len(fields) > 0 {
		s.extra = fields
	}
	return nil
}

func (s PersistedState) MarshalJSON() ([]byte, error) {
	fields := make(map[string]any, len(s.extra)+1)
	for k, v := range s.extra {
		fields[k] = v
	}
	fields[flagKey] = s.HasRunDBMigrations
	return json.Marshal(fields)
}

// PersistedStateError is returned when a state file exists but is malformed.
type PersistedStateError struct {
	Path string
	Err  error
}

func (e *PersistedStateError) Error() string {
	return fmt.Sprintf("malformed persisted state %s: %v", e.Path, e.Err)
}

func (e *PersistedStateError) Unwrap() error {
	return e.Err
}

func getSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
		if err != nil {
			compileErr = fmt.Errorf("unmarshaling schema JSON: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			compileErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(schemaURL)
		if compileErr != nil {
			compileErr = fmt.Errorf("compiling schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

// Load reads the state at path. A missing file yields the zero state.
func Load(path string) (*PersistedState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &PersistedState{}, nil
		}
		return nil, fmt.Errorf("reading persisted state: %w", err)
	}

	schema, err := getSchema()
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, &PersistedStateError{Path: path, Err: err}
	}
	if err := schema.Validate(inst); err != nil {
		return nil, &PersistedStateError{Path: path, Err: err}
	}

	var st PersistedState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, &PersistedStateError{Path: path, Err: err}
	}
	return &st, nil
}

// Save writes st to path, replacing any previous file.
func Save(path string, st *PersistedState) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal persisted state: %w", err)
	}
	return atomicWrite(path, append(data, '\n'))
}

// SetHasRunDBMigrations loads the state at path, sets the migrations flag and
// saves it.
func SetHasRunDBMigrations(path string, value bool) error {
	st, err := Load(path)
	if err != nil {
		return err
	}
	st.HasRunDBMigrations = value
	if err := Save(path, st); err != nil {
		return err
	}
	slog.Debug("persisted state updated", "path", path, "has_run_db_migrations", value)
	return nil
}

func atomicWrite(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename %s -> %s: %w", tmp, path, err)
	}
	return nil
}
