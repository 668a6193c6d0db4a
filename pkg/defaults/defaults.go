// Package defaults provides a durable, process-spanning store of command
// line option default values. Values are saved in a single-row SQLite table
// in the secrets environment directory so they can be used across multiple
// CLI invocations, and can be reset to built-in defaults when necessary.
package defaults

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/davedittrich/ocd/pkg/db"
	"github.com/davedittrich/ocd/pkg/logger"
	"github.com/davedittrich/ocd/pkg/secrets"
)

// DBFileName is the fixed name of the backing store under the environment directory.
const DBFileName = "defaults.db"

// ErrUnknownField is returned by Get and Set for names outside the fixed field set.
var ErrUnknownField = errors.New("unknown defaults field")

// Kind is the declared type of a defaults field.
type Kind string

const (
	KindFloat Kind = "float"
	KindInt   Kind = "int"
	KindText  Kind = "text"
)

// Record holds the typed in-memory state of the store. The field set and
// order are fixed at build time and correspond positionally to the columns
// of the defaults table.
type Record struct {
	CodexTemperature     float64
	CodexMaxTokens       int64
	CodexModelID         string
	EditModelID          string
	EmbeddingModelID     string
	Environment          string
	ImagesMaxN           int64
	ImagesMaxPrompt      int64
	ImagesN              int64
	ImagesResponseFormat string
	ImagesSize           string
	MaxTokens            int64
	ModelID              string
	N                    int64
	Temperature          float64
}

// fieldSpec maps a field name to its type tag, column, built-in default and
// accessors. It exists only so that load, save, reset, and display logic can
// stay generic while Record itself stays compile-time typed.
type fieldSpec struct {
	name   string
	kind   Kind
	column string
	def    any
	get    func(*Record) any
	set    func(*Record, any)
}

// Choices constrains the values accepted by Set for enumerated fields.
var Choices = map[string][]string{
	"IMAGES_SIZE":            {"256x256", "512x512", "1024x1024"},
	"IMAGES_RESPONSE_FORMAT": {"b64_json", "url"},
}

// The order here must match the column order of the defaults table so that
// positional reads and writes stay in sync.
var fields = []fieldSpec{
	{
		name: "CODEX_TEMPERATURE", kind: KindFloat, column: "codex_temperature", def: 0.9,
		get: func(r *Record) any { return r.CodexTemperature },
		set: func(r *Record, v any) { r.CodexTemperature = v.(float64) },
	},
	{
		name: "CODEX_MAX_TOKENS", kind: KindInt, column: "codex_max_tokens", def: int64(500),
		get: func(r *Record) any { return r.CodexMaxTokens },
		set: func(r *Record, v any) { r.CodexMaxTokens = v.(int64) },
	},
	{
		name: "CODEX_MODEL_ID", kind: KindText, column: "codex_model_id", def: "code-davinci-002",
		get: func(r *Record) any { return r.CodexModelID },
		set: func(r *Record, v any) { r.CodexModelID = v.(string) },
	},
	{
		name: "EDIT_MODEL_ID", kind: KindText, column: "edit_model_id", def: "text-davinci-edit-001",
		get: func(r *Record) any { return r.EditModelID },
		set: func(r *Record, v any) { r.EditModelID = v.(string) },
	},
	{
		name: "EMBEDDING_MODEL_ID", kind: KindText, column: "embedding_model_id", def: "text-embedding-ada-002",
		get: func(r *Record) any { return r.EmbeddingModelID },
		set: func(r *Record, v any) { r.EmbeddingModelID = v.(string) },
	},
	{
		name: "ENVIRONMENT", kind: KindText, column: "environment", def: nil, // resolved at reset time
		get: func(r *Record) any { return r.Environment },
		set: func(r *Record, v any) { r.Environment = v.(string) },
	},
	{
		name: "IMAGES_MAX_N", kind: KindInt, column: "images_max_n", def: int64(10),
		get: func(r *Record) any { return r.ImagesMaxN },
		set: func(r *Record, v any) { r.ImagesMaxN = v.(int64) },
	},
	{
		name: "IMAGES_MAX_PROMPT", kind: KindInt, column: "images_max_prompt", def: int64(1000),
		get: func(r *Record) any { return r.ImagesMaxPrompt },
		set: func(r *Record, v any) { r.ImagesMaxPrompt = v.(int64) },
	},
	{
		name: "IMAGES_N", kind: KindInt, column: "images_n", def: int64(1),
		get: func(r *Record) any { return r.ImagesN },
		set: func(r *Record, v any) { r.ImagesN = v.(int64) },
	},
	{
		name: "IMAGES_RESPONSE_FORMAT", kind: KindText, column: "images_response_format", def: "b64_json",
		get: func(r *Record) any { return r.ImagesResponseFormat },
		set: func(r *Record, v any) { r.ImagesResponseFormat = v.(string) },
	},
	{
		name: "IMAGES_SIZE", kind: KindText, column: "images_size", def: "512x512",
		get: func(r *Record) any { return r.ImagesSize },
		set: func(r *Record, v any) { r.ImagesSize = v.(string) },
	},
	{
		name: "MAX_TOKENS", kind: KindInt, column: "max_tokens", def: int64(16),
		get: func(r *Record) any { return r.MaxTokens },
		set: func(r *Record, v any) { r.MaxTokens = v.(int64) },
	},
	{
		name: "MODEL_ID", kind: KindText, column: "model_id", def: "gpt-3.5-turbo",
		get: func(r *Record) any { return r.ModelID },
		set: func(r *Record, v any) { r.ModelID = v.(string) },
	},
	{
		name: "N", kind: KindInt, column: "n", def: int64(1),
		get: func(r *Record) any { return r.N },
		set: func(r *Record, v any) { r.N = v.(int64) },
	},
	{
		name: "TEMPERATURE", kind: KindFloat, column: "temperature", def: 0.9,
		get: func(r *Record) any { return r.Temperature },
		set: func(r *Record, v any) { r.Temperature = v.(float64) },
	},
}

func specFor(name string) (*fieldSpec, error) {
	for i := range fields {
		if fields[i].name == name {
			return &fields[i], nil
		}
	}
	return nil, errors.Wrap(ErrUnknownField, name)
}

// FieldNames returns the fixed field names in declared order.
func FieldNames() []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.name
	}
	return names
}

// Row is a single (field name, declared type, current value) triple for display.
type Row struct {
	Name  string
	Kind  Kind
	Value string
}

// Store is the on-disk single-row settings cache. It is exclusively owned by
// the running CLI session; no concurrent access is contemplated.
type Store struct {
	path     string
	db       *sqlx.DB
	rec      Record
	snapshot string
}

// Open opens (creating if necessary) the backing store at a fixed filename
// under dir. A missing table or empty table triggers first-time
// initialization to built-in defaults followed by an immediate save. Any
// other storage error is surfaced unchanged.
func Open(ctx context.Context, dir string) (*Store, error) {
	s := &Store{path: filepath.Join(dir, DBFileName)}

	sqlDB, err := db.Open(ctx, s.path)
	if err != nil {
		return nil, err
	}
	s.db = sqlDB

	if err := s.load(ctx); err != nil {
		if db.IsMissingTable(err) || errors.Is(err, sql.ErrNoRows) {
			s.ResetToDefaults()
			if err := s.Save(ctx); err != nil {
				sqlDB.Close()
				return nil, err
			}
		} else {
			sqlDB.Close()
			return nil, err
		}
	}

	s.snapshot = s.serialize()
	return s, nil
}

// Path returns the location of the backing store file.
func (s *Store) Path() string {
	return s.path
}

// Record returns a copy of the current in-memory state.
func (s *Store) Record() Record {
	return s.rec
}

// load reads the one authoritative row into memory, positionally.
func (s *Store) load(ctx context.Context) error {
	dest := make([]any, len(fields))
	for i := range fields {
		switch fields[i].kind {
		case KindFloat:
			dest[i] = new(float64)
		case KindInt:
			dest[i] = new(int64)
		default:
			dest[i] = new(string)
		}
	}

	row := s.db.QueryRowContext(ctx, "SELECT * FROM defaults LIMIT 1")
	if err := row.Scan(dest...); err != nil {
		return err
	}

	for i := range fields {
		switch v := dest[i].(type) {
		case *float64:
			fields[i].set(&s.rec, *v)
		case *int64:
			fields[i].set(&s.rec, *v)
		case *string:
			fields[i].set(&s.rec, *v)
		}
	}
	return nil
}

// Save persists the current in-memory state as the one authoritative row,
// replacing whatever row was there before.
func (s *Store) Save(ctx context.Context) error {
	createStmt := `CREATE TABLE IF NOT EXISTS defaults (
		codex_temperature REAL,
		codex_max_tokens INTEGER,
		codex_model_id TEXT,
		edit_model_id TEXT,
		embedding_model_id TEXT,
		environment TEXT,
		images_max_n INTEGER,
		images_max_prompt INTEGER,
		images_n INTEGER,
		images_response_format TEXT,
		images_size TEXT,
		max_tokens INTEGER,
		model_id TEXT,
		n INTEGER,
		temperature REAL
	)`
	if _, err := s.db.ExecContext(ctx, createStmt); err != nil {
		return errors.Wrap(err, "failed to create defaults table")
	}

	if _, err := s.db.ExecContext(ctx, "DELETE FROM defaults"); err != nil {
		return errors.Wrap(err, "failed to clear defaults table")
	}

	args := make([]any, len(fields))
	for i := range fields {
		args[i] = fields[i].get(&s.rec)
	}
	if _, err := s.db.ExecContext(ctx,
		"INSERT INTO defaults VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)", args...); err != nil {
		return errors.Wrap(err, "failed to save defaults")
	}
	return nil
}

// Get reads a single named field.
func (s *Store) Get(name string) (any, error) {
	spec, err := specFor(name)
	if err != nil {
		return nil, err
	}
	return spec.get(&s.rec), nil
}

// Set writes a single named field in memory. The value is coerced to the
// field's declared type; a failed coercion or constraint violation leaves
// the record untouched.
func (s *Store) Set(name string, value any) error {
	spec, err := specFor(name)
	if err != nil {
		return err
	}

	coerced, err := coerce(spec.kind, value)
	if err != nil {
		return errors.Wrapf(err, "invalid value for %s", name)
	}

	if allowed, ok := Choices[name]; ok {
		text := coerced.(string)
		found := false
		for _, choice := range allowed {
			if text == choice {
				found = true
				break
			}
		}
		if !found {
			return errors.Errorf("invalid value for %s: %q (choose from %v)", name, text, allowed)
		}
	}

	spec.set(&s.rec, coerced)
	return nil
}

func coerce(kind Kind, value any) (any, error) {
	switch kind {
	case KindFloat:
		switch v := value.(type) {
		case float64:
			return v, nil
		case int:
			return float64(v), nil
		case int64:
			return float64(v), nil
		case string:
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, errors.Errorf("must be a valid float: %q", v)
			}
			return f, nil
		}
	case KindInt:
		switch v := value.(type) {
		case int64:
			return v, nil
		case int:
			return int64(v), nil
		case string:
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return nil, errors.Errorf("must be a valid integer: %q", v)
			}
			return n, nil
		}
	case KindText:
		if v, ok := value.(string); ok {
			return v, nil
		}
	}
	return nil, errors.Errorf("cannot convert %T to %s", value, kind)
}

// ResetToDefaults overwrites every in-memory field with its built-in
// default. Nothing is persisted until Save is called.
func (s *Store) ResetToDefaults() {
	for i := range fields {
		def := fields[i].def
		if fields[i].name == "ENVIRONMENT" {
			def = secrets.DefaultEnvironment()
		}
		fields[i].set(&s.rec, def)
	}
}

// Changed reports whether the in-memory state has drifted from what was
// loaded when the store was opened.
func (s *Store) Changed() bool {
	return s.serialize() != s.snapshot
}

// serialize produces a canonical form of the current state for change detection.
func (s *Store) serialize() string {
	values := make([]any, len(fields))
	for i := range fields {
		values[i] = fields[i].get(&s.rec)
	}
	data, err := json.Marshal(values)
	if err != nil {
		// All field types are JSON-encodable.
		panic(err)
	}
	return string(data)
}

// Table produces the ordered sequence of (field name, declared type,
// current value) triples for display.
func (s *Store) Table() []Row {
	rows := make([]Row, len(fields))
	for i := range fields {
		rows[i] = Row{
			Name:  fields[i].name,
			Kind:  fields[i].kind,
			Value: fmt.Sprintf("%v", fields[i].get(&s.rec)),
		}
	}
	return rows
}

// Close persists the state if it changed during the session, then closes
// the backing store.
func (s *Store) Close(ctx context.Context) error {
	defer s.db.Close()
	if s.Changed() {
		logger.G(ctx).WithField("path", s.path).Debug("saving changed defaults")
		if err := s.Save(ctx); err != nil {
			return err
		}
		s.snapshot = s.serialize()
	}
	return nil
}

// Delete removes the backing store entirely; used for explicit reset tooling.
func (s *Store) Delete(ctx context.Context) error {
	s.db.Close()
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to delete defaults store")
	}
	logger.G(ctx).WithField("path", s.path).Info("deleted defaults store")
	return nil
}
