package config

import (
	"bytes"
	stderrors "errors"
	"os"
	"path/filepath"

	"github.com/arthur-debert/oukaro/pkg/errors"
	"github.com/arthur-debert/oukaro/pkg/filesystem"
	"github.com/arthur-debert/oukaro/pkg/logging"
	"github.com/arthur-debert/oukaro/pkg/types"
	"github.com/pelletier/go-toml/v2"
)

// document mirrors the on-disk TOML layout.
type document struct {
	App *appSection `toml:"app"`
}

type appSection struct {
	SystemApp []string `toml:"system_app"`
	PrivApp   []string `toml:"priv_app"`
}

// FileStore reads and writes the desired-state document.
type FileStore struct {
	fs   types.FS
	path string
}

// NewFileStore returns a store for the document at path.
func NewFileStore(fs types.FS, path string) *FileStore {
	return &FileStore{fs: fs, path: path}
}

// Path returns the document location.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the document and returns both role sets. It never creates the
// file: absence is reported as CONFIG_UNAVAILABLE.
func (s *FileStore) Load() (types.DesiredState, error) {
	logger := logging.GetLogger("config.store")

	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return types.DesiredState{}, errors.Wrapf(err, errors.ErrConfigUnavailable,
				"desired-state file %s does not exist", s.path).
				WithDetail("path", s.path)
		}
		return types.DesiredState{}, errors.Wrapf(err, errors.ErrConfigUnavailable,
			"cannot read desired-state file %s", s.path).
			WithDetail("path", s.path)
	}

	state, err := parseDocument(data)
	if err != nil {
		return types.DesiredState{}, errors.Wrapf(err, errors.ErrConfigMalformed,
			"cannot parse desired-state file %s", s.path).
			WithDetail("path", s.path)
	}

	logger.Debug().
		Str("path", s.path).
		Int("system_app", state.SystemApps.Len()).
		Int("priv_app", state.PrivApps.Len()).
		Msg("Loaded desired state")
	return state, nil
}

// Save writes state atomically with sorted arrays.
func (s *FileStore) Save(state types.DesiredState) error {
	doc := document{App: &appSection{
		SystemApp: state.SystemApps.Strings(),
		PrivApp:   state.PrivApps.Strings(),
	}}

	data, err := toml.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, errors.ErrConfigWrite, "cannot encode desired state")
	}

	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrConfigWrite, "cannot create %s", filepath.Dir(s.path))
	}
	if err := filesystem.WriteFileAtomic(s.fs, s.path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrConfigWrite, "cannot write %s", s.path)
	}
	return nil
}

// Init creates an empty document. It refuses to overwrite an existing file.
func (s *FileStore) Init() error {
	if _, err := s.fs.Stat(s.path); err == nil {
		return errors.Newf(errors.ErrConfigExists, "desired-state file %s already exists", s.path)
	}
	return s.Save(types.NewDesiredState())
}

// Update loads the document, applies fn and saves the result. Nothing is
// written when Load or fn fails, or when fn leaves the state unchanged.
func (s *FileStore) Update(fn func(state *types.DesiredState) error) error {
	state, err := s.Load()
	if err != nil {
		return err
	}
	before := state.Clone()
	if err := fn(&state); err != nil {
		return err
	}
	if state.Equal(before) {
		return nil
	}
	return s.Save(state)
}

func parseDocument(data []byte) (types.DesiredState, error) {
	var doc document
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		var derr *toml.DecodeError
		if stderrors.As(err, &derr) {
			row, col := derr.Position()
			return types.DesiredState{}, errors.Wrapf(err, errors.ErrConfigMalformed,
				"syntax error at line %d column %d", row, col)
		}
		return types.DesiredState{}, err
	}
	if doc.App == nil {
		return types.DesiredState{}, errors.New(errors.ErrConfigMalformed, "missing [app] table")
	}

	state := types.NewDesiredState()
	if err := fill(state.SystemApps, doc.App.SystemApp, "system_app"); err != nil {
		return types.DesiredState{}, err
	}
	if err := fill(state.PrivApps, doc.App.PrivApp, "priv_app"); err != nil {
		return types.DesiredState{}, err
	}
	return state, nil
}

func fill(set types.PackageSet, names []string, key string) error {
	for i, name := range names {
		if err := types.ValidatePackageName(name); err != nil {
			return errors.Wrapf(err, errors.ErrConfigMalformed, "%s[%d] is invalid", key, i).
				WithDetail("key", key).
				WithDetail("index", i)
		}
		set.Add(types.PackageName(name))
	}
	return nil
}
