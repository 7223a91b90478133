package weave

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// FilesystemDefinitionStore persists StoredDefinitions as a single YAML
// manifest file per directory.
type FilesystemDefinitionStore struct {
	mu       sync.Mutex
	manifest string // path to the manifest YAML file
}

type filesystemStorageDriver struct{}

func init() {
	RegisterStorageDriver(StorageDriverNameFilesystem, &filesystemStorageDriver{})
}

// Open treats connectionString as a directory path; the manifest file
// lives at "<dir>/definitions.yaml".
func (filesystemStorageDriver) Open(connectionString string) (DefinitionStore, error) {
	if err := os.MkdirAll(connectionString, manifestDirPerm); err != nil {
		return nil, NewStorageError(errMsgManifestDirCreate, err)
	}
	return &FilesystemDefinitionStore{
		manifest: filepath.Join(connectionString, manifestFileName),
	}, nil
}

// NewFilesystemDefinitionStore opens (or creates) a manifest-backed store
// rooted at dir.
func NewFilesystemDefinitionStore(dir string) (*FilesystemDefinitionStore, error) {
	store, err := (filesystemStorageDriver{}).Open(dir)
	if err != nil {
		return nil, err
	}
	return store.(*FilesystemDefinitionStore), nil
}

type manifestFile struct {
	Definitions []*StoredDefinition `yaml:"definitions"`
}

func (s *FilesystemDefinitionStore) readLocked() (*manifestFile, error) {
	data, err := os.ReadFile(s.manifest)
	if os.IsNotExist(err) {
		return &manifestFile{}, nil
	}
	if err != nil {
		return nil, NewStorageError(errMsgManifestRead, err)
	}
	var m manifestFile
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, NewStorageError(errMsgManifestDecode, err)
	}
	return &m, nil
}

func (s *FilesystemDefinitionStore) writeLocked(m *manifestFile) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return NewStorageError(errMsgManifestEncode, err)
	}
	if err := os.WriteFile(s.manifest, data, manifestFilePerm); err != nil {
		return NewStorageError(errMsgManifestWrite, err)
	}
	return nil
}

func (s *FilesystemDefinitionStore) Get(ctx context.Context, name string) (*StoredDefinition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.readLocked()
	if err != nil {
		return nil, err
	}
	for _, def := range m.Definitions {
		if def.Name == name {
			return def, nil
		}
	}
	return nil, NewDefinitionNotFoundError(name)
}

func (s *FilesystemDefinitionStore) Save(ctx context.Context, def *StoredDefinition) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.readLocked()
	if err != nil {
		return err
	}
	cp := *def
	cp.UpdatedAt = time.Now()

	replaced := false
	for i, existing := range m.Definitions {
		if existing.Name == def.Name {
			m.Definitions[i] = &cp
			replaced = true
			break
		}
	}
	if !replaced {
		m.Definitions = append(m.Definitions, &cp)
	}
	return s.writeLocked(m)
}

func (s *FilesystemDefinitionStore) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.readLocked()
	if err != nil {
		return err
	}
	out := m.Definitions[:0]
	found := false
	for _, def := range m.Definitions {
		if def.Name == name {
			found = true
			continue
		}
		out = append(out, def)
	}
	if !found {
		return NewDefinitionNotFoundError(name)
	}
	m.Definitions = out
	return s.writeLocked(m)
}

func (s *FilesystemDefinitionStore) List(ctx context.Context) ([]*StoredDefinition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.readLocked()
	if err != nil {
		return nil, err
	}
	out := append([]*StoredDefinition(nil), m.Definitions...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *FilesystemDefinitionStore) Close() error { return nil }

const (
	manifestFileName = "definitions.yaml"
	manifestDirPerm  = 0o755
	manifestFilePerm = 0o644

	errMsgManifestDirCreate = "filesystem store: create manifest directory"
	errMsgManifestRead      = "filesystem store: read manifest"
	errMsgManifestDecode    = "filesystem store: decode manifest"
	errMsgManifestEncode    = "filesystem store: encode manifest"
	errMsgManifestWrite     = "filesystem store: write manifest"
)
