package mapdata

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/vanshika/citynav/internal/domain"
	"github.com/vanshika/citynav/internal/pathfind"
)

// FileSource serves a world map from a file and persists connection edits
// back to it.
type FileSource struct {
	path   string
	logger *slog.Logger
	mu     sync.Mutex
}

// NewFileSource returns a source reading path. The file is not opened until
// the first load.
func NewFileSource(path string, logger *slog.Logger) *FileSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileSource{path: path, logger: logger.With("component", "mapfile", "path", path)}
}

// Path returns the backing file.
func (s *FileSource) Path() string { return s.path }

func (s *FileSource) LoadWorldMap(ctx context.Context) (domain.WorldMap, error) {
	if err := ctx.Err(); err != nil {
		return domain.WorldMap{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return Load(s.path)
}

func (s *FileSource) Connect(ctx context.Context, a, b int) error {
	return s.edit(ctx, a, b, func(m *domain.WorldMap) bool { return m.Connect(a, b) })
}

func (s *FileSource) Disconnect(ctx context.Context, a, b int) error {
	return s.edit(ctx, a, b, func(m *domain.WorldMap) bool { return m.Disconnect(a, b) })
}

func (s *FileSource) edit(ctx context.Context, a, b int, apply func(*domain.WorldMap) bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := Load(s.path)
	if err != nil {
		return err
	}
	for _, id := range []int{a, b} {
		if _, ok := m.Node(id); !ok {
			return fmt.Errorf("%w: %d", pathfind.ErrUnknownNode, id)
		}
	}
	if !apply(&m) {
		s.logger.Debug("map unchanged", "a", a, "b", b)
		return nil
	}
	if err := Save(s.path, m); err != nil {
		return err
	}
	s.logger.Info("map file updated", "a", a, "b", b)
	return nil
}
