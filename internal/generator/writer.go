package generator

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vanshika/citynav/internal/domain"
	"github.com/vanshika/citynav/internal/mapdata"
)

// WriteMap saves the map to path, creating parent directories. The encoding
// follows the file extension.
func WriteMap(m domain.WorldMap, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := mapdata.Save(path, m); err != nil {
		return fmt.Errorf("write map %s: %w", path, err)
	}
	return nil
}

// EncodeMap writes the map to w in the given format.
func EncodeMap(w io.Writer, m domain.WorldMap, format mapdata.Format) error {
	out, err := mapdata.Encode(m, format)
	if err != nil {
		return fmt.Errorf("encode map: %w", err)
	}
	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("write map: %w", err)
	}
	return nil
}
