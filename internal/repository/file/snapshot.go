package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/vedran77/pulse-mirror/internal/domain"
	"github.com/vedran77/pulse-mirror/internal/repository"
)

// SnapshotFile reads a snapshot saved as a connection-start JSON payload.
type SnapshotFile struct {
	path string
}

var _ repository.SnapshotSource = (*SnapshotFile)(nil)

func NewSnapshotFile(path string) *SnapshotFile {
	return &SnapshotFile{path: path}
}

func (f *SnapshotFile) Load(ctx context.Context) (*domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fh, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot: %w", err)
	}
	defer fh.Close()

	return DecodeSnapshot(fh)
}

func DecodeSnapshot(r io.Reader) (*domain.Snapshot, error) {
	var snap domain.Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return &snap, nil
}
