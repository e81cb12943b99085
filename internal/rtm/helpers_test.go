package rtm

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/vedran77/pulse-mirror/internal/domain"
	"github.com/vedran77/pulse-mirror/internal/repository/file"
	"github.com/vedran77/pulse-mirror/internal/repository/memory"
)

const (
	aliceID   = "U0CJ5PC7L"
	bobID     = "U0CHZA86Q"
	carolID   = "U0F3LFX6K"
	botUserID = "U0EUYE1E0"
	generalID = "C0CHZA86Q"
	testID    = "C0CJ25PDM"
	groupID   = "G0CHZSXFW"
	dmID      = "D0CHZQWNP"
	botID     = "B0EV07BEH"
	teamID    = "T0CHZBU59"
)

func loadFixture(t *testing.T) *domain.Snapshot {
	t.Helper()
	snap, err := file.NewSnapshotFile("testdata/rtm_start.json").Load(context.Background())
	require.NoError(t, err)
	return snap
}

// fixture returns a store loaded from the snapshot fixture and a dispatcher
// acting as alice.
func fixture(t *testing.T) (*memory.Store, *Dispatcher) {
	t.Helper()
	store := memory.NewStore()
	require.NoError(t, LoadSnapshot(store, loadFixture(t)))
	d := NewDispatcher(store, Identity{UserID: aliceID, TeamID: teamID}, WithLogger(zaptest.NewLogger(t)))
	return store, d
}

func dispatch(t *testing.T, d *Dispatcher, frame string) {
	t.Helper()
	require.NoError(t, d.DispatchRaw([]byte(frame)))
}

// sliceSource replays fixed frames and then reports the context's error.
type sliceSource struct {
	frames []string
	closed bool
}

func (s *sliceSource) Run(ctx context.Context, fn func([]byte) error) error {
	for _, f := range s.frames {
		if err := fn([]byte(f)); err != nil {
			return err
		}
	}
	return context.Canceled
}

func (s *sliceSource) Close() error {
	s.closed = true
	return nil
}

func readTestdata(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile("testdata/" + name)
	require.NoError(t, err)
	return data
}
