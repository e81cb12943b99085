package rtm

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/vedran77/pulse-mirror/internal/domain"
	"github.com/vedran77/pulse-mirror/internal/repository/memory"
)

func TestNewSessionTakesIdentityFromSnapshot(t *testing.T) {
	s, err := NewSession(memory.NewStore(), loadFixture(t), Identity{}, WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)

	assert.Equal(t, Identity{UserID: aliceID, TeamID: teamID}, s.Identity())
	assert.NotEqual(t, uuid.Nil, s.ID)
	assert.Equal(t, 4, s.Store().Counts().Users)
}

func TestNewSessionRequiresSnapshot(t *testing.T) {
	_, err := NewSession(memory.NewStore(), nil, Identity{})
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestSnapshotSetsRatherThanMerges(t *testing.T) {
	store := memory.NewStore()
	_, err := store.UpsertUser(domain.Partial{"id": []byte(`"U0CJ5PC7L"`), "real_name": []byte(`"stale"`)})
	require.NoError(t, err)

	require.NoError(t, LoadSnapshot(store, loadFixture(t)))

	assert.Empty(t, store.GetUserByID(aliceID).RealName)
	assert.Equal(t, "alice", store.GetUserByID(aliceID).Name)
}

func TestSnapshotSeedsHistoryFromLatest(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, LoadSnapshot(store, loadFixture(t)))

	ch := store.GetChannelByID(testID)
	require.Len(t, ch.History, 1)
	assert.Equal(t, "morning", ch.History[0].Text)
	assert.Equal(t, 0, ch.RecalcUnreads())
}

func TestSessionRunAppliesEventsInOrder(t *testing.T) {
	reg := prometheus.NewRegistry()
	s, err := NewSession(memory.NewStore(), loadFixture(t), Identity{},
		WithLogger(zaptest.NewLogger(t)), WithMetrics(NewMetrics(reg)))
	require.NoError(t, err)

	var frames []string
	sc := bufio.NewScanner(bytes.NewReader(readTestdata(t, "events.jsonl")))
	for sc.Scan() {
		if line := sc.Text(); line != "" {
			frames = append(frames, line)
		}
	}
	require.NoError(t, sc.Err())

	src := &sliceSource{frames: frames}
	require.NoError(t, s.Run(context.Background(), src))

	store := s.Store()
	ch := store.GetChannelByID("C0F3Q8LH5")
	require.NotNil(t, ch)
	assert.Equal(t, "launch", ch.Name)
	assert.Equal(t, []string{aliceID, carolID}, ch.Members)
	require.Len(t, ch.History, 2)
	assert.Equal(t, domain.SubtypeMessageDeleted, ch.History[1].Subtype)
	assert.Equal(t, 1, ch.GetMessageByTs("1448500010.000001").Reaction("tada").Count)
	assert.Equal(t, domain.PresenceAway, store.GetUserByID(bobID).Presence)
	assert.Equal(t, 5, store.Counts().Users)

	assert.Equal(t, 3.0, testutil.ToFloat64(s.metrics.records.WithLabelValues("channels")))

	st := s.Status()
	assert.Equal(t, s.ID, st.Session)
	assert.Equal(t, aliceID, st.UserID)
	assert.Equal(t, 3, st.Counts.Channels)
	assert.Equal(t, uint64(len(frames)), st.Applied+st.Rejected)
	assert.Equal(t, uint64(1), st.Rejected)
	assert.False(t, st.LastEvent.IsZero())
}

type failingSource struct{ err error }

func (f failingSource) Run(context.Context, func([]byte) error) error { return f.err }
func (f failingSource) Close() error                                  { return nil }

func TestSessionRunReportsSourceFailure(t *testing.T) {
	s, err := NewSession(memory.NewStore(), loadFixture(t), Identity{})
	require.NoError(t, err)

	boom := errors.New("connection reset")
	err = s.Run(context.Background(), failingSource{err: boom})
	assert.ErrorIs(t, err, boom)

	assert.NoError(t, s.Run(context.Background(), failingSource{err: context.Canceled}))
}
