package rtm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEveryEventTypeHasOneHandler(t *testing.T) {
	seen := make(map[EventType]Family)
	for _, r := range Registries() {
		for _, et := range r.Types() {
			prev, dup := seen[et]
			require.False(t, dup, "%s registered by %s and %s", et, prev, r.Family())
			seen[et] = r.Family()
		}
	}

	for et := EventUnknown + 1; et < numEventTypes; et++ {
		assert.Contains(t, seen, et, "%s has no handler", et)
		assert.NotEmpty(t, eventTags[et], "event type %d has no tag", et)
	}
	assert.NotContains(t, seen, EventUnknown)
}

func TestScopedHandlers(t *testing.T) {
	scoped := map[EventType]bool{
		ChannelLeft:          true,
		GroupLeft:            true,
		PrefChange:           true,
		ManualPresenceChange: true,
		TeamDomainChange:     true,
		TeamRename:           true,
		TeamPrefChange:       true,
	}
	for _, r := range Registries() {
		for _, et := range r.Types() {
			h, ok := r.Lookup(et)
			require.True(t, ok)
			assert.Equal(t, scoped[et], h.IsScoped(), "%s", et)
		}
	}
}

func TestParseEventType(t *testing.T) {
	for et := EventUnknown + 1; et < numEventTypes; et++ {
		if et >= Message && et <= MessageDeleted {
			continue
		}
		assert.Equal(t, et, ParseEventType(et.String(), ""), "%s", et)
	}

	assert.Equal(t, Message, ParseEventType("message", ""))
	assert.Equal(t, MessageChannelJoin, ParseEventType("message", "channel_join"))
	assert.Equal(t, MessageDeleted, ParseEventType("message", "message_deleted"))
	assert.Equal(t, Message, ParseEventType("message", "channel_archive"))
	assert.Equal(t, Message, ParseEventType("message", "bot_message"))

	assert.Equal(t, EventUnknown, ParseEventType("dnd_updated", ""))
	assert.Equal(t, EventUnknown, ParseEventType("", ""))
	assert.Equal(t, "unknown", EventUnknown.String())
}

func TestRegistryIsACopy(t *testing.T) {
	src := map[EventType]Handler{ChannelArchive: noop}
	r := newRegistry(FamilyChannel, src)
	delete(src, ChannelArchive)

	_, ok := r.Lookup(ChannelArchive)
	assert.True(t, ok)
	assert.Equal(t, "channel", r.Family().String())
}
