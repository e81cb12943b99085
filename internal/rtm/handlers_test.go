package rtm

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedran77/pulse-mirror/internal/domain"
)

func TestArchiveAndUnarchive(t *testing.T) {
	store, d := fixture(t)

	dispatch(t, d, `{"type":"channel_archive","channel":"C0CJ25PDM","user":"U0CJ5PC7L"}`)
	assert.True(t, store.GetChannelByID(testID).IsArchived)
	dispatch(t, d, `{"type":"channel_unarchive","channel":"C0CJ25PDM","user":"U0CJ5PC7L"}`)
	assert.False(t, store.GetChannelByID(testID).IsArchived)

	dispatch(t, d, `{"type":"group_archive","channel":"G0CHZSXFW"}`)
	assert.True(t, store.GetGroupByID(groupID).IsArchived)
	dispatch(t, d, `{"type":"group_unarchive","channel":"G0CHZSXFW"}`)
	assert.False(t, store.GetGroupByID(groupID).IsArchived)
}

func TestRename(t *testing.T) {
	store, d := fixture(t)

	dispatch(t, d, `{"type":"channel_rename","channel":{"id":"C0CJ25PDM","name":"test-channel-rename","created":1444155008}}`)
	dispatch(t, d, `{"type":"group_rename","channel":{"id":"G0CHZSXFW","name":"test-group-rename","created":1444152619}}`)

	assert.Equal(t, "test-channel-rename", store.GetChannelByID(testID).Name)
	assert.Equal(t, "test-group-rename", store.GetGroupByID(groupID).Name)
	assert.Nil(t, store.GetChannelByName("test"))
}

func TestChannelCreatedReplaces(t *testing.T) {
	store, d := fixture(t)

	dispatch(t, d, `{"type":"channel_created","channel":{"id":"C0F3Q8LH5","name":"new-channel","created":1448500000,"creator":"U0CJ5PC7L"}}`)
	ch := store.GetChannelByID("C0F3Q8LH5")
	require.NotNil(t, ch)
	assert.Equal(t, "new-channel", ch.Name)

	dispatch(t, d, `{"type":"channel_created","channel":{"id":"C0CJ25PDM","name":"recreated"}}`)
	ch = store.GetChannelByID(testID)
	assert.Equal(t, "recreated", ch.Name)
	assert.Empty(t, ch.Members)
}

func TestChannelJoinedMerges(t *testing.T) {
	store, d := fixture(t)

	dispatch(t, d, `{"type":"channel_joined","channel":{"id":"C0CJ25PDM","members":["U0CJ5PC7L","U0F3LFX6K"],"is_member":true}}`)

	ch := store.GetChannelByID(testID)
	assert.Equal(t, []string{aliceID, carolID}, ch.Members)
	assert.Equal(t, "test", ch.Name)
	assert.Equal(t, "1448496740.000001", ch.LastRead)
}

func TestGroupJoinedMerges(t *testing.T) {
	store, d := fixture(t)

	dispatch(t, d, `{"type":"group_joined","channel":{"id":"G0CHZSXFW","members":["U0CJ5PC7L","U0F3LFX6K"]}}`)
	g := store.GetGroupByID(groupID)
	assert.Len(t, g.Members, 2)
	assert.Equal(t, carolID, g.Members[1])
	assert.Equal(t, "private", g.Name)

	dispatch(t, d, `{"type":"group_joined","channel":{"id":"G1NEW","name":"fresh","members":["U0CJ5PC7L"]}}`)
	assert.NotNil(t, store.GetGroupByName("fresh"))
}

func TestChannelLeft(t *testing.T) {
	store, d := fixture(t)

	dispatch(t, d, `{"type":"channel_left","channel":"C0CJ25PDM","user":"U0F3LFX6K"}`)
	ch := store.GetChannelByID(testID)
	assert.NotContains(t, ch.Members, carolID)
	assert.False(t, ch.IsMember)

	// no user means the active user left
	dispatch(t, d, `{"type":"channel_left","channel":"C0CHZA86Q"}`)
	assert.Equal(t, []string{bobID}, store.GetChannelByID(generalID).Members)
}

func TestGroupLeftArchivesWhenEmpty(t *testing.T) {
	store, d := fixture(t)

	dispatch(t, d, `{"type":"group_joined","channel":{"id":"G0CHZSXFW","members":["U0CJ5PC7L","U0F3LFX6K"]}}`)
	dispatch(t, d, `{"type":"group_left","channel":"G0CHZSXFW","user":"U0F3LFX6K"}`)
	g := store.GetGroupByID(groupID)
	assert.Equal(t, []string{aliceID}, g.Members)
	assert.False(t, g.IsArchived)

	dispatch(t, d, `{"type":"group_left","channel":"G0CHZSXFW"}`)
	assert.Empty(t, g.Members)
	assert.True(t, g.IsArchived)
}

func TestMarkedClearsUnreads(t *testing.T) {
	for _, tc := range []struct{ tag, id string }{
		{"channel_marked", testID},
		{"group_marked", groupID},
		{"im_marked", dmID},
	} {
		t.Run(tc.tag, func(t *testing.T) {
			store, d := fixture(t)
			c := store.GetChannelGroupOrDMByID(tc.id).Base()
			c.LastRead = "0"
			c.AddMessage(&domain.Message{TS: "1448496750.000001"})
			c.AddMessage(&domain.Message{TS: "1448496760.000001"})
			before := c.RecalcUnreads()
			require.Positive(t, before)

			dispatch(t, d, `{"type":"`+tc.tag+`","channel":"`+tc.id+`","ts":"1448496760.000001"}`)
			assert.Equal(t, "1448496760.000001", c.LastRead)
			assert.Equal(t, 0, c.RecalcUnreads())
		})
	}
}

func TestIMOpenCloseCreated(t *testing.T) {
	store, d := fixture(t)

	dispatch(t, d, `{"type":"im_close","user":"U0CHZA86Q","channel":"D0CHZQWNP"}`)
	assert.False(t, store.GetDMByID(dmID).IsOpen)
	dispatch(t, d, `{"type":"im_open","user":"U0CHZA86Q","channel":"D0CHZQWNP"}`)
	assert.True(t, store.GetDMByID(dmID).IsOpen)

	dispatch(t, d, `{"type":"im_created","user":"U0F3LFX6K","channel":{"id":"D0F3LFX6K","is_im":true,"is_open":true}}`)
	dm := store.GetDMByName("carol")
	require.NotNil(t, dm)
	assert.Equal(t, "D0F3LFX6K", dm.ID)
}

func TestNoopEvents(t *testing.T) {
	store, d := fixture(t)
	before := store.Counts()

	for _, frame := range []string{
		`{"type":"channel_history_changed","latest":"1358877455.000010","ts":"1361482916.000003"}`,
		`{"type":"group_close","user":"U0CJ5PC7L","channel":"G0CHZSXFW"}`,
		`{"type":"group_open","user":"U0CJ5PC7L","channel":"G0CHZSXFW"}`,
		`{"type":"group_history_changed"}`,
		`{"type":"im_history_changed"}`,
	} {
		dispatch(t, d, frame)
	}
	assert.Equal(t, before, store.Counts())
	assert.True(t, store.GetGroupByID(groupID).IsOpen)
}

func TestMessageAppendsToHistory(t *testing.T) {
	store, d := fixture(t)
	ch := store.GetChannelByID(testID)
	ch.StartedTyping(carolID)

	dispatch(t, d, `{"type":"message","channel":"C0CJ25PDM","user":"U0F3LFX6K","text":"hi","ts":"1448496750.000002","team":"T0CHZBU59"}`)
	dispatch(t, d, `{"type":"message","subtype":"channel_archive","channel":"C0CJ25PDM","user":"U0CJ5PC7L","text":"archived","ts":"1448496760.000001"}`)

	require.Len(t, ch.History, 3)
	assert.Equal(t, "hi", ch.History[1].Text)
	assert.Equal(t, "channel_archive", ch.History[2].Subtype)
	assert.Same(t, ch.Latest, ch.History[2])
	assert.Equal(t, 2, ch.RecalcUnreads())

	_, typing := ch.TypingAt(carolID)
	assert.False(t, typing)
}

func TestMemberJoinAndLeaveMessages(t *testing.T) {
	store, d := fixture(t)

	dispatch(t, d, `{"type":"message","subtype":"channel_join","channel":"C0CHZA86Q","user":"U0F3LFX6K","text":"<@U0F3LFX6K|carol> has joined the channel","ts":"1448496770.000001"}`)
	general := store.GetChannelByID(generalID)
	assert.Contains(t, general.Members, carolID)
	assert.Len(t, general.History, 1)

	dispatch(t, d, `{"type":"message","subtype":"group_leave","channel":"G0CHZSXFW","user":"U0F3LFX6K","text":"<@U0F3LFX6K|carol> has left the group","ts":"1448496771.000001"}`)
	g := store.GetGroupByID(groupID)
	assert.NotContains(t, g.Members, carolID)
	assert.Len(t, g.History, 1)
}

func TestLeaveMessageArchivesEmptiedGroup(t *testing.T) {
	store, d := fixture(t)

	dispatch(t, d, `{"type":"group_joined","channel":{"id":"G0NEW0001","name":"side","is_group":true,"members":["U0F3LFX6K"]}}`)
	require.False(t, store.GetGroupByID("G0NEW0001").IsArchived)

	dispatch(t, d, `{"type":"message","subtype":"group_leave","channel":"G0NEW0001","user":"U0F3LFX6K","text":"<@U0F3LFX6K|carol> has left the group","ts":"1448496790.000001"}`)
	g := store.GetGroupByID("G0NEW0001")
	assert.Empty(t, g.Members)
	assert.True(t, g.IsArchived)
}

func TestLeaveMessageKeepsEmptiedChannelOpen(t *testing.T) {
	store, d := fixture(t)
	ch := store.GetChannelByID(testID)
	ch.Members = []string{carolID}

	dispatch(t, d, `{"type":"message","subtype":"channel_leave","channel":"C0CJ25PDM","user":"U0F3LFX6K","text":"<@U0F3LFX6K|carol> has left the channel","ts":"1448496791.000001"}`)
	assert.Empty(t, ch.Members)
	assert.False(t, ch.IsArchived)
}

func TestTopicPurposeAndName(t *testing.T) {
	store, d := fixture(t)

	dispatch(t, d, `{"type":"message","subtype":"channel_topic","channel":"C0CJ25PDM","user":"U0CJ5PC7L","topic":"release day","text":"set the channel topic: release day","ts":"1448496780.000001"}`)
	dispatch(t, d, `{"type":"message","subtype":"group_purpose","channel":"G0CHZSXFW","user":"U0F3LFX6K","purpose":"secrets","text":"set the purpose","ts":"1448496781.000001"}`)
	dispatch(t, d, `{"type":"message","subtype":"channel_name","channel":"C0CHZA86Q","user":"U0CJ5PC7L","old_name":"general","name":"everyone","ts":"1448496782.000001"}`)

	ch := store.GetChannelByID(testID)
	assert.Equal(t, domain.Topic{Value: "release day", Creator: aliceID, LastSet: 1448496780}, ch.Topic)
	assert.Equal(t, "secrets", store.GetGroupByID(groupID).Purpose.Value)
	assert.Equal(t, "everyone", store.GetChannelByID(generalID).Name)
	assert.Len(t, ch.History, 2)
}

func TestMessageChanged(t *testing.T) {
	store, d := fixture(t)
	ch := store.GetChannelByID(testID)
	ch.AddMessage(&domain.Message{Type: "message", User: carolID, Text: "Howdy Carol", TS: "1448496754.000002"})

	dispatch(t, d, `{"type":"message","subtype":"message_changed","hidden":true,"channel":"C0CJ25PDM","ts":"1448496755.000003","message":{"type":"message","user":"U0F3LFX6K","text":"Hi carol! :simple_smile:","edited":{"user":"U0F3LFX6K","ts":"1448496755.000000"},"ts":"1448496754.000002"}}`)

	require.Len(t, ch.History, 2)
	assert.Equal(t, "Hi carol! :simple_smile:", ch.History[1].Text)
	assert.Contains(t, ch.History[1].Extra, "edited")
}

func TestMessageDeletedKeepsSlot(t *testing.T) {
	store, d := fixture(t)
	ch := store.GetChannelByID(testID)
	ch.AddMessage(&domain.Message{Type: "message", User: carolID, Text: "I'm going to delete this message Carol", TS: "1448496776.000003"})

	dispatch(t, d, `{"type":"message","subtype":"message_deleted","hidden":true,"channel":"C0CJ25PDM","ts":"1448496777.000001","deleted_ts":"1448496776.000003"}`)

	require.Len(t, ch.History, 2)
	assert.Equal(t, domain.SubtypeMessageDeleted, ch.History[1].Subtype)
	assert.Equal(t, "1448496776.000003", ch.History[1].TS)
}

func TestMessageChangedUnknownTargetIsNoop(t *testing.T) {
	store, d := fixture(t)

	dispatch(t, d, `{"type":"message","subtype":"message_deleted","channel":"C0CJ25PDM","deleted_ts":"1.000001"}`)
	dispatch(t, d, `{"type":"message","subtype":"message_changed","channel":"C0CJ25PDM","message":{"ts":"1.000001","text":"x"}}`)
	dispatch(t, d, `{"type":"message","channel":"C-missing","user":"U0CJ5PC7L","text":"x","ts":"2.000001"}`)

	assert.Len(t, store.GetChannelByID(testID).History, 1)
}

func TestReactionRemove(t *testing.T) {
	store, d := fixture(t)
	add := `{"type":"reaction_added","user":"%s","reaction":"+1","item":{"type":"message","channel":"C0CJ25PDM","ts":"1448496740.000001"}}`
	remove := `{"type":"reaction_removed","user":"%s","reaction":"+1","item":{"type":"message","channel":"C0CJ25PDM","ts":"1448496740.000001"}}`

	dispatch(t, d, fmt.Sprintf(add, aliceID))
	dispatch(t, d, fmt.Sprintf(add, carolID))
	m := store.GetChannelByID(testID).GetMessageByTs("1448496740.000001")
	require.NotNil(t, m.Reaction("+1"))
	assert.Equal(t, 2, m.Reaction("+1").Count)

	dispatch(t, d, fmt.Sprintf(remove, aliceID))
	assert.Equal(t, []string{carolID}, m.Reaction("+1").Users)

	dispatch(t, d, fmt.Sprintf(remove, carolID))
	assert.Nil(t, m.Reaction("+1"))
	assert.Empty(t, m.Reactions)
}

func TestReactionOnFileIsIgnored(t *testing.T) {
	_, d := fixture(t)
	dispatch(t, d, `{"type":"reaction_added","user":"U0CJ5PC7L","reaction":"+1","item":{"type":"file","file":"F0HS27V1Z"}}`)
}

func TestUserTypingAndPrefChange(t *testing.T) {
	store, d := fixture(t)

	dispatch(t, d, `{"type":"user_typing","channel":"D0CHZQWNP","user":"U0CHZA86Q"}`)
	_, ok := store.GetDMByID(dmID).TypingAt(bobID)
	assert.True(t, ok)

	dispatch(t, d, `{"type":"user_typing","channel":"D0CHZQWNP","user":"U0NOBODY1"}`)
	_, ok = store.GetDMByID(dmID).TypingAt("U0NOBODY1")
	assert.False(t, ok)

	dispatch(t, d, `{"type":"pref_change","name":"messages_theme","value":"dense"}`)
	assert.Equal(t, "dense", store.GetUserByID(aliceID).Prefs["messages_theme"])
}

func TestUserChangeAndTeamJoin(t *testing.T) {
	store, d := fixture(t)

	dispatch(t, d, `{"type":"user_change","user":{"id":"U0CHZA86Q","real_name":"Robert"}}`)
	bob := store.GetUserByID(bobID)
	assert.Equal(t, "Robert", bob.RealName)
	assert.Equal(t, "bob", bob.Name)
	assert.Equal(t, "bob@example.com", bob.Profile.Email)

	dispatch(t, d, `{"type":"team_join","user":{"id":"U0NEW0001","name":"dave","profile":{"email":"dave@example.com"}}}`)
	assert.Equal(t, "U0NEW0001", store.GetUserByEmail("dave@example.com").ID)

	dispatch(t, d, `{"type":"team_join","user":{"id":"U0CHZA86Q","name":"bobby"}}`)
	bob = store.GetUserByID(bobID)
	assert.Equal(t, "bobby", bob.Name)
	assert.Empty(t, bob.Profile.Email)
}

func TestPresence(t *testing.T) {
	store, d := fixture(t)

	dispatch(t, d, `{"type":"manual_presence_change","presence":"away"}`)
	assert.Equal(t, domain.PresenceAway, store.GetUserByID(aliceID).Presence)

	dispatch(t, d, `{"type":"presence_change","users":["U0CHZA86Q","U0F3LFX6K","U0GONE"],"presence":"active"}`)
	assert.Equal(t, domain.PresenceActive, store.GetUserByID(bobID).Presence)
	assert.Equal(t, domain.PresenceActive, store.GetUserByID(carolID).Presence)

	dispatch(t, d, `{"type":"presence_change","user":"U0GONE","presence":"away"}`)
	assert.Nil(t, store.GetUserByID("U0GONE"))
}

func TestTeamEvents(t *testing.T) {
	store, d := fixture(t)

	dispatch(t, d, `{"type":"team_domain_change","url":"https://sat2.slack.com/","domain":"sat2"}`)
	dispatch(t, d, `{"type":"team_rename","name":"renamed-team"}`)
	dispatch(t, d, `{"type":"team_pref_change","name":"slackbot_responses_only_admins","value":true}`)

	team := store.GetTeamByID(teamID)
	assert.Equal(t, "sat2", team.Domain)
	assert.Equal(t, "https://sat2.slack.com/", team.URL)
	assert.Equal(t, "renamed-team", team.Name)
	assert.Equal(t, true, team.Prefs["slackbot_responses_only_admins"])
	assert.Equal(t, []any{"C0CHZA86Q"}, team.Prefs["default_channels"])
}

func TestBotEvents(t *testing.T) {
	store, d := fixture(t)

	dispatch(t, d, `{"type":"bot_changed","bot":{"id":"B0EV07BEH","name":"renamed-bot"}}`)
	bot := store.GetBotByUserID(botUserID)
	require.NotNil(t, bot)
	assert.Equal(t, "renamed-bot", bot.Name)
	assert.Equal(t, "https://a.slack-edge.com/bot_48.png", bot.Icons["image_48"])

	dispatch(t, d, `{"type":"bot_added","bot":{"id":"B0NEW","name":"fresh-bot"}}`)
	assert.NotNil(t, store.GetBotByName("fresh-bot"))
}

func TestScopedHandlersWithoutActiveRecords(t *testing.T) {
	store, _ := fixture(t)
	d := NewDispatcher(store, Identity{UserID: "U-nobody", TeamID: "T-nowhere"})

	dispatch(t, d, `{"type":"manual_presence_change","presence":"away"}`)
	dispatch(t, d, `{"type":"pref_change","name":"x","value":1}`)
	dispatch(t, d, `{"type":"team_rename","name":"x"}`)

	assert.Equal(t, "slack-api-test", store.GetTeamByID(teamID).Name)
}
