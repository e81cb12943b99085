package rtm

// EventType enumerates every event the mirror understands. Message events
// are keyed by subtype and carry a "message::" tag.
type EventType int

const (
	EventUnknown EventType = iota

	ChannelArchive
	ChannelCreated
	ChannelDeleted
	ChannelHistoryChanged
	ChannelJoined
	ChannelLeft
	ChannelMarked
	ChannelRename
	ChannelUnarchive

	GroupArchive
	GroupClose
	GroupHistoryChanged
	GroupJoined
	GroupLeft
	GroupMarked
	GroupOpen
	GroupRename
	GroupUnarchive

	IMClose
	IMCreated
	IMHistoryChanged
	IMMarked
	IMOpen

	Message
	MessageChannelJoin
	MessageChannelLeave
	MessageChannelName
	MessageChannelPurpose
	MessageChannelTopic
	MessageGroupJoin
	MessageGroupLeave
	MessageGroupName
	MessageGroupPurpose
	MessageGroupTopic
	MessageChanged
	MessageDeleted

	ReactionAdded
	ReactionRemoved

	PrefChange
	UserChange
	UserTyping

	ManualPresenceChange
	PresenceChange

	TeamDomainChange
	TeamJoin
	TeamPrefChange
	TeamRename

	BotAdded
	BotChanged

	numEventTypes
)

const messagePrefix = "message::"

var eventTags = [numEventTypes]string{
	EventUnknown: "",

	ChannelArchive:        "channel_archive",
	ChannelCreated:        "channel_created",
	ChannelDeleted:        "channel_deleted",
	ChannelHistoryChanged: "channel_history_changed",
	ChannelJoined:         "channel_joined",
	ChannelLeft:           "channel_left",
	ChannelMarked:         "channel_marked",
	ChannelRename:         "channel_rename",
	ChannelUnarchive:      "channel_unarchive",

	GroupArchive:        "group_archive",
	GroupClose:          "group_close",
	GroupHistoryChanged: "group_history_changed",
	GroupJoined:         "group_joined",
	GroupLeft:           "group_left",
	GroupMarked:         "group_marked",
	GroupOpen:           "group_open",
	GroupRename:         "group_rename",
	GroupUnarchive:      "group_unarchive",

	IMClose:          "im_close",
	IMCreated:        "im_created",
	IMHistoryChanged: "im_history_changed",
	IMMarked:         "im_marked",
	IMOpen:           "im_open",

	Message:               "message",
	MessageChannelJoin:    messagePrefix + "channel_join",
	MessageChannelLeave:   messagePrefix + "channel_leave",
	MessageChannelName:    messagePrefix + "channel_name",
	MessageChannelPurpose: messagePrefix + "channel_purpose",
	MessageChannelTopic:   messagePrefix + "channel_topic",
	MessageGroupJoin:      messagePrefix + "group_join",
	MessageGroupLeave:     messagePrefix + "group_leave",
	MessageGroupName:      messagePrefix + "group_name",
	MessageGroupPurpose:   messagePrefix + "group_purpose",
	MessageGroupTopic:     messagePrefix + "group_topic",
	MessageChanged:        messagePrefix + "message_changed",
	MessageDeleted:        messagePrefix + "message_deleted",

	ReactionAdded:   "reaction_added",
	ReactionRemoved: "reaction_removed",

	PrefChange: "pref_change",
	UserChange: "user_change",
	UserTyping: "user_typing",

	ManualPresenceChange: "manual_presence_change",
	PresenceChange:       "presence_change",

	TeamDomainChange: "team_domain_change",
	TeamJoin:         "team_join",
	TeamPrefChange:   "team_pref_change",
	TeamRename:       "team_rename",

	BotAdded:   "bot_added",
	BotChanged: "bot_changed",
}

var tagIndex = func() map[string]EventType {
	m := make(map[string]EventType, numEventTypes)
	for t := EventUnknown + 1; t < numEventTypes; t++ {
		m[eventTags[t]] = t
	}
	return m
}()

func (t EventType) String() string {
	if t <= EventUnknown || t >= numEventTypes {
		return "unknown"
	}
	return eventTags[t]
}

// ParseEventType resolves a wire tag and optional message subtype. Message
// subtypes without a dedicated entry resolve to the generic Message type;
// any other unrecognised tag resolves to EventUnknown.
func ParseEventType(tag, subtype string) EventType {
	if tag == "message" {
		if subtype == "" {
			return Message
		}
		if t, ok := tagIndex[messagePrefix+subtype]; ok {
			return t
		}
		return Message
	}
	if t, ok := tagIndex[tag]; ok && t != Message {
		return t
	}
	return EventUnknown
}
