// Package events defines the closed catalog of event names that the bot relays
// to its modules, and maps discordgo payloads onto those names.
package events

import (
	"sort"

	"github.com/bwmarrin/discordgo"
)

// Name identifies an event kind delivered to modules.
type Name string

// Connection lifecycle
const (
	Ready      Name = "ready"
	Resume     Name = "resume"
	Connect    Name = "connect"
	Disconnect Name = "disconnect"
	RateLimit  Name = "rateLimit"
	Debug      Name = "debug"
	Warn       Name = "warn"
	Error      Name = "error"
)

// Channels and threads
const (
	ChannelCreate     Name = "channelCreate"
	ChannelUpdate     Name = "channelUpdate"
	ChannelDelete     Name = "channelDelete"
	ChannelPinsUpdate Name = "channelPinsUpdate"
	ThreadCreate      Name = "threadCreate"
	ThreadUpdate      Name = "threadUpdate"
	ThreadDelete      Name = "threadDelete"
)

// Guilds, members, roles and emojis
const (
	GuildCreate             Name = "guildCreate"
	GuildUpdate             Name = "guildUpdate"
	GuildDelete             Name = "guildDelete"
	GuildUnavailable        Name = "guildUnavailable"
	GuildBanAdd             Name = "guildBanAdd"
	GuildBanRemove          Name = "guildBanRemove"
	GuildMemberAdd          Name = "guildMemberAdd"
	GuildMemberUpdate       Name = "guildMemberUpdate"
	GuildMemberRemove       Name = "guildMemberRemove"
	GuildMembersChunk       Name = "guildMembersChunk"
	GuildIntegrationsUpdate Name = "guildIntegrationsUpdate"
	RoleCreate              Name = "roleCreate"
	RoleUpdate              Name = "roleUpdate"
	RoleDelete              Name = "roleDelete"
	EmojiCreate             Name = "emojiCreate"
	EmojiUpdate             Name = "emojiUpdate"
	EmojiDelete             Name = "emojiDelete"
)

// Messages, presence and voice
const (
	MessageUpdate            Name = "messageUpdate"
	MessageDelete            Name = "messageDelete"
	MessageDeleteBulk        Name = "messageDeleteBulk"
	MessageReactionAdd       Name = "messageReactionAdd"
	MessageReactionRemove    Name = "messageReactionRemove"
	MessageReactionRemoveAll Name = "messageReactionRemoveAll"
	PresenceUpdate           Name = "presenceUpdate"
	TypingStart              Name = "typingStart"
	UserUpdate               Name = "userUpdate"
	VoiceStateUpdate         Name = "voiceStateUpdate"
	VoiceServerUpdate        Name = "voiceServerUpdate"
	WebhookUpdate            Name = "webhookUpdate"
	InteractionCreate        Name = "interactionCreate"
	InviteCreate             Name = "inviteCreate"
	InviteDelete             Name = "inviteDelete"
)

// Events synthesized by the bot itself. Message and Command replace the raw
// MessageCreate payload; ModuleInit and ModuleReady form the load handshake.
const (
	Message     Name = "message"
	Command     Name = "command"
	ModuleInit  Name = "module-init"
	ModuleReady Name = "module-ready"
)

// relayed lists every name that comes from the gateway (directly or derived).
var relayed = []Name{
	Ready, Resume, Connect, Disconnect, RateLimit, Debug, Warn, Error,
	ChannelCreate, ChannelUpdate, ChannelDelete, ChannelPinsUpdate,
	ThreadCreate, ThreadUpdate, ThreadDelete,
	GuildCreate, GuildUpdate, GuildDelete, GuildUnavailable,
	GuildBanAdd, GuildBanRemove,
	GuildMemberAdd, GuildMemberUpdate, GuildMemberRemove, GuildMembersChunk,
	GuildIntegrationsUpdate,
	RoleCreate, RoleUpdate, RoleDelete,
	EmojiCreate, EmojiUpdate, EmojiDelete,
	MessageUpdate, MessageDelete, MessageDeleteBulk,
	MessageReactionAdd, MessageReactionRemove, MessageReactionRemoveAll,
	PresenceUpdate, TypingStart, UserUpdate,
	VoiceStateUpdate, VoiceServerUpdate, WebhookUpdate,
	InteractionCreate, InviteCreate, InviteDelete,
}

var synthesized = []Name{Message, Command, ModuleInit, ModuleReady}

var known = func() map[Name]struct{} {
	m := make(map[Name]struct{}, len(relayed)+len(synthesized))
	for _, n := range relayed {
		m[n] = struct{}{}
	}
	for _, n := range synthesized {
		m[n] = struct{}{}
	}
	return m
}()

// All returns the relayed catalog followed by the synthesized names.
func All() []Name {
	out := make([]Name, 0, len(relayed)+len(synthesized))
	out = append(out, relayed...)
	return append(out, synthesized...)
}

// Relayed returns only the names that originate from the gateway.
func Relayed() []Name {
	out := make([]Name, len(relayed))
	copy(out, relayed)
	return out
}

// Valid reports whether n belongs to the catalog.
func Valid(n Name) bool {
	_, ok := known[n]
	return ok
}

// Sorted returns All() in lexical order, handy for listings.
func Sorted() []Name {
	out := All()
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ForPayload maps a discordgo event payload to its catalog name. Payloads that
// need special treatment (MessageCreate, GuildEmojisUpdate) or that the bot
// does not relay report false.
func ForPayload(v interface{}) (Name, bool) {
	switch e := v.(type) {
	case *discordgo.Ready:
		return Ready, true
	case *discordgo.Resumed:
		return Resume, true
	case *discordgo.Connect:
		return Connect, true
	case *discordgo.Disconnect:
		return Disconnect, true
	case *discordgo.RateLimit:
		return RateLimit, true
	case *discordgo.ChannelCreate:
		return ChannelCreate, true
	case *discordgo.ChannelUpdate:
		return ChannelUpdate, true
	case *discordgo.ChannelDelete:
		return ChannelDelete, true
	case *discordgo.ChannelPinsUpdate:
		return ChannelPinsUpdate, true
	case *discordgo.ThreadCreate:
		return ThreadCreate, true
	case *discordgo.ThreadUpdate:
		return ThreadUpdate, true
	case *discordgo.ThreadDelete:
		return ThreadDelete, true
	case *discordgo.GuildCreate:
		return GuildCreate, true
	case *discordgo.GuildUpdate:
		return GuildUpdate, true
	case *discordgo.GuildDelete:
		if e.Guild != nil && e.Unavailable {
			return GuildUnavailable, true
		}
		return GuildDelete, true
	case *discordgo.GuildBanAdd:
		return GuildBanAdd, true
	case *discordgo.GuildBanRemove:
		return GuildBanRemove, true
	case *discordgo.GuildMemberAdd:
		return GuildMemberAdd, true
	case *discordgo.GuildMemberUpdate:
		return GuildMemberUpdate, true
	case *discordgo.GuildMemberRemove:
		return GuildMemberRemove, true
	case *discordgo.GuildMembersChunk:
		return GuildMembersChunk, true
	case *discordgo.GuildIntegrationsUpdate:
		return GuildIntegrationsUpdate, true
	case *discordgo.GuildRoleCreate:
		return RoleCreate, true
	case *discordgo.GuildRoleUpdate:
		return RoleUpdate, true
	case *discordgo.GuildRoleDelete:
		return RoleDelete, true
	case *discordgo.MessageUpdate:
		return MessageUpdate, true
	case *discordgo.MessageDelete:
		return MessageDelete, true
	case *discordgo.MessageDeleteBulk:
		return MessageDeleteBulk, true
	case *discordgo.MessageReactionAdd:
		return MessageReactionAdd, true
	case *discordgo.MessageReactionRemove:
		return MessageReactionRemove, true
	case *discordgo.MessageReactionRemoveAll:
		return MessageReactionRemoveAll, true
	case *discordgo.PresenceUpdate:
		return PresenceUpdate, true
	case *discordgo.TypingStart:
		return TypingStart, true
	case *discordgo.UserUpdate:
		return UserUpdate, true
	case *discordgo.VoiceStateUpdate:
		return VoiceStateUpdate, true
	case *discordgo.VoiceServerUpdate:
		return VoiceServerUpdate, true
	case *discordgo.WebhooksUpdate:
		return WebhookUpdate, true
	case *discordgo.InteractionCreate:
		return InteractionCreate, true
	case *discordgo.InviteCreate:
		return InviteCreate, true
	case *discordgo.InviteDelete:
		return InviteDelete, true
	}
	return "", false
}
