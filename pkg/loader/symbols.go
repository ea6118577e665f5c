package loader

import (
	"reflect"

	"github.com/PancyStudios/DiscModGo/pkg/events"
	"github.com/PancyStudios/DiscModGo/pkg/module"
	"github.com/traefik/yaegi/interp"
)

// Symbols exposes pkg/module and pkg/events to interpreted script modules.
var Symbols = interp.Exports{
	"github.com/PancyStudios/DiscModGo/pkg/module/module": {
		// function, constant and variable definitions
		"New":          reflect.ValueOf(module.New),
		"NewMessage":   reflect.ValueOf(module.NewMessage),
		"NewCommand":   reflect.ValueOf(module.NewCommand),
		"ErrNoSession": reflect.ValueOf(&module.ErrNoSession).Elem(),
		"ErrAttached":  reflect.ValueOf(&module.ErrAttached).Elem(),

		// type definitions
		"Bot":         reflect.ValueOf((*module.Bot)(nil)),
		"Command":     reflect.ValueOf((*module.Command)(nil)),
		"CommandFunc": reflect.ValueOf((*module.CommandFunc)(nil)),
		"Handler":     reflect.ValueOf((*module.Handler)(nil)),
		"Message":     reflect.ValueOf((*module.Message)(nil)),
		"Module":      reflect.ValueOf((*module.Module)(nil)),
	},
	"github.com/PancyStudios/DiscModGo/pkg/events/events": {
		"Name":        reflect.ValueOf((*events.Name)(nil)),
		"EmojiChange": reflect.ValueOf((*events.EmojiChange)(nil)),
		"LogLine":     reflect.ValueOf((*events.LogLine)(nil)),
		"All":         reflect.ValueOf(events.All),
		"Valid":       reflect.ValueOf(events.Valid),

		"Ready":      reflect.ValueOf(events.Ready),
		"Resume":     reflect.ValueOf(events.Resume),
		"Connect":    reflect.ValueOf(events.Connect),
		"Disconnect": reflect.ValueOf(events.Disconnect),
		"RateLimit":  reflect.ValueOf(events.RateLimit),
		"Debug":      reflect.ValueOf(events.Debug),
		"Warn":       reflect.ValueOf(events.Warn),
		"Error":      reflect.ValueOf(events.Error),

		"ChannelCreate":     reflect.ValueOf(events.ChannelCreate),
		"ChannelUpdate":     reflect.ValueOf(events.ChannelUpdate),
		"ChannelDelete":     reflect.ValueOf(events.ChannelDelete),
		"ChannelPinsUpdate": reflect.ValueOf(events.ChannelPinsUpdate),
		"ThreadCreate":      reflect.ValueOf(events.ThreadCreate),
		"ThreadUpdate":      reflect.ValueOf(events.ThreadUpdate),
		"ThreadDelete":      reflect.ValueOf(events.ThreadDelete),

		"GuildCreate":             reflect.ValueOf(events.GuildCreate),
		"GuildUpdate":             reflect.ValueOf(events.GuildUpdate),
		"GuildDelete":             reflect.ValueOf(events.GuildDelete),
		"GuildUnavailable":        reflect.ValueOf(events.GuildUnavailable),
		"GuildBanAdd":             reflect.ValueOf(events.GuildBanAdd),
		"GuildBanRemove":          reflect.ValueOf(events.GuildBanRemove),
		"GuildMemberAdd":          reflect.ValueOf(events.GuildMemberAdd),
		"GuildMemberUpdate":       reflect.ValueOf(events.GuildMemberUpdate),
		"GuildMemberRemove":       reflect.ValueOf(events.GuildMemberRemove),
		"GuildMembersChunk":       reflect.ValueOf(events.GuildMembersChunk),
		"GuildIntegrationsUpdate": reflect.ValueOf(events.GuildIntegrationsUpdate),
		"RoleCreate":              reflect.ValueOf(events.RoleCreate),
		"RoleUpdate":              reflect.ValueOf(events.RoleUpdate),
		"RoleDelete":              reflect.ValueOf(events.RoleDelete),
		"EmojiCreate":             reflect.ValueOf(events.EmojiCreate),
		"EmojiUpdate":             reflect.ValueOf(events.EmojiUpdate),
		"EmojiDelete":             reflect.ValueOf(events.EmojiDelete),

		"MessageUpdate":            reflect.ValueOf(events.MessageUpdate),
		"MessageDelete":            reflect.ValueOf(events.MessageDelete),
		"MessageDeleteBulk":        reflect.ValueOf(events.MessageDeleteBulk),
		"MessageReactionAdd":       reflect.ValueOf(events.MessageReactionAdd),
		"MessageReactionRemove":    reflect.ValueOf(events.MessageReactionRemove),
		"MessageReactionRemoveAll": reflect.ValueOf(events.MessageReactionRemoveAll),
		"PresenceUpdate":           reflect.ValueOf(events.PresenceUpdate),
		"TypingStart":              reflect.ValueOf(events.TypingStart),
		"UserUpdate":               reflect.ValueOf(events.UserUpdate),
		"VoiceStateUpdate":         reflect.ValueOf(events.VoiceStateUpdate),
		"VoiceServerUpdate":        reflect.ValueOf(events.VoiceServerUpdate),
		"WebhookUpdate":            reflect.ValueOf(events.WebhookUpdate),
		"InteractionCreate":        reflect.ValueOf(events.InteractionCreate),
		"InviteCreate":             reflect.ValueOf(events.InviteCreate),
		"InviteDelete":             reflect.ValueOf(events.InviteDelete),

		"Message":     reflect.ValueOf(events.Message),
		"Command":     reflect.ValueOf(events.Command),
		"ModuleInit":  reflect.ValueOf(events.ModuleInit),
		"ModuleReady": reflect.ValueOf(events.ModuleReady),
	},
}
