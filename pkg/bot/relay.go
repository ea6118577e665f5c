package bot

import (
	"fmt"
	"time"

	"github.com/PancyStudios/DiscModGo/pkg/events"
	"github.com/PancyStudios/DiscModGo/pkg/logger"
	"github.com/PancyStudios/DiscModGo/pkg/module"
	"github.com/bwmarrin/discordgo"
)

// discordgo.Logger is a package level func, so log lines are fanned out to
// every live Bot and relayed from each Bot's own goroutine.
func init() {
	discordgo.Logger = func(msgL int, caller int, format string, a ...interface{}) {
		msg := fmt.Sprintf(format, a...)

		switch events.ForLogLevel(msgL) {
		case events.Error:
			logger.Error(msg, "DiscordGo")
		case events.Warn:
			logger.Warn(msg, "DiscordGo")
		default:
			logger.Debug(msg, "DiscordGo")
		}

		broadcastLog(events.LogLine{Level: msgL, Message: msg})
	}
}

func broadcastLog(line events.LogLine) {
	ownersMu.Lock()
	defer ownersMu.Unlock()
	for _, b := range owners {
		select {
		case b.logs <- line:
		default:
			// full buffer: drop rather than block the gateway
		}
	}
}

func (b *Bot) pumpLogs() {
	for {
		select {
		case <-b.done:
			return
		case line := <-b.logs:
			b.dispatchMu.Lock()
			b.Dispatch(events.ForLogLevel(line.Level), line)
			b.dispatchMu.Unlock()
		}
	}
}

// relay is the single interface{} handler registered on the session. It
// keeps the bot's own bookkeeping current and forwards catalog events.
func (b *Bot) relay(s *discordgo.Session, e interface{}) {
	b.dispatchMu.Lock()
	defer b.dispatchMu.Unlock()

	b.samplePing()

	switch ev := e.(type) {
	case *discordgo.MessageCreate:
		b.onMessageCreate(s, ev)
		return
	case *discordgo.GuildEmojisUpdate:
		b.onEmojisUpdate(ev)
		return
	case *discordgo.Ready:
		b.mu.Lock()
		b.status = StatusReady
		b.readyAt = time.Now()
		b.mu.Unlock()
		if ev.User != nil {
			logger.Success("Bot conectado como: "+ev.User.Username, "Bot")
		}
	case *discordgo.Resumed:
		b.setStatus(StatusReady)
	case *discordgo.Connect:
		b.setStatus(StatusConnecting)
	case *discordgo.Disconnect:
		b.setStatus(StatusDisconnected)
	case *discordgo.GuildCreate:
		if ev.Guild != nil {
			b.snapshotEmojis(ev.ID, ev.Emojis)
		}
	case *discordgo.GuildDelete:
		if ev.Guild != nil && !ev.Unavailable {
			b.forgetEmojis(ev.ID)
		}
	}

	if name, ok := events.ForPayload(e); ok {
		b.Dispatch(name, e)
	}
}

// onMessageCreate drops the bot's own messages, dispatches "message" and,
// when the content starts with the prefix, "command".
func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m == nil || m.Message == nil || m.Author == nil {
		return
	}
	if self := b.User(); self != nil && m.Author.ID == self.ID {
		return
	}

	msg := module.NewMessage(s, m)
	b.Dispatch(events.Message, msg)

	if cmd, ok := module.NewCommand(msg, b.Prefix()); ok {
		b.Dispatch(events.Command, cmd)
	}
}

// onEmojisUpdate turns discordgo's whole-list emoji update into per-emoji
// create, update and delete events. The session state is already updated
// when handlers run, so the previous list comes from the bot's snapshot.
func (b *Bot) onEmojisUpdate(ev *discordgo.GuildEmojisUpdate) {
	b.emojiMu.Lock()
	before := b.emojis[ev.GuildID]
	b.emojis[ev.GuildID] = copyEmojis(ev.Emojis)
	b.emojiMu.Unlock()

	created, updated, deleted := events.DiffEmojis(ev.GuildID, before, ev.Emojis)
	for _, c := range created {
		b.Dispatch(events.EmojiCreate, c)
	}
	for _, c := range updated {
		b.Dispatch(events.EmojiUpdate, c)
	}
	for _, c := range deleted {
		b.Dispatch(events.EmojiDelete, c)
	}
}

func (b *Bot) snapshotEmojis(guildID string, emojis []*discordgo.Emoji) {
	b.emojiMu.Lock()
	b.emojis[guildID] = copyEmojis(emojis)
	b.emojiMu.Unlock()
}

func (b *Bot) forgetEmojis(guildID string) {
	b.emojiMu.Lock()
	delete(b.emojis, guildID)
	b.emojiMu.Unlock()
}

func copyEmojis(in []*discordgo.Emoji) []*discordgo.Emoji {
	out := make([]*discordgo.Emoji, 0, len(in))
	for _, e := range in {
		if e == nil {
			continue
		}
		c := *e
		out = append(out, &c)
	}
	return out
}
