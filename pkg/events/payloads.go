package events

import "github.com/bwmarrin/discordgo"

// EmojiChange is the payload of emojiCreate, emojiUpdate and emojiDelete.
// Old is nil on create, New is nil on delete.
type EmojiChange struct {
	GuildID string
	Old     *discordgo.Emoji
	New     *discordgo.Emoji
}

// LogLine is the payload of the debug, warn and error events, built from
// discordgo's internal log output.
type LogLine struct {
	Level   int
	Message string
}

// ForLogLevel maps a discordgo log level to debug, warn or error.
func ForLogLevel(level int) Name {
	switch {
	case level <= discordgo.LogError:
		return Error
	case level == discordgo.LogWarning:
		return Warn
	default:
		return Debug
	}
}

// DiffEmojis compares two emoji sets of the same guild and returns the
// create, update and delete events between them, keyed by emoji ID.
func DiffEmojis(guildID string, before, after []*discordgo.Emoji) (created, updated, deleted []EmojiChange) {
	old := make(map[string]*discordgo.Emoji, len(before))
	for _, e := range before {
		if e != nil {
			old[e.ID] = e
		}
	}

	seen := make(map[string]struct{}, len(after))
	for _, e := range after {
		if e == nil {
			continue
		}
		seen[e.ID] = struct{}{}
		prev, ok := old[e.ID]
		switch {
		case !ok:
			created = append(created, EmojiChange{GuildID: guildID, New: e})
		case emojiChanged(prev, e):
			updated = append(updated, EmojiChange{GuildID: guildID, Old: prev, New: e})
		}
	}

	for _, e := range before {
		if e == nil {
			continue
		}
		if _, ok := seen[e.ID]; !ok {
			deleted = append(deleted, EmojiChange{GuildID: guildID, Old: e})
		}
	}
	return created, updated, deleted
}

func emojiChanged(a, b *discordgo.Emoji) bool {
	if a.Name != b.Name || a.Animated != b.Animated || a.Available != b.Available || len(a.Roles) != len(b.Roles) {
		return true
	}
	for i := range a.Roles {
		if a.Roles[i] != b.Roles[i] {
			return true
		}
	}
	return false
}
