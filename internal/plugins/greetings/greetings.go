// Package greetings welcomes members and logs guild membership changes
package greetings

import (
	"fmt"
	"time"

	"github.com/PancyStudios/DiscModGo/pkg/events"
	"github.com/PancyStudios/DiscModGo/pkg/loader"
	"github.com/PancyStudios/DiscModGo/pkg/logger"
	"github.com/PancyStudios/DiscModGo/pkg/module"
	"github.com/bwmarrin/discordgo"
)

// ModuleName is the name of the module built by New
const ModuleName = "Greetings"

func init() {
	loader.Register(New)
}

// New builds the greetings module
func New() *module.Module {
	m := module.New(ModuleName).SetDescription("Bienvenidas, despedidas y registro de servidores")

	module.Subscribe(m, events.GuildMemberAdd, func(e *discordgo.GuildMemberAdd) {
		if e.Member == nil || e.User == nil {
			return
		}
		logger.Info(fmt.Sprintf("👋 Nuevo miembro: %s en servidor %s", e.User.Username, e.GuildID), "Member")
		sendToSystemChannel(m.Bot(), e.GuildID, func(g *discordgo.Guild) *discordgo.MessageEmbed {
			return welcomeEmbed(g, e.User)
		})
	})

	module.Subscribe(m, events.GuildMemberRemove, func(e *discordgo.GuildMemberRemove) {
		if e.Member == nil || e.User == nil {
			return
		}
		logger.Info(fmt.Sprintf("👋 Adiós: %s salió del servidor %s", e.User.Username, e.GuildID), "Member")
		sendToSystemChannel(m.Bot(), e.GuildID, func(g *discordgo.Guild) *discordgo.MessageEmbed {
			return farewellEmbed(g, e.User)
		})
	})

	module.Subscribe(m, events.GuildMemberUpdate, func(e *discordgo.GuildMemberUpdate) {
		if e.Member == nil || e.User == nil || e.BeforeUpdate == nil {
			return
		}
		if e.BeforeUpdate.Nick != e.Nick {
			logger.Debug(fmt.Sprintf("✏️ %s cambió nickname: '%s' → '%s'", e.User.Username, e.BeforeUpdate.Nick, e.Nick), "Member")
		}
		if len(e.BeforeUpdate.Roles) != len(e.Roles) {
			logger.Debug(fmt.Sprintf("🎭 Roles actualizados para %s", e.User.Username), "Member")
		}
	})

	module.Subscribe(m, events.GuildCreate, func(e *discordgo.GuildCreate) {
		if e.Guild == nil {
			return
		}
		logger.Info(fmt.Sprintf("➕ Servidor disponible: %s (ID: %s)", e.Name, e.ID), "Guild")
	})

	module.Subscribe(m, events.GuildDelete, func(e *discordgo.GuildDelete) {
		if e.Guild == nil {
			return
		}
		logger.Info(fmt.Sprintf("➖ Bot removido del servidor ID: %s", e.ID), "Guild")
	})

	module.Subscribe(m, events.GuildUnavailable, func(e *discordgo.GuildDelete) {
		if e.Guild == nil {
			return
		}
		logger.Warn(fmt.Sprintf("⚠️ Servidor no disponible: %s", e.ID), "Guild")
	})

	return m
}

// sendToSystemChannel posts the embed built for the guild to its system
// channel, off the dispatch goroutine.
func sendToSystemChannel(b module.Bot, guildID string, build func(*discordgo.Guild) *discordgo.MessageEmbed) {
	if b == nil || b.Session() == nil {
		return
	}
	s := b.Session()

	go func() {
		guild, err := s.State.Guild(guildID)
		if err != nil {
			if guild, err = s.Guild(guildID); err != nil {
				logger.Error(fmt.Sprintf("Error obteniendo servidor: %v", err), "Member")
				return
			}
		}
		if guild.SystemChannelID == "" {
			return
		}
		if _, err := s.ChannelMessageSendEmbed(guild.SystemChannelID, build(guild)); err != nil {
			logger.Error(fmt.Sprintf("Error enviando mensaje al canal del sistema: %v", err), "Member")
		}
	}()
}

func welcomeEmbed(g *discordgo.Guild, u *discordgo.User) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "¡Bienvenido/a! 🎉",
		Description: fmt.Sprintf("Dale la bienvenida a <@%s>\nAhora somos **%d** miembros.", u.ID, g.MemberCount),
		Color:       0x00ff00,
		Thumbnail:   &discordgo.MessageEmbedThumbnail{URL: u.AvatarURL("128")},
		Footer: &discordgo.MessageEmbedFooter{
			Text:    g.Name,
			IconURL: g.IconURL("64"),
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

func farewellEmbed(g *discordgo.Guild, u *discordgo.User) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Description: fmt.Sprintf("👋 **%s** ha salido del servidor.\nAhora somos **%d** miembros.", u.Username, g.MemberCount),
		Color:       0xe74c3c,
		Thumbnail:   &discordgo.MessageEmbedThumbnail{URL: u.AvatarURL("64")},
		Timestamp:   time.Now().Format(time.RFC3339),
	}
}
