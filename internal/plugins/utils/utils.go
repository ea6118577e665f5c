// Package utils provides the basic text commands: ping, help, stats and prefix.
package utils

import (
	"fmt"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/PancyStudios/DiscModGo/pkg/config"
	"github.com/PancyStudios/DiscModGo/pkg/errors"
	"github.com/PancyStudios/DiscModGo/pkg/loader"
	"github.com/PancyStudios/DiscModGo/pkg/logger"
	"github.com/PancyStudios/DiscModGo/pkg/module"
	"github.com/bwmarrin/discordgo"
)

// ModuleName is the name of the module built by New
const ModuleName = "Utils"

func init() {
	loader.Register(New)
}

// New builds the utils module
func New() *module.Module {
	m := module.New(ModuleName).SetDescription("Comandos básicos del bot")

	m.OnLoad(func(b module.Bot) {
		logger.Debug(fmt.Sprintf("Comandos de utilidad listos con prefijo %q", b.Prefix()), "Utils")
	})

	m.Command("ping", func(c *module.Command) error {
		b := m.Bot()
		go func() {
			defer errors.RecoverMiddleware()()
			if _, err := c.Reply(pingText(b)); err != nil {
				logger.Warn(fmt.Sprintf("No se pudo responder a ping: %v", err), "Utils")
			}
		}()
		return nil
	})

	m.Command("help", func(c *module.Command) error {
		b := m.Bot()
		go func() {
			defer errors.RecoverMiddleware()()
			c.Reply(helpText(b.Prefix(), b.Modules()))
		}()
		return nil
	})

	m.Command("stats", func(c *module.Command) error {
		b := m.Bot()
		go func() {
			defer errors.RecoverMiddleware()()
			c.SendEmbed(statsEmbed(b))
		}()
		return nil
	})

	m.Command("prefix", func(c *module.Command) error {
		b := m.Bot()
		go func() {
			defer errors.RecoverMiddleware()()
			c.Reply(fmt.Sprintf("🔧 El prefijo actual es `%s`", b.Prefix()))
		}()
		return nil
	})

	return m
}

func pingText(b module.Bot) string {
	return fmt.Sprintf("🏓 Pong! Latencia: %dms", b.Latency().Milliseconds())
}

// helpText lists every registered command word, grouped by module
func helpText(prefix string, mods []*module.Module) string {
	var sb strings.Builder
	sb.WriteString("📖 **Ayuda de DiscMod Go**\n\n**Comandos disponibles:**\n")

	found := false
	for _, m := range mods {
		words := m.Commands()
		if len(words) == 0 {
			continue
		}
		found = true
		sort.Strings(words)
		for _, w := range words {
			fmt.Fprintf(&sb, "• `%s%s` (%s)\n", prefix, w, m.Name())
		}
	}

	if !found {
		sb.WriteString("Ningún módulo registró comandos.\n")
	}
	return sb.String()
}

// statsEmbed builds the stats embed from the bot handle
func statsEmbed(b module.Bot) *discordgo.MessageEmbed {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	guilds, members := 0, 0
	footer := &discordgo.MessageEmbedFooter{Text: "💫 - Developed by PancyStudios"}
	if s := b.Session(); s != nil && s.State != nil {
		s.State.RLock()
		guilds = len(s.State.Guilds)
		for _, g := range s.State.Guilds {
			members += g.MemberCount
		}
		if s.State.User != nil {
			footer.IconURL = s.State.User.AvatarURL("")
		}
		s.State.RUnlock()
	}

	return &discordgo.MessageEmbed{
		Title: "📊 Estadísticas del Bot",
		Color: 0x5865F2,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "🤖 Versión del Bot", Value: config.Version, Inline: true},
			{Name: "🐹 Versión de Go", Value: strings.TrimPrefix(runtime.Version(), "go"), Inline: true},
			{Name: "📚 Versión de DiscordGo", Value: discordgo.VERSION, Inline: true},
			{Name: "🖥 Uso de RAM", Value: fmt.Sprintf("%.2f MB", float64(mem.Alloc)/1024/1024), Inline: true},
			{Name: "⚙️ Goroutines", Value: fmt.Sprintf("%d / %d CPUs", runtime.NumGoroutine(), runtime.NumCPU()), Inline: true},
			{Name: "⏱ Uptime", Value: formatDuration(b.Uptime()), Inline: true},
			{Name: "🏠 Guilds", Value: fmt.Sprintf("%d", guilds), Inline: true},
			{Name: "👥 Miembros", Value: fmt.Sprintf("%d", members), Inline: true},
			{Name: "🧩 Módulos", Value: fmt.Sprintf("%d", len(b.Modules())), Inline: true},
		},
		Footer:    footer,
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// formatDuration formats a time.Duration into a human-readable string
func formatDuration(dur time.Duration) string {
	days := int(dur.Hours() / 24)
	hours := int(dur.Hours()) % 24
	minutes := int(dur.Minutes()) % 60
	seconds := int(dur.Seconds()) % 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%d días", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%d horas", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%d minutos", minutes))
	}
	if seconds > 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%d segundos", seconds))
	}

	return strings.Join(parts, ", ")
}
