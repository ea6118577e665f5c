package utils

import (
	"io"
	"os"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/PancyStudios/DiscModGo/pkg/logger"
	"github.com/PancyStudios/DiscModGo/pkg/module"
	"github.com/bwmarrin/discordgo"
)

func TestMain(m *testing.M) {
	logger.Get().SetOutput(io.Discard)
	os.Exit(m.Run())
}

type fakeBot struct {
	mods    []*module.Module
	latency time.Duration
	uptime  time.Duration
}

func (f *fakeBot) Prefix() string              { return "!" }
func (f *fakeBot) Session() *discordgo.Session { return nil }
func (f *fakeBot) Modules() []*module.Module   { return f.mods }
func (f *fakeBot) Latency() time.Duration      { return f.latency }
func (f *fakeBot) Uptime() time.Duration       { return f.uptime }

func TestNewRegistersCommands(t *testing.T) {
	m := New()
	want := []string{"ping", "help", "stats", "prefix"}
	if got := m.Commands(); !reflect.DeepEqual(got, want) {
		t.Errorf("Commands() = %v, want %v", got, want)
	}
	if m.Name() != ModuleName {
		t.Errorf("Name() = %q", m.Name())
	}
}

func TestHelpText(t *testing.T) {
	utils := New()
	quiet := module.New("Quiet")
	dice := module.New("Dice")
	dice.Command("roll", func(*module.Command) error { return nil })

	text := helpText("?", []*module.Module{utils, quiet, dice})

	for _, want := range []string{"`?ping` (Utils)", "`?help` (Utils)", "`?roll` (Dice)"} {
		if !strings.Contains(text, want) {
			t.Errorf("help text missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "Quiet") {
		t.Error("modules without commands should not be listed")
	}

	if empty := helpText("!", []*module.Module{quiet}); !strings.Contains(empty, "Ningún módulo") {
		t.Errorf("empty help text = %q", empty)
	}
}

func TestPingText(t *testing.T) {
	got := pingText(&fakeBot{latency: 42 * time.Millisecond})
	if !strings.Contains(got, "42ms") {
		t.Errorf("pingText() = %q", got)
	}
}

func TestStatsEmbed(t *testing.T) {
	b := &fakeBot{mods: []*module.Module{New()}, uptime: 90 * time.Second}
	embed := statsEmbed(b)

	fields := map[string]string{}
	for _, f := range embed.Fields {
		fields[f.Name] = f.Value
	}
	if fields["⏱ Uptime"] != "1 minutos, 30 segundos" {
		t.Errorf("uptime field = %q", fields["⏱ Uptime"])
	}
	if fields["🧩 Módulos"] != "1" {
		t.Errorf("modules field = %q", fields["🧩 Módulos"])
	}
	if fields["🏠 Guilds"] != "0" {
		t.Errorf("guild count without session = %q", fields["🏠 Guilds"])
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0 segundos"},
		{45 * time.Second, "45 segundos"},
		{time.Hour, "1 horas"},
		{26*time.Hour + 3*time.Minute, "1 días, 2 horas, 3 minutos"},
	}

	for _, tt := range tests {
		if got := formatDuration(tt.in); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
