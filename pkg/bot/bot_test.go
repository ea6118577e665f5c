package bot

import (
	"bytes"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/PancyStudios/DiscModGo/pkg/events"
	"github.com/PancyStudios/DiscModGo/pkg/loader"
	"github.com/PancyStudios/DiscModGo/pkg/logger"
	"github.com/PancyStudios/DiscModGo/pkg/module"
	"github.com/bwmarrin/discordgo"
)

func TestMain(m *testing.M) {
	logger.Get().SetOutput(io.Discard)
	os.Exit(m.Run())
}

func newSessionForTest(t *testing.T) *discordgo.Session {
	t.Helper()
	s, err := discordgo.New("")
	if err != nil {
		t.Fatalf("discordgo.New() error = %v", err)
	}
	s.State.User = &discordgo.User{ID: "bot", Username: "DiscMod"}
	return s
}

func newTestBot(t *testing.T, opts ...Option) (*Bot, *discordgo.Session) {
	t.Helper()
	s := newSessionForTest(t)
	opts = append([]Option{WithSession(s), WithModulesDir("")}, opts...)
	b, err := New(opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { b.Close() })
	return b, s
}

// recorder is a module that remembers every event it receives
type recorder struct {
	*module.Module
	mu   sync.Mutex
	seen []events.Name
	args map[events.Name][]interface{}
}

func newRecorder(name string, names ...events.Name) *recorder {
	r := &recorder{Module: module.New(name), args: map[events.Name][]interface{}{}}
	for _, n := range names {
		n := n
		r.On(n, func(args ...interface{}) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.seen = append(r.seen, n)
			r.args[n] = args
		})
	}
	return r
}

func (r *recorder) received() []events.Name {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.Name, len(r.seen))
	copy(out, r.seen)
	return out
}

func (r *recorder) first(n events.Name) interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.args[n]) == 0 {
		return nil
	}
	return r.args[n][0]
}

func messageFrom(authorID, content string) *discordgo.MessageCreate {
	return &discordgo.MessageCreate{Message: &discordgo.Message{
		ID:        "m1",
		ChannelID: "c1",
		Content:   content,
		Author:    &discordgo.User{ID: authorID},
	}}
}

func TestNewDefaults(t *testing.T) {
	b, s := newTestBot(t)

	if b.Prefix() != DefaultPrefix {
		t.Errorf("Prefix() = %q, want %q", b.Prefix(), DefaultPrefix)
	}
	if b.Session() != s {
		t.Error("Session() should return the reused session")
	}
	if b.Status() != StatusIdle {
		t.Errorf("Status() = %q, want %q", b.Status(), StatusIdle)
	}
	if b.Uptime() != 0 || !b.ReadyAt().IsZero() {
		t.Error("uptime should be zero before Ready")
	}
	if len(b.Modules()) != 0 {
		t.Errorf("expected no modules, got %d", len(b.Modules()))
	}
}

func TestNewBuildsSession(t *testing.T) {
	b, err := New(WithToken("abc"), WithModulesDir(""), WithIntents(discordgo.IntentsGuilds), WithSyncEvents(false))
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	s := b.Session()
	if s.Token != "Bot abc" {
		t.Errorf("Token = %q, want %q", s.Token, "Bot abc")
	}
	if s.Identify.Intents != discordgo.IntentsGuilds {
		t.Errorf("Intents = %v", s.Identify.Intents)
	}
	if s.SyncEvents {
		t.Error("SyncEvents should be false")
	}
}

func TestSessionOwnership(t *testing.T) {
	b, s := newTestBot(t)

	if _, err := New(WithSession(s), WithModulesDir("")); !stderrors.Is(err, ErrSessionOwned) {
		t.Fatalf("second bot on the same session: err = %v, want ErrSessionOwned", err)
	}

	b.Close()
	b2, err := New(WithSession(s), WithModulesDir(""))
	if err != nil {
		t.Fatalf("session should be free after Close, got %v", err)
	}
	b2.Close()
}

func TestMissingModulesDir(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")

	t.Run("soft", func(t *testing.T) {
		s := newSessionForTest(t)
		b, err := New(WithSession(s), WithModulesDir(missing))
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		defer b.Close()
		if len(b.Modules()) != 0 {
			t.Error("expected zero modules")
		}
	})

	t.Run("strict", func(t *testing.T) {
		s := newSessionForTest(t)
		_, err := New(WithSession(s), WithModulesDir(missing), WithStrictModules(true))
		if !stderrors.Is(err, loader.ErrNoModulesDir) {
			t.Fatalf("err = %v, want ErrNoModulesDir", err)
		}
		// The failed bot must not keep the session
		b, err := New(WithSession(s), WithModulesDir(""))
		if err != nil {
			t.Fatalf("session still owned after failed New: %v", err)
		}
		b.Close()
	})
}

func TestLoadModules(t *testing.T) {
	dir := t.TempDir()
	script := `package echo

import "github.com/PancyStudios/DiscModGo/pkg/module"

func New() *module.Module {
	return module.New("Echo")
}
`
	if err := os.WriteFile(filepath.Join(dir, "echo.go"), []byte(script), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.go"), []byte("package broken\nfunc {"), 0644); err != nil {
		t.Fatal(err)
	}

	s := newSessionForTest(t)
	b, err := New(WithSession(s), WithModulesDir(dir))
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	mods := b.Modules()
	if len(mods) != 1 || mods[0].Name() != "Echo" {
		t.Fatalf("Modules() = %v, want [Echo]", mods)
	}
	if mods[0].Bot() != b {
		t.Error("script module should be attached to the bot")
	}
}

func TestRegisteredPlugins(t *testing.T) {
	loader.Register(func() *module.Module { return module.New("Registrado") })

	b, _ := newTestBot(t, WithRegistered(true))
	if _, ok := b.Module("Registrado"); !ok {
		t.Error("registered plugin was not attached")
	}

	b2, _ := newTestBot(t)
	if _, ok := b2.Module("Registrado"); ok {
		t.Error("registered plugins should only load with WithRegistered(true)")
	}
}

func TestAddModuleHandshake(t *testing.T) {
	b, _ := newTestBot(t)
	m := module.New("Handshake")

	var readyCalls int
	var botAtReady module.Bot
	m.OnLoad(func(got module.Bot) {
		readyCalls++
		botAtReady = m.Bot()
	})

	if err := b.AddModule(m); err != nil {
		t.Fatal(err)
	}
	if m.Bot() != b || botAtReady != b {
		t.Error("back-reference must be set before module-ready fires")
	}

	if err := b.AddModule(m); !stderrors.Is(err, ErrModuleAttached) {
		t.Errorf("re-adding: err = %v, want ErrModuleAttached", err)
	}
	b.Dispatch(events.ModuleInit, b)
	if readyCalls != 1 {
		t.Errorf("module-ready fired %d times, want 1", readyCalls)
	}
}

func TestAddModuleAfterSpentHandshake(t *testing.T) {
	b, _ := newTestBot(t)
	m := module.New("Gastado")
	ready := 0
	m.OnLoad(func(module.Bot) { ready++ })

	m.Emit(events.ModuleInit, "notabot")

	if err := b.AddModule(m); err != nil {
		t.Fatalf("AddModule() error = %v", err)
	}
	if m.Bot() != module.Bot(b) {
		t.Error("AddModule must set the back-reference even without the handshake")
	}
	if ready != 1 {
		t.Errorf("module-ready fired %d times, want 1", ready)
	}
}

func TestAddModuleOwnedElsewhere(t *testing.T) {
	b, _ := newTestBot(t)
	other, _ := newTestBot(t)
	m := module.New("Ajeno")

	// attaches another bot during module-init, after the handshake gave up
	m.Emit(events.ModuleInit, "notabot")
	m.On(events.ModuleInit, func(args ...interface{}) { m.Attach(other) })

	if err := b.AddModule(m); !stderrors.Is(err, ErrModuleAttached) {
		t.Errorf("AddModule() error = %v, want ErrModuleAttached", err)
	}
	if len(b.Modules()) != 0 {
		t.Error("a module owned by another bot must be rolled back")
	}
}

func TestAddModuleRejectsInvalid(t *testing.T) {
	b, _ := newTestBot(t)

	if err := b.AddModule(nil); !stderrors.Is(err, loader.ErrNilModule) {
		t.Errorf("nil module: err = %v", err)
	}
	if err := b.AddModule(module.New("")); !stderrors.Is(err, loader.ErrUnnamed) {
		t.Errorf("unnamed module: err = %v", err)
	}
	if len(b.Modules()) != 0 {
		t.Error("invalid modules must not be attached")
	}
}

func TestDispatchIsolation(t *testing.T) {
	b, _ := newTestBot(t)

	first := newRecorder("Uno", events.GuildCreate, events.GuildUpdate)
	faulty := module.New("Roto")
	var faultyCalls int
	faulty.On(events.GuildCreate, func(args ...interface{}) {
		faultyCalls++
		panic("fallo")
	})
	faulty.On(events.GuildUpdate, func(args ...interface{}) { faultyCalls++ })
	last := newRecorder("Tres", events.GuildCreate, events.GuildUpdate)

	for _, m := range []*module.Module{first.Module, faulty, last.Module} {
		if err := b.AddModule(m); err != nil {
			t.Fatal(err)
		}
	}

	if failed := b.Dispatch(events.GuildCreate, "g"); failed != 1 {
		t.Errorf("Dispatch() reported %d failures, want 1", failed)
	}
	b.Dispatch(events.GuildUpdate, "g")

	want := []events.Name{events.GuildCreate, events.GuildUpdate}
	if !reflect.DeepEqual(first.received(), want) || !reflect.DeepEqual(last.received(), want) {
		t.Errorf("healthy modules got %v and %v, want %v", first.received(), last.received(), want)
	}
	if faultyCalls != 2 {
		t.Errorf("faulty module should keep receiving events, got %d calls", faultyCalls)
	}
}

func TestMessageAndCommand(t *testing.T) {
	b, s := newTestBot(t)
	r := newRecorder("Rec", events.Message, events.Command)
	if err := b.AddModule(r.Module); err != nil {
		t.Fatal(err)
	}

	b.relay(s, messageFrom("user", "!ping"))

	if got := r.received(); !reflect.DeepEqual(got, []events.Name{events.Message, events.Command}) {
		t.Fatalf("events = %v, want [message command]", got)
	}

	msg, ok := r.first(events.Message).(*module.Message)
	if !ok || msg.Content != "!ping" {
		t.Errorf("message payload = %#v, want full text", r.first(events.Message))
	}
	cmd, ok := r.first(events.Command).(*module.Command)
	if !ok || cmd.Text != "ping" || cmd.Prefix != "!" {
		t.Errorf("command payload = %#v, want text \"ping\"", r.first(events.Command))
	}
	if msg.Content != "!ping" {
		t.Error("the command must not edit the original message")
	}
}

func TestMessageWithoutPrefix(t *testing.T) {
	b, s := newTestBot(t)
	r := newRecorder("Rec", events.Message, events.Command)
	b.AddModule(r.Module)

	b.relay(s, messageFrom("user", "hola"))

	if got := r.received(); !reflect.DeepEqual(got, []events.Name{events.Message}) {
		t.Errorf("events = %v, want only message", got)
	}
}

func TestSelfMessagesDiscarded(t *testing.T) {
	b, s := newTestBot(t)
	r := newRecorder("Rec", events.Message, events.Command)
	b.AddModule(r.Module)

	b.relay(s, messageFrom("bot", "!ping"))

	if got := r.received(); len(got) != 0 {
		t.Errorf("self message dispatched %v", got)
	}
}

func TestCommandRouting(t *testing.T) {
	b, s := newTestBot(t)
	m := module.New("Dados")
	var rolled []string
	m.Command("roll", func(c *module.Command) error {
		rolled = append(rolled, c.Text)
		return nil
	})
	b.AddModule(m)

	b.relay(s, messageFrom("user", "!roll 2d6"))
	b.relay(s, messageFrom("user", "!rock"))

	if !reflect.DeepEqual(rolled, []string{"2d6"}) {
		t.Errorf("roll handler got %v, want [2d6]", rolled)
	}
}

func TestSetPrefix(t *testing.T) {
	b, s := newTestBot(t)
	r := newRecorder("Rec", events.Command)
	b.AddModule(r.Module)

	tests := []struct {
		name    string
		value   interface{}
		wantErr bool
		want    string
	}{
		{"string", "?", false, "?"},
		{"empty", "", true, "?"},
		{"blank", "   ", true, "?"},
		{"number", 42, true, "?"},
		{"nil", nil, true, "?"},
		{"multi char", "dm!", false, "dm!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := b.SetPrefixValue(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("SetPrefixValue(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if err != nil && !stderrors.Is(err, ErrInvalidPrefix) {
				t.Errorf("error should wrap ErrInvalidPrefix, got %v", err)
			}
			if b.Prefix() != tt.want {
				t.Errorf("Prefix() = %q, want %q", b.Prefix(), tt.want)
			}
		})
	}

	b.relay(s, messageFrom("user", "dm!help"))
	cmd, ok := r.first(events.Command).(*module.Command)
	if !ok || cmd.Text != "help" {
		t.Errorf("new prefix not applied, got %#v", r.first(events.Command))
	}
}

func TestRelayPayloads(t *testing.T) {
	b, s := newTestBot(t)
	r := newRecorder("Rec", events.GuildDelete, events.GuildUnavailable, events.Ready)
	b.AddModule(r.Module)

	b.relay(s, &discordgo.GuildDelete{Guild: &discordgo.Guild{ID: "1", Unavailable: true}})
	b.relay(s, &discordgo.GuildDelete{Guild: &discordgo.Guild{ID: "2"}})
	b.relay(s, &discordgo.Event{Type: "READY"})
	b.relay(s, &discordgo.Ready{User: &discordgo.User{ID: "bot", Username: "DiscMod"}})

	want := []events.Name{events.GuildUnavailable, events.GuildDelete, events.Ready}
	if got := r.received(); !reflect.DeepEqual(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
	if b.Status() != StatusReady || b.ReadyAt().IsZero() {
		t.Errorf("Ready should update status and ready time, status = %q", b.Status())
	}
}

func TestEmojiEvents(t *testing.T) {
	b, s := newTestBot(t)
	r := newRecorder("Rec", events.EmojiCreate, events.EmojiUpdate, events.EmojiDelete)
	b.AddModule(r.Module)

	b.relay(s, &discordgo.GuildCreate{Guild: &discordgo.Guild{ID: "g", Emojis: []*discordgo.Emoji{
		{ID: "1", Name: "uno"},
		{ID: "2", Name: "dos"},
	}}})
	b.relay(s, &discordgo.GuildEmojisUpdate{GuildID: "g", Emojis: []*discordgo.Emoji{
		{ID: "1", Name: "uno_v2"},
		{ID: "3", Name: "tres"},
	}})

	want := []events.Name{events.EmojiCreate, events.EmojiUpdate, events.EmojiDelete}
	if got := r.received(); !reflect.DeepEqual(got, want) {
		t.Fatalf("events = %v, want %v", got, want)
	}

	change, ok := r.first(events.EmojiDelete).(events.EmojiChange)
	if !ok || change.Old.ID != "2" || change.GuildID != "g" {
		t.Errorf("emojiDelete payload = %#v", r.first(events.EmojiDelete))
	}
}

func TestLogRelay(t *testing.T) {
	b, _ := newTestBot(t)
	m := module.New("Logs")
	got := make(chan events.LogLine, 1)
	module.Subscribe(m, events.Warn, func(l events.LogLine) {
		select {
		case got <- l:
		default:
		}
	})
	b.AddModule(m)

	discordgo.Logger(discordgo.LogWarning, 0, "latido perdido %d", 3)

	select {
	case l := <-got:
		if l.Message != "latido perdido 3" || l.Level != discordgo.LogWarning {
			t.Errorf("warn payload = %+v", l)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("warn event was not relayed")
	}
}

func TestDeliveriesAreSerialized(t *testing.T) {
	b, s := newTestBot(t)

	// count is written without a lock on purpose: handlers must never overlap
	count := 0
	var delivered int32
	bump := func(args ...interface{}) {
		count++
		atomic.AddInt32(&delivered, 1)
	}
	m := module.New("Contador")
	m.On(events.Message, bump)
	m.On(events.Warn, bump)
	if err := b.AddModule(m); err != nil {
		t.Fatal(err)
	}

	const n = 50
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			discordgo.Logger(discordgo.LogWarning, 0, "aviso %d", i)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			b.relay(s, messageFrom("u1", "hola"))
		}
	}()
	wg.Wait()

	deadline := time.Now().Add(2 * time.Second)
	for atomic.LoadInt32(&delivered) < 2*n && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	b.dispatchMu.Lock()
	got := count
	b.dispatchMu.Unlock()
	if got != 2*n {
		t.Errorf("count = %d, want %d", got, 2*n)
	}
}

func TestOn(t *testing.T) {
	b, _ := newTestBot(t)

	var buf bytes.Buffer
	logger.Get().SetOutput(&buf)
	defer logger.Get().SetOutput(io.Discard)

	remove := b.On(func(*discordgo.Session, *discordgo.Ready) {})
	if remove == nil {
		t.Fatal("On() should return a remover")
	}
	remove()

	if !strings.Contains(buf.String(), "usa módulos") {
		t.Errorf("On() should warn about bypassing modules, log = %q", buf.String())
	}
}

func TestPings(t *testing.T) {
	b, s := newTestBot(t)
	if len(b.Pings()) != 0 {
		t.Fatal("no pings before the first heartbeat")
	}

	base := time.Now()
	beat := func(i int, rtt time.Duration) {
		sent := base.Add(time.Duration(i) * time.Minute)
		s.LastHeartbeatSent = sent
		s.LastHeartbeatAck = sent.Add(rtt)
		b.relay(s, &discordgo.Resumed{})
	}

	beat(0, 10*time.Millisecond)
	b.relay(s, &discordgo.Resumed{})
	beat(1, 20*time.Millisecond)
	beat(2, 30*time.Millisecond)
	beat(3, 40*time.Millisecond)

	want := []time.Duration{40 * time.Millisecond, 30 * time.Millisecond, 20 * time.Millisecond}
	if got := b.Pings(); !reflect.DeepEqual(got, want) {
		t.Errorf("Pings() = %v, want %v", got, want)
	}
	if info := b.Info(); len(info.Pings) != 3 {
		t.Errorf("Info().Pings = %v", info.Pings)
	}
}

func TestLoginWithoutToken(t *testing.T) {
	b, _ := newTestBot(t)
	if err := b.Login(""); !stderrors.Is(err, ErrNoToken) {
		t.Errorf("Login(\"\") error = %v, want ErrNoToken", err)
	}

	b.Close()
	if err := b.Login("abc"); !stderrors.Is(err, ErrClosed) {
		t.Errorf("Login after Close error = %v, want ErrClosed", err)
	}
	if b.Status() != StatusClosed {
		t.Errorf("Status() = %q, want %q", b.Status(), StatusClosed)
	}
}

func TestStateAccessors(t *testing.T) {
	b, s := newTestBot(t)

	alice := &discordgo.User{ID: "u1", Username: "alice"}
	guild := &discordgo.Guild{
		ID:       "g",
		Channels: []*discordgo.Channel{{ID: "c1", GuildID: "g"}},
		Emojis:   []*discordgo.Emoji{{ID: "e1"}},
		Members:  []*discordgo.Member{{GuildID: "g", User: alice}},
	}
	other := &discordgo.Guild{
		ID: "h",
		Members: []*discordgo.Member{
			{GuildID: "h", User: &discordgo.User{ID: "u1", Username: "alice"}},
			{GuildID: "h", User: &discordgo.User{ID: "u2", Username: "bob"}},
		},
	}
	for _, g := range []*discordgo.Guild{guild, other} {
		if err := s.State.GuildAdd(g); err != nil {
			t.Fatal(err)
		}
	}

	if u := b.User(); u == nil || u.ID != "bot" {
		t.Errorf("User() = %v", u)
	}
	if len(b.Guilds()) != 2 {
		t.Errorf("Guilds() = %d, want 2", len(b.Guilds()))
	}

	var ids []string
	for _, u := range b.Users() {
		ids = append(ids, u.ID)
	}
	if !reflect.DeepEqual(ids, []string{"u1", "u2"}) {
		t.Errorf("Users() = %v, want [u1 u2]", ids)
	}
	if len(b.Channels()) != 1 {
		t.Errorf("Channels() = %d, want 1", len(b.Channels()))
	}
	if len(b.Emojis()) != 1 {
		t.Errorf("Emojis() = %d, want 1", len(b.Emojis()))
	}
}
