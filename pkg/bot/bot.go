// Package bot provides the Bot: it owns a discordgo session, loads modules
// and relays every gateway event to them in load order.
package bot

import (
	stderrors "errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PancyStudios/DiscModGo/pkg/events"
	"github.com/PancyStudios/DiscModGo/pkg/loader"
	"github.com/PancyStudios/DiscModGo/pkg/logger"
	"github.com/PancyStudios/DiscModGo/pkg/module"
	"github.com/bwmarrin/discordgo"
)

const (
	// DefaultPrefix is the command prefix of a new Bot
	DefaultPrefix = "!"
	// DefaultModulesDir is scanned for script modules unless overridden
	DefaultModulesDir = "modules"
	// DefaultIntents covers guilds, members, messages, emojis and voice states
	DefaultIntents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildEmojis |
		discordgo.IntentsGuildVoiceStates |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentsMessageContent
)

var (
	// ErrSessionOwned is returned when the session already belongs to another Bot
	ErrSessionOwned = stderrors.New("bot: session is already owned by another bot")
	// ErrInvalidPrefix is returned by SetPrefix for empty or non-string prefixes
	ErrInvalidPrefix = stderrors.New("bot: invalid prefix")
	// ErrModuleAttached is returned when a module is already attached to a bot
	ErrModuleAttached = stderrors.New("bot: module is already attached")
	// ErrNoToken is returned by Login when no token is available
	ErrNoToken = stderrors.New("bot: no token provided")
	// ErrClosed is returned by Login after Close
	ErrClosed = stderrors.New("bot: closed")
)

// Status is the connection status reported by Bot.Status
type Status string

const (
	StatusIdle         Status = "idle"
	StatusConnecting   Status = "connecting"
	StatusReady        Status = "ready"
	StatusDisconnected Status = "disconnected"
	StatusClosed       Status = "closed"
)

// Bot orchestrates a discordgo session and the modules attached to it.
type Bot struct {
	session *discordgo.Session

	mu        sync.RWMutex
	modules   []*module.Module
	prefix    string
	status    Status
	startTime time.Time
	readyAt   time.Time

	// dispatchMu serializes gateway events and relayed log lines, so
	// modules only ever run on one goroutine at a time
	dispatchMu sync.Mutex

	emojiMu sync.Mutex
	emojis  map[string][]*discordgo.Emoji

	pingMu  sync.Mutex
	pings   []time.Duration
	lastAck time.Time

	strict        bool
	removeHandler func()
	logs          chan events.LogLine
	done          chan struct{}
	closeOnce     sync.Once
}

var (
	ownersMu sync.Mutex
	owners   = make(map[*discordgo.Session]*Bot)
)

func claim(s *discordgo.Session, b *Bot) error {
	ownersMu.Lock()
	defer ownersMu.Unlock()
	if _, taken := owners[s]; taken {
		return ErrSessionOwned
	}
	owners[s] = b
	return nil
}

func release(s *discordgo.Session) {
	ownersMu.Lock()
	delete(owners, s)
	ownersMu.Unlock()
}

// New builds a Bot and loads its modules: registered plugins first (when
// enabled), then the modules directory. Only a session owned by another Bot
// or a missing directory in strict mode make it fail.
func New(opts ...Option) (*Bot, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	session := o.session
	if session == nil {
		var err error
		session, err = newSession(o)
		if err != nil {
			return nil, err
		}
	} else if o.syncSet {
		session.SyncEvents = o.syncEvents
	}

	prefix := o.prefix
	if strings.TrimSpace(prefix) == "" {
		logger.Warn(fmt.Sprintf("Prefijo inválido %q, usando %q", prefix, DefaultPrefix), "Bot")
		prefix = DefaultPrefix
	}

	b := &Bot{
		session: session,
		prefix:  prefix,
		status:  StatusIdle,
		emojis:  make(map[string][]*discordgo.Emoji),
		strict:  o.strict,
		logs:    make(chan events.LogLine, 256),
		done:    make(chan struct{}),
	}

	if err := claim(session, b); err != nil {
		return nil, err
	}

	b.removeHandler = session.AddHandler(b.relay)
	go b.pumpLogs()

	if o.registered {
		for _, m := range loader.Registered() {
			if err := b.AddModule(m); err != nil {
				logger.Error(fmt.Sprintf("No se pudo añadir el plugin %s: %v", m.Name(), err), "Bot")
			}
		}
	}

	if o.modulesDir != "" {
		if _, err := b.LoadModules(o.modulesDir); err != nil {
			b.Close()
			return nil, err
		}
	}

	logger.System(fmt.Sprintf("Bot preparado con %d módulos (prefijo %q)", len(b.Modules()), b.Prefix()), "Bot")
	return b, nil
}

func newSession(o *options) (*discordgo.Session, error) {
	token := ""
	if o.token != "" {
		token = botToken(o.token)
	}

	session, err := discordgo.New(token)
	if err != nil {
		return nil, err
	}

	session.Identify.Intents = o.intents
	session.SyncEvents = o.syncEvents
	session.StateEnabled = true
	session.LogLevel = discordgo.LogWarning
	if o.debug {
		session.LogLevel = discordgo.LogDebug
	}
	return session, nil
}

func botToken(token string) string {
	if strings.HasPrefix(token, "Bot ") {
		return token
	}
	return "Bot " + token
}

// LoadModules loads every script module in dir and attaches it. It returns
// how many modules were added.
func (b *Bot) LoadModules(dir string) (int, error) {
	logger.System(fmt.Sprintf("Cargando módulos desde %s", dir), "Bot")

	mods, err := loader.LoadDir(dir, loader.Options{Strict: b.strict})
	if err != nil {
		return 0, err
	}

	added := 0
	for _, m := range mods {
		if err := b.AddModule(m); err != nil {
			logger.Error(fmt.Sprintf("No se pudo añadir el módulo %s: %v", m.Name(), err), "Bot")
			continue
		}
		added++
	}
	return added, nil
}

// AddModule appends m to the dispatch list and runs the module-init
// handshake, so m.Bot() is set before any later event reaches it.
func (b *Bot) AddModule(m *module.Module) error {
	if err := loader.Validate(m); err != nil {
		return err
	}
	if m.Bot() != nil {
		return fmt.Errorf("%w: %s", ErrModuleAttached, m.Name())
	}

	b.mu.Lock()
	for _, existing := range b.modules {
		if existing == m {
			b.mu.Unlock()
			return fmt.Errorf("%w: %s", ErrModuleAttached, m.Name())
		}
	}
	b.modules = append(b.modules, m)
	b.mu.Unlock()

	// a module-init emitted by hand can use up the handshake, so the
	// back-reference is checked and set directly when still missing
	m.Emit(events.ModuleInit, b)
	if m.Bot() == nil {
		m.Attach(b)
	}
	if m.Bot() != module.Bot(b) {
		b.detach(m)
		return fmt.Errorf("%w: %s", ErrModuleAttached, m.Name())
	}

	logger.Success(fmt.Sprintf("Módulo \"%s\" cargado", m.Name()), "Bot")
	return nil
}

// detach removes m from the dispatch list
func (b *Bot) detach(m *module.Module) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, existing := range b.modules {
		if existing == m {
			b.modules = append(b.modules[:i], b.modules[i+1:]...)
			return
		}
	}
}

// Dispatch emits name to every module in load order. Handler panics are
// recovered inside each module, so no module is ever skipped. It returns
// the number of handlers that panicked.
func (b *Bot) Dispatch(name events.Name, args ...interface{}) int {
	failed := 0
	for _, m := range b.Modules() {
		failed += m.Emit(name, args...)
	}
	return failed
}

// SetPrefix replaces the command prefix. Blank prefixes are logged and
// rejected, leaving the current one in place.
func (b *Bot) SetPrefix(prefix string) error {
	if strings.TrimSpace(prefix) == "" {
		logger.Warn(fmt.Sprintf("Prefijo inválido %q, se mantiene %q", prefix, b.Prefix()), "Bot")
		return ErrInvalidPrefix
	}

	b.mu.Lock()
	old := b.prefix
	b.prefix = prefix
	b.mu.Unlock()

	logger.Info(fmt.Sprintf("Prefijo cambiado de %q a %q", old, prefix), "Bot")
	return nil
}

// SetPrefixValue is SetPrefix for untyped input such as decoded JSON: any
// value that is not a string is rejected with ErrInvalidPrefix.
func (b *Bot) SetPrefixValue(v interface{}) error {
	s, ok := v.(string)
	if !ok {
		logger.Warn(fmt.Sprintf("Prefijo ignorado: se esperaba texto y se recibió %T", v), "Bot")
		return fmt.Errorf("%w: got %T", ErrInvalidPrefix, v)
	}
	return b.SetPrefix(s)
}

// Prefix returns the current command prefix
func (b *Bot) Prefix() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.prefix
}

// Modules returns the attached modules in load order
func (b *Bot) Modules() []*module.Module {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]*module.Module, len(b.modules))
	copy(out, b.modules)
	return out
}

// Module returns the attached module with the given name
func (b *Bot) Module(name string) (*module.Module, bool) {
	for _, m := range b.Modules() {
		if m.Name() == name {
			return m, true
		}
	}
	return nil, false
}

// On adds handler straight to the session, bypassing the modules. handler
// takes any discordgo handler signature. It returns the remover.
func (b *Bot) On(handler interface{}) func() {
	logger.Warn("Bot.On registra el handler directamente en la sesión, usa módulos en su lugar", "Bot")
	return b.session.AddHandler(handler)
}

// Session returns the owned discordgo session
func (b *Bot) Session() *discordgo.Session {
	return b.session
}

// Login sets the token when one is given and opens the gateway connection.
func (b *Bot) Login(token string) error {
	select {
	case <-b.done:
		return ErrClosed
	default:
	}

	if token != "" {
		b.session.Token = botToken(token)
	}
	if b.session.Token == "" {
		return ErrNoToken
	}

	b.setStatus(StatusConnecting)
	b.mu.Lock()
	b.startTime = time.Now()
	b.mu.Unlock()

	if err := b.session.Open(); err != nil {
		b.setStatus(StatusDisconnected)
		return fmt.Errorf("open session: %w", err)
	}
	return nil
}

// Close detaches the relay, releases the session and closes the connection.
func (b *Bot) Close() error {
	var err error
	b.closeOnce.Do(func() {
		if b.removeHandler != nil {
			b.removeHandler()
		}
		release(b.session)
		close(b.done)
		b.setStatus(StatusClosed)
		err = b.session.Close()
	})
	return err
}

func (b *Bot) setStatus(s Status) {
	b.mu.Lock()
	b.status = s
	b.mu.Unlock()
}
