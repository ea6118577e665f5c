// Package module provides the Module type: a named, independently failing
// event sink that receives the events relayed by a Bot.
package module

import (
	stderrors "errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/PancyStudios/DiscModGo/pkg/errors"
	"github.com/PancyStudios/DiscModGo/pkg/events"
	"github.com/PancyStudios/DiscModGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// Handler receives the arguments of an emitted event unchanged.
type Handler func(args ...interface{})

// Bot is the view of the owning bot that a module gets once it is loaded.
type Bot interface {
	Prefix() string
	Session() *discordgo.Session
	Modules() []*Module
	Latency() time.Duration
	Uptime() time.Duration
}

type subscription struct {
	id      uint64
	handler Handler
	once    bool
}

// Module is a plugin unit. Subscriptions fire in registration order and every
// handler call is isolated: a panicking handler is logged and the rest run.
type Module struct {
	name        string
	description string

	mu            sync.RWMutex
	subscriptions map[events.Name][]*subscription
	commands      []string
	nextID        uint64
	bot           Bot
}

// New creates a standalone module. It only learns about its Bot when added to one.
func New(name string) *Module {
	logger.Debug(fmt.Sprintf("Preparando módulo \"%s\"", name), "Module")

	m := &Module{
		name:          name,
		subscriptions: make(map[events.Name][]*subscription),
	}
	m.Once(events.ModuleInit, m.handshake)
	return m
}

// ErrAttached is returned by Attach when the module already has a bot
var ErrAttached = stderrors.New("module: already attached to a bot")

// handshake answers the module-init event emitted by the bot
func (m *Module) handshake(args ...interface{}) {
	if len(args) == 0 {
		return
	}
	b, ok := args[0].(Bot)
	if !ok || b == nil {
		logger.Warn(fmt.Sprintf("Handshake inválido para el módulo %s", m.name), "Module")
		return
	}
	m.Attach(b)
}

// Attach stores the back-reference and fires module-ready. The reference is
// set once; later calls return ErrAttached and fire nothing.
func (m *Module) Attach(b Bot) error {
	if b == nil {
		return fmt.Errorf("module %s: nil bot", m.name)
	}

	m.mu.Lock()
	if m.bot != nil {
		m.mu.Unlock()
		return ErrAttached
	}
	m.bot = b
	m.mu.Unlock()

	m.Emit(events.ModuleReady, b)
	return nil
}

// Name returns the module name
func (m *Module) Name() string {
	return m.name
}

// Description returns the optional human readable description
func (m *Module) Description() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.description
}

// SetDescription sets the description shown in listings
func (m *Module) SetDescription(desc string) *Module {
	m.mu.Lock()
	m.description = desc
	m.mu.Unlock()
	return m
}

// Bot returns the owning bot, or nil while the module is not loaded
func (m *Module) Bot() Bot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bot
}

// On subscribes handler to name. The returned function removes it again.
func (m *Module) On(name events.Name, handler Handler) func() {
	return m.subscribe(name, handler, false)
}

// Once subscribes handler for a single delivery.
func (m *Module) Once(name events.Name, handler Handler) func() {
	return m.subscribe(name, handler, true)
}

func (m *Module) subscribe(name events.Name, handler Handler, once bool) func() {
	if name == "" || handler == nil {
		logger.Warn(fmt.Sprintf("Suscripción ignorada en %s: evento o handler vacío", m.name), "Module")
		return func() {}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	sub := &subscription{id: m.nextID, handler: handler, once: once}
	m.subscriptions[name] = append(m.subscriptions[name], sub)

	return func() { m.remove(name, sub.id) }
}

func (m *Module) remove(name events.Name, id uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	subs := m.subscriptions[name]
	for i, s := range subs {
		if s.id == id {
			m.subscriptions[name] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// Emit fires every handler subscribed to name, in registration order, with
// args passed through unchanged. It returns how many handlers panicked.
func (m *Module) Emit(name events.Name, args ...interface{}) int {
	m.mu.Lock()
	subs := m.subscriptions[name]
	if len(subs) == 0 {
		m.mu.Unlock()
		return 0
	}
	fire := make([]*subscription, len(subs))
	copy(fire, subs)

	kept := make([]*subscription, 0, len(subs))
	for _, s := range subs {
		if !s.once {
			kept = append(kept, s)
		}
	}
	m.subscriptions[name] = kept
	m.mu.Unlock()

	failed := 0
	for _, s := range fire {
		if !m.invoke(name, s.handler, args) {
			failed++
		}
	}
	return failed
}

// invoke runs one handler and recovers a panic raised by it
func (m *Module) invoke(name events.Name, h Handler, args []interface{}) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			logger.Error(fmt.Sprintf("Error ejecutando '%s' en el módulo '%s': %v", name, m.name, r), "Module")
			errors.Recovered()
		}
	}()

	h(args...)
	return true
}

// Handlers returns how many handlers are subscribed to name
func (m *Module) Handlers(name events.Name) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subscriptions[name])
}

// Events returns the names with at least one subscriber, sorted
func (m *Module) Events() []events.Name {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]events.Name, 0, len(m.subscriptions))
	for name, subs := range m.subscriptions {
		if len(subs) > 0 {
			out = append(out, name)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Commands returns the command words registered with Command
func (m *Module) Commands() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]string, len(m.commands))
	copy(out, m.commands)
	return out
}
