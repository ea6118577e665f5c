package bot

import (
	"time"

	"github.com/PancyStudios/DiscModGo/pkg/events"
	"github.com/PancyStudios/DiscModGo/pkg/module"
	"github.com/bwmarrin/discordgo"
)

// Envelope is the serializable form of a dispatched event, shared by the
// MQTT bridge and the websocket stream.
type Envelope struct {
	Event events.Name `json:"event"`
	Time  time.Time   `json:"time"`
	Data  interface{} `json:"data,omitempty"`
}

// CommandView is the serializable form of a module.Command
type CommandView struct {
	Prefix  string             `json:"prefix"`
	Text    string             `json:"text"`
	Message *discordgo.Message `json:"message"`
}

// NewEnvelope wraps the first event argument in an Envelope. Payloads that
// carry a session are reduced to their message so they can be encoded.
func NewEnvelope(name events.Name, args ...interface{}) Envelope {
	env := Envelope{Event: name, Time: time.Now()}
	if len(args) == 0 {
		return env
	}

	switch v := args[0].(type) {
	case *module.Message:
		if v.MessageCreate != nil {
			env.Data = v.MessageCreate.Message
		}
	case *module.Command:
		view := CommandView{Prefix: v.Prefix, Text: v.Text}
		if v.Message != nil && v.MessageCreate != nil {
			view.Message = v.MessageCreate.Message
		}
		env.Data = view
	default:
		env.Data = v
	}
	return env
}

// TapNames are the events a tap module listens to: every relayed event
// plus message and command.
func TapNames() []events.Name {
	return append(events.Relayed(), events.Message, events.Command)
}

// NewTap builds a module that hands every relayed event to fn as an
// Envelope. It is how outside observers follow the bot.
func NewTap(name string, fn func(Envelope)) *module.Module {
	m := module.New(name)
	for _, n := range TapNames() {
		n := n
		m.On(n, func(args ...interface{}) {
			fn(NewEnvelope(n, args...))
		})
	}
	return m
}

// ModuleInfo describes an attached module
type ModuleInfo struct {
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Commands    []string      `json:"commands"`
	Events      []events.Name `json:"events"`
}

// Describe summarizes m for listings
func Describe(m *module.Module) ModuleInfo {
	return ModuleInfo{
		Name:        m.Name(),
		Description: m.Description(),
		Commands:    m.Commands(),
		Events:      m.Events(),
	}
}

// ModuleInfos describes every attached module in load order
func (b *Bot) ModuleInfos() []ModuleInfo {
	mods := b.Modules()
	out := make([]ModuleInfo, len(mods))
	for i, m := range mods {
		out[i] = Describe(m)
	}
	return out
}

// Info is a snapshot of the bot for status surfaces
type Info struct {
	User     string          `json:"user,omitempty"`
	UserID   string          `json:"userId,omitempty"`
	Status   Status          `json:"status"`
	Prefix   string          `json:"prefix"`
	Guilds   int             `json:"guilds"`
	Channels int             `json:"channels"`
	Users    int             `json:"users"`
	Emojis   int             `json:"emojis"`
	Modules  int             `json:"modules"`
	Latency  time.Duration   `json:"latencyNs"`
	Pings    []time.Duration `json:"pingsNs"`
	Uptime   time.Duration   `json:"uptimeNs"`
	ReadyAt  time.Time       `json:"readyAt"`
}

// Info returns a snapshot of the bot's accessors
func (b *Bot) Info() Info {
	info := Info{
		Status:   b.Status(),
		Prefix:   b.Prefix(),
		Guilds:   len(b.Guilds()),
		Channels: len(b.Channels()),
		Users:    len(b.Users()),
		Emojis:   len(b.Emojis()),
		Modules:  len(b.Modules()),
		Latency:  b.Latency(),
		Pings:    b.Pings(),
		Uptime:   b.Uptime(),
		ReadyAt:  b.ReadyAt(),
	}
	if u := b.User(); u != nil {
		info.User = u.Username
		info.UserID = u.ID
	}
	return info
}
