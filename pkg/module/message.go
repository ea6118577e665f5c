package module

import (
	stderrors "errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/PancyStudios/DiscModGo/pkg/events"
	"github.com/PancyStudios/DiscModGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// ErrNoSession is returned by the reply helpers when the message was built
// without a session.
var ErrNoSession = stderrors.New("module: message has no session")

// Message is the payload of the "message" event
type Message struct {
	*discordgo.MessageCreate
	Session *discordgo.Session
}

// NewMessage wraps a gateway message together with the session that received it
func NewMessage(s *discordgo.Session, m *discordgo.MessageCreate) *Message {
	return &Message{MessageCreate: m, Session: s}
}

// AuthorID returns the author's user ID, or "" when unknown
func (m *Message) AuthorID() string {
	if m.MessageCreate == nil || m.MessageCreate.Message == nil || m.Author == nil {
		return ""
	}
	return m.Author.ID
}

// Reply answers the message with a message reference
func (m *Message) Reply(content string) (*discordgo.Message, error) {
	if m.Session == nil {
		return nil, ErrNoSession
	}
	return m.Session.ChannelMessageSendReply(m.ChannelID, content, m.Reference())
}

// Send posts content to the message's channel
func (m *Message) Send(content string) (*discordgo.Message, error) {
	if m.Session == nil {
		return nil, ErrNoSession
	}
	return m.Session.ChannelMessageSend(m.ChannelID, content)
}

// SendEmbed posts an embed to the message's channel
func (m *Message) SendEmbed(embed *discordgo.MessageEmbed) (*discordgo.Message, error) {
	if m.Session == nil {
		return nil, ErrNoSession
	}
	return m.Session.ChannelMessageSendEmbed(m.ChannelID, embed)
}

// React adds an emoji reaction to the message
func (m *Message) React(emoji string) error {
	if m.Session == nil {
		return ErrNoSession
	}
	return m.Session.MessageReactionAdd(m.ChannelID, m.ID, emoji)
}

// Command is the payload of the "command" event. Text is the part of the
// message left after stripping the prefix (and, once matched by
// Module.Command, the command word). The underlying message is never edited.
type Command struct {
	*Message
	Prefix string
	Name   string
	Text   string
}

// NewCommand derives a command from msg when its content starts with prefix
func NewCommand(msg *Message, prefix string) (*Command, bool) {
	if msg == nil || msg.MessageCreate == nil || msg.MessageCreate.Message == nil || prefix == "" {
		return nil, false
	}
	if !strings.HasPrefix(msg.Content, prefix) {
		return nil, false
	}
	return &Command{
		Message: msg,
		Prefix:  prefix,
		Text:    msg.Content[len(prefix):],
	}, true
}

// Strip returns a new Command with word and the whitespace after it removed,
// or false when Text does not start with word.
func (c *Command) Strip(word string) (*Command, bool) {
	if word == "" || !strings.HasPrefix(c.Text, word) {
		return nil, false
	}
	return &Command{
		Message: c.Message,
		Prefix:  c.Prefix,
		Name:    word,
		Text:    strings.TrimLeftFunc(c.Text[len(word):], unicode.IsSpace),
	}, true
}

// Args splits Text on whitespace
func (c *Command) Args() []string {
	return strings.Fields(c.Text)
}

// CommandFunc handles a matched command; a returned error is logged.
type CommandFunc func(c *Command) error

// Subscribe registers a typed handler: it fires only when the first argument
// of the event has type T.
func Subscribe[T any](m *Module, name events.Name, fn func(T)) func() {
	return m.On(name, func(args ...interface{}) {
		if len(args) == 0 {
			return
		}
		if v, ok := args[0].(T); ok {
			fn(v)
		}
	})
}

// OnMessage registers a handler for every non-self message
func (m *Module) OnMessage(fn func(msg *Message)) func() {
	return Subscribe(m, events.Message, fn)
}

// OnCommand registers a handler for every prefixed message
func (m *Module) OnCommand(fn func(c *Command)) func() {
	return Subscribe(m, events.Command, fn)
}

// OnReady registers a handler for the gateway ready event
func (m *Module) OnReady(fn func(r *discordgo.Ready)) func() {
	return Subscribe(m, events.Ready, fn)
}

// OnLoad runs fn once the module has been attached to a bot
func (m *Module) OnLoad(fn func(b Bot)) func() {
	return Subscribe(m, events.ModuleReady, fn)
}

// Command registers fn for commands whose text starts with word. Other
// command handlers are unaffected when the word does not match.
func (m *Module) Command(word string, fn CommandFunc) func() {
	word = strings.TrimSpace(word)
	if word == "" || fn == nil {
		logger.Warn(fmt.Sprintf("Comando vacío ignorado en %s", m.name), "Module")
		return func() {}
	}

	m.mu.Lock()
	m.commands = append(m.commands, word)
	m.mu.Unlock()

	return m.OnCommand(func(c *Command) {
		sub, ok := c.Strip(word)
		if !ok {
			return
		}
		if err := fn(sub); err != nil {
			logger.Error(fmt.Sprintf("Error ejecutando el comando %s en %s: %v", word, m.name, err), "Module")
		}
	})
}
