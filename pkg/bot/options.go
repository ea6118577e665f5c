package bot

import (
	"github.com/PancyStudios/DiscModGo/pkg/config"
	"github.com/bwmarrin/discordgo"
)

// Option configures New
type Option func(*options)

type options struct {
	session    *discordgo.Session
	token      string
	intents    discordgo.Intent
	modulesDir string
	strict     bool
	prefix     string
	registered bool
	syncEvents bool
	syncSet    bool
	debug      bool
}

func defaultOptions() *options {
	return &options{
		intents:    DefaultIntents,
		modulesDir: DefaultModulesDir,
		prefix:     DefaultPrefix,
		syncEvents: true,
	}
}

// WithSession reuses an already configured session instead of building one.
// Token, intents and debug options are ignored in that case.
func WithSession(s *discordgo.Session) Option {
	return func(o *options) { o.session = s }
}

// WithToken sets the token of the session built by New
func WithToken(token string) Option {
	return func(o *options) { o.token = token }
}

// WithIntents sets the gateway intents of the session built by New
func WithIntents(intents discordgo.Intent) Option {
	return func(o *options) { o.intents = intents }
}

// WithModulesDir sets the directory scanned for script modules. An empty
// path disables directory loading.
func WithModulesDir(dir string) Option {
	return func(o *options) { o.modulesDir = dir }
}

// WithStrictModules makes a missing modules directory an error in New and
// LoadModules instead of a warning.
func WithStrictModules(strict bool) Option {
	return func(o *options) { o.strict = strict }
}

// WithPrefix sets the initial command prefix
func WithPrefix(prefix string) Option {
	return func(o *options) { o.prefix = prefix }
}

// WithRegistered attaches the plugins added with loader.Register before
// scanning the modules directory.
func WithRegistered(enabled bool) Option {
	return func(o *options) { o.registered = enabled }
}

// WithSyncEvents controls whether discordgo runs handlers on its dispatch
// goroutine, which keeps relay order equal to gateway order.
func WithSyncEvents(enabled bool) Option {
	return func(o *options) {
		o.syncEvents = enabled
		o.syncSet = true
	}
}

// WithDebug raises discordgo's log level so debug events are relayed
func WithDebug(enabled bool) Option {
	return func(o *options) { o.debug = enabled }
}

// WithConfig applies the token, prefix, module and event settings of cfg.
func WithConfig(cfg *config.Config) Option {
	return func(o *options) {
		if cfg == nil {
			return
		}
		o.token = cfg.BotToken
		o.prefix = cfg.Prefix
		o.modulesDir = cfg.ModulesDir
		o.strict = cfg.ModulesStrict
		o.syncEvents = cfg.SyncEvents
		o.syncSet = true
		o.debug = cfg.Debug
	}
}
