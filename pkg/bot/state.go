package bot

import (
	"time"

	"github.com/bwmarrin/discordgo"
)

// maxPings is how many heartbeat samples Pings keeps
const maxPings = 3

// User returns the bot's own user once the gateway sent Ready
func (b *Bot) User() *discordgo.User {
	st := b.session.State
	if st == nil {
		return nil
	}
	st.RLock()
	defer st.RUnlock()
	return st.User
}

// Guilds returns the guilds cached in the session state
func (b *Bot) Guilds() []*discordgo.Guild {
	st := b.session.State
	if st == nil {
		return nil
	}
	st.RLock()
	defer st.RUnlock()
	out := make([]*discordgo.Guild, len(st.Guilds))
	copy(out, st.Guilds)
	return out
}

// Users returns every cached member's user, once per ID
func (b *Bot) Users() []*discordgo.User {
	st := b.session.State
	if st == nil {
		return nil
	}
	st.RLock()
	defer st.RUnlock()

	seen := make(map[string]struct{})
	var out []*discordgo.User
	for _, g := range st.Guilds {
		for _, m := range g.Members {
			if m == nil || m.User == nil {
				continue
			}
			if _, dup := seen[m.User.ID]; dup {
				continue
			}
			seen[m.User.ID] = struct{}{}
			out = append(out, m.User)
		}
	}
	return out
}

// Channels returns every cached guild channel plus private channels
func (b *Bot) Channels() []*discordgo.Channel {
	st := b.session.State
	if st == nil {
		return nil
	}
	st.RLock()
	defer st.RUnlock()

	out := make([]*discordgo.Channel, 0, len(st.PrivateChannels))
	for _, g := range st.Guilds {
		out = append(out, g.Channels...)
	}
	return append(out, st.PrivateChannels...)
}

// Emojis returns every cached guild emoji
func (b *Bot) Emojis() []*discordgo.Emoji {
	st := b.session.State
	if st == nil {
		return nil
	}
	st.RLock()
	defer st.RUnlock()

	var out []*discordgo.Emoji
	for _, g := range st.Guilds {
		out = append(out, g.Emojis...)
	}
	return out
}

// Latency returns the last measured heartbeat round trip
func (b *Bot) Latency() time.Duration {
	return b.session.HeartbeatLatency()
}

// Pings returns the last heartbeat round trips, newest first
func (b *Bot) Pings() []time.Duration {
	b.pingMu.Lock()
	defer b.pingMu.Unlock()
	out := make([]time.Duration, len(b.pings))
	copy(out, b.pings)
	return out
}

// samplePing records the heartbeat latency once per acknowledged heartbeat.
// The heartbeat fields are read the way Session.HeartbeatLatency reads them,
// since discordgo may hold the session lock while handlers run.
func (b *Bot) samplePing() {
	s := b.session
	if s.LastHeartbeatSent.IsZero() || s.LastHeartbeatAck.Before(s.LastHeartbeatSent) {
		return
	}
	ack := s.LastHeartbeatAck

	b.pingMu.Lock()
	defer b.pingMu.Unlock()
	if ack.Equal(b.lastAck) {
		return
	}
	b.lastAck = ack
	b.pings = append([]time.Duration{ack.Sub(s.LastHeartbeatSent)}, b.pings...)
	if len(b.pings) > maxPings {
		b.pings = b.pings[:maxPings]
	}
}

// ReadyAt returns when the last Ready was received, or the zero time
func (b *Bot) ReadyAt() time.Time {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.readyAt
}

// Uptime returns the time since the last Ready, or zero before it
func (b *Bot) Uptime() time.Duration {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.readyAt.IsZero() {
		return 0
	}
	return time.Since(b.readyAt)
}

// StartedAt returns when Login was called
func (b *Bot) StartedAt() time.Time {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.startTime
}

// Status returns the connection status
func (b *Bot) Status() Status {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.status
}
