// Package example is the smallest script module: it answers !ping.
package example

import "github.com/PancyStudios/DiscModGo/pkg/module"

func New() *module.Module {
	m := module.New("Example")

	m.OnMessage(func(msg *module.Message) {
		if msg.Content != "!ping" {
			return
		}
		go msg.Reply("pong!")
	})

	return m
}
