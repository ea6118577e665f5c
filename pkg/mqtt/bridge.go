package mqtt

import (
	"fmt"

	"github.com/PancyStudios/DiscModGo/pkg/bot"
	"github.com/PancyStudios/DiscModGo/pkg/logger"
	"github.com/PancyStudios/DiscModGo/pkg/module"
)

// BridgeModuleName is the name of the module returned by NewBridge
const BridgeModuleName = "MQTT Bridge"

// publisher is the part of MqttCommunicator the bridge needs
type publisher interface {
	Publish(topic string, payload interface{}) error
	Topic(parts ...string) string
}

// NewBridge returns a module that publishes every relayed event to
// <base>/events/<name>. filters are topic patterns matched against the
// event name ("#", "+", "guildCreate"); with no filters everything is
// published.
func NewBridge(mc *MqttCommunicator, filters ...string) *module.Module {
	return newBridge(mc, filters)
}

func newBridge(p publisher, filters []string) *module.Module {
	if len(filters) == 0 {
		filters = []string{"#"}
	}

	m := bot.NewTap(BridgeModuleName, func(env bot.Envelope) {
		if !matchAny(filters, string(env.Event)) {
			return
		}
		topic := p.Topic("events", string(env.Event))
		if err := p.Publish(topic, env); err != nil {
			logger.Warn(fmt.Sprintf("No se pudo publicar %s: %v", topic, err), "MQTT")
		}
	})
	m.SetDescription("Publica los eventos del bot en MQTT")
	return m
}

func matchAny(filters []string, topic string) bool {
	for _, f := range filters {
		if topicMatch(f, topic) {
			return true
		}
	}
	return false
}
