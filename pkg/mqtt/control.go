package mqtt

import (
	stderrors "errors"
	"fmt"

	"github.com/PancyStudios/DiscModGo/pkg/bot"
	"github.com/PancyStudios/DiscModGo/pkg/logger"
)

// Request topics served by Serve
const (
	TopicPrefix  = "prefix"
	TopicModules = "modules"
	TopicStatus  = "status"
)

// Controller is the part of bot.Bot exposed over MQTT
type Controller interface {
	Prefix() string
	SetPrefixValue(v interface{}) error
	ModuleInfos() []bot.ModuleInfo
	Info() bot.Info
}

// Serve registers the remote control request topics for b
func Serve(mc *MqttCommunicator, b Controller) error {
	handlers := map[string]RequestHandler{
		TopicPrefix:  PrefixHandler(b),
		TopicModules: ModulesHandler(b),
		TopicStatus:  StatusHandler(b),
	}

	var errs []error
	for topic, h := range handlers {
		if err := mc.On(topic, h); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", topic, err))
		}
	}
	if err := stderrors.Join(errs...); err != nil {
		return err
	}

	logger.System(fmt.Sprintf("Control remoto MQTT escuchando en %s", mc.Topic("request", "#")), "MQTT")
	return nil
}

// PrefixHandler answers with the current prefix. When the payload carries a
// "prefix" key it is applied first; non-string values are rejected and the
// prefix stays as it was.
func PrefixHandler(b Controller) RequestHandler {
	return func(payload map[string]interface{}) (interface{}, error) {
		if v, ok := payload["prefix"]; ok {
			if err := b.SetPrefixValue(v); err != nil {
				return nil, err
			}
		}
		return map[string]string{"prefix": b.Prefix()}, nil
	}
}

// ModulesHandler lists the attached modules
func ModulesHandler(b Controller) RequestHandler {
	return func(map[string]interface{}) (interface{}, error) {
		return b.ModuleInfos(), nil
	}
}

// StatusHandler returns the bot snapshot
func StatusHandler(b Controller) RequestHandler {
	return func(map[string]interface{}) (interface{}, error) {
		return b.Info(), nil
	}
}
