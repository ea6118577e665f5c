// Package main provides a small remote control for a running bot over MQTT.
//
// Usage:
//   go run ./cmd/botctl [options] <command> [args]
//
// Commands:
//   prefix           Show the current command prefix
//   prefix <value>   Change the command prefix
//   modules          List the loaded modules
//   status           Show connection status and counters
//
// Options:
//   -timeout <dur>   How long to wait for the bot to answer (default 5s)
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/PancyStudios/DiscModGo/pkg/config"
	"github.com/PancyStudios/DiscModGo/pkg/logger"
	"github.com/PancyStudios/DiscModGo/pkg/mqtt"
	"github.com/goccy/go-json"
)

func main() {
	timeout := flag.Duration("timeout", 5*time.Second, "How long to wait for the bot to answer")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	topic, payload, err := request(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init("", "")
	defer log.Close()
	log.SetDebug(cfg.Debug)

	if !cfg.MQTTEnabled() {
		logger.Critical("MQTT no está configurado (MQTT_Host)", "BotCtl")
		os.Exit(1)
	}

	mc := mqtt.NewMqttCommunicator(mqtt.Options{
		Host:      cfg.MQTTHost,
		Port:      cfg.MQTTPort,
		Username:  cfg.MQTTUser,
		Password:  cfg.MQTTPassword,
		ClientID:  "discmod_ctl",
		BaseTopic: cfg.MQTTTopic,
	})
	defer mc.Destroy()

	data, err := mc.Request(topic, payload, *timeout)
	if err != nil {
		logger.Error(fmt.Sprintf("La petición %s falló: %v", topic, err), "BotCtl")
		os.Exit(1)
	}

	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		logger.Error(fmt.Sprintf("Respuesta ilegible: %v", err), "BotCtl")
		os.Exit(1)
	}
	fmt.Println(string(out))
}

// request maps the command line onto a control topic and its payload
func request(args []string) (string, map[string]interface{}, error) {
	switch args[0] {
	case mqtt.TopicPrefix:
		if len(args) > 1 {
			return mqtt.TopicPrefix, map[string]interface{}{"prefix": args[1]}, nil
		}
		return mqtt.TopicPrefix, nil, nil
	case mqtt.TopicModules, mqtt.TopicStatus:
		return args[0], nil, nil
	default:
		return "", nil, fmt.Errorf("comando desconocido %q (prefix, modules, status)", args[0])
	}
}
