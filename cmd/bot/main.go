// Package main is the entry point for the DiscMod Go bot.
// It loads the configuration, attaches the modules and connects to Discord.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/PancyStudios/DiscModGo/internal/plugins"
	"github.com/PancyStudios/DiscModGo/pkg/bot"
	"github.com/PancyStudios/DiscModGo/pkg/config"
	"github.com/PancyStudios/DiscModGo/pkg/errors"
	"github.com/PancyStudios/DiscModGo/pkg/logger"
	"github.com/PancyStudios/DiscModGo/pkg/mqtt"
	"github.com/PancyStudios/DiscModGo/pkg/web"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.Init(cfg.ErrorWebhook, cfg.LogsWebhook)
	defer log.Close()
	log.SetDebug(cfg.Debug || !cfg.IsProd())

	logger.System(fmt.Sprintf("Iniciando DiscMod Go %s (%s)...", config.Version, config.BuildTime), "Main")
	logger.Info(fmt.Sprintf("Directorio de trabajo: %s", getCurrentDir()), "Main")

	// Initialize error handler
	var b *bot.Bot
	errors.Init(cfg.ErrorWebhook, cfg.ErrorLimit, func() {
		if b != nil {
			_ = b.Close()
		}
	})
	defer errors.Get().Stop()

	b, err = bot.New(bot.WithConfig(cfg), bot.WithRegistered(true))
	if err != nil {
		logger.Critical(fmt.Sprintf("Error creando el bot: %v", err), "Main")
		os.Exit(1)
	}

	// Initialize MQTT
	if cfg.MQTTEnabled() {
		clientID := "discmod"
		if !cfg.IsProd() {
			clientID = "discmod_canary"
		}

		mc := mqtt.Init(mqtt.Options{
			Host:      cfg.MQTTHost,
			Port:      cfg.MQTTPort,
			Username:  cfg.MQTTUser,
			Password:  cfg.MQTTPassword,
			ClientID:  clientID,
			BaseTopic: cfg.MQTTTopic,
		})
		defer mc.Destroy()

		if err := b.AddModule(mqtt.NewBridge(mc, cfg.MQTTEvents...)); err != nil {
			logger.Error(fmt.Sprintf("Error añadiendo el puente MQTT: %v", err), "Main")
		}
		if err := mqtt.Serve(mc, b); err != nil {
			logger.Error(fmt.Sprintf("Error registrando el control remoto MQTT: %v", err), "Main")
		}
	}

	// Initialize web server
	webServer, err := web.Init(web.Options{
		WebhookURL:   cfg.LogsWebServerHook,
		AllowedHosts: cfg.AllowedHosts,
	})
	if err != nil {
		logger.Critical(fmt.Sprintf("Error creando el servidor web: %v", err), "Main")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := web.NewHub()
	go hub.Run(ctx)
	if err := b.AddModule(hub.Module()); err != nil {
		logger.Error(fmt.Sprintf("Error añadiendo el stream de eventos: %v", err), "Main")
	}

	web.SetupAPIRoutes(webServer, b, hub)
	webServer.StartAsync(cfg.Port)

	// Start the bot
	if err := b.Login(cfg.BotToken); err != nil {
		logger.Critical(fmt.Sprintf("Error conectando con Discord: %v", err), "Main")
		os.Exit(1)
	}

	logger.Success(fmt.Sprintf("DiscMod Go iniciado con %d módulos!", len(b.Modules())), "Main")

	// Wait for interrupt signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-stop

	logger.System("Apagando DiscMod Go...", "Main")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := webServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn(fmt.Sprintf("Error cerrando el servidor web: %v", err), "Main")
	}
	if err := b.Close(); err != nil {
		logger.Warn(fmt.Sprintf("Error cerrando la sesión de Discord: %v", err), "Main")
	}
}

// getCurrentDir returns the current working directory
func getCurrentDir() string {
	dir, err := os.Getwd()
	if err != nil {
		return "unknown"
	}
	return dir
}
