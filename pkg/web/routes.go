// Package web provides API routes for the web server.
package web

import (
	"net/http"

	"github.com/PancyStudios/DiscModGo/pkg/bot"
	"github.com/PancyStudios/DiscModGo/pkg/config"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
)

// BotView is the part of bot.Bot the API reads and controls
type BotView interface {
	Info() bot.Info
	ModuleInfos() []bot.ModuleInfo
	Prefix() string
	SetPrefixValue(v interface{}) error
}

type api struct {
	bot BotView
	hub *Hub
}

// SetupAPIRoutes sets up the API routes. hub may be nil, in which case the
// event stream route is not registered.
func SetupAPIRoutes(s *Server, b BotView, hub *Hub) {
	a := &api{bot: b, hub: hub}

	group := s.Group("/api")
	{
		group.GET("/health", a.healthHandler)
		group.GET("/status", a.statusHandler)
		group.GET("/bot", a.botInfoHandler)
		group.GET("/modules", a.modulesHandler)
		group.GET("/prefix", a.prefixHandler)
		group.PUT("/prefix", a.setPrefixHandler)
		if hub != nil {
			group.GET("/events/ws", hub.HandleWebSocket)
		}
	}
}

// healthHandler returns a simple health check response
func (a *api) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "DiscMod Go is running",
	})
}

// statusHandler returns the bot and stream status
func (a *api) statusHandler(c *gin.Context) {
	info := a.bot.Info()

	streams := 0
	if a.hub != nil {
		streams = a.hub.Clients()
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": config.Version,
		"bot": gin.H{
			"status":   info.Status,
			"isOnline": info.Status == bot.StatusReady,
		},
		"modules": info.Modules,
		"streams": streams,
	})
}

// botInfoHandler returns information about the bot
func (a *api) botInfoHandler(c *gin.Context) {
	info := a.bot.Info()

	if info.Status != bot.StatusReady {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Bot Offline",
			"message": "El bot no está disponible en este momento.",
			"status":  info.Status,
		})
		return
	}

	c.JSON(http.StatusOK, info)
}

func (a *api) modulesHandler(c *gin.Context) {
	c.JSON(http.StatusOK, a.bot.ModuleInfos())
}

func (a *api) prefixHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"prefix": a.bot.Prefix()})
}

// setPrefixHandler expects {"prefix": "..."}; anything but a non-empty
// string is a 400 and the prefix stays unchanged.
func (a *api) setPrefixHandler(c *gin.Context) {
	var body map[string]interface{}
	if err := json.NewDecoder(c.Request.Body).Decode(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "Bad Request",
			"prefix": a.bot.Prefix(),
		})
		return
	}

	v, ok := body["prefix"]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "Falta el campo 'prefix'",
			"prefix": a.bot.Prefix(),
		})
		return
	}

	if err := a.bot.SetPrefixValue(v); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  err.Error(),
			"prefix": a.bot.Prefix(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"prefix": a.bot.Prefix()})
}
