// Package web provides API routes for the web server.
package web

import (
	"net/http"

	"github.com/VigilStudios/VigilBotGo/pkg/database"
	"github.com/VigilStudios/VigilBotGo/pkg/discord"
	"github.com/VigilStudios/VigilBotGo/pkg/moderation"
	"github.com/gin-gonic/gin"
)

// SetupAPIRoutes sets up the API routes
func SetupAPIRoutes(s *Server, svc *moderation.Service) {
	api := s.Group("/api")
	{
		api.GET("/status", statusHandler)
		api.GET("/health", healthHandler)
		api.GET("/bot", botInfoHandler)

		guilds := api.Group("/guilds/:guildId")
		{
			guilds.GET("/config", guildConfigHandler(svc))
			guilds.GET("/users/:userId/infractions", infractionsHandler(svc))
			guilds.GET("/redemptions/pending", pendingRedemptionsHandler(svc))
		}
	}
}

// statusHandler returns the bot and database status
func statusHandler(c *gin.Context) {
	db := database.Get()
	client := discord.Get()

	dbStatus, dbOnline := db.GetStatus()

	botOnline := false
	if client != nil {
		botOnline = client.IsReady()
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"database": gin.H{
			"status":   dbStatus,
			"isOnline": dbOnline,
		},
		"bot": gin.H{
			"isOnline": botOnline,
		},
	})
}

// healthHandler returns a simple health check response
func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "VigilBot Go is running",
	})
}

// botInfoHandler returns information about the bot
func botInfoHandler(c *gin.Context) {
	client := discord.Get()

	if client == nil || !client.IsReady() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Bot Offline",
			"message": "El bot no está disponible en este momento.",
		})
		return
	}

	user := client.Session.State.User

	c.JSON(http.StatusOK, gin.H{
		"id":            user.ID,
		"username":      user.Username,
		"discriminator": user.Discriminator,
		"avatar":        user.Avatar,
		"guilds":        client.GuildCount(),
		"isReady":       client.IsReady(),
	})
}

// guildConfigHandler returns the effective moderation config for a guild
func guildConfigHandler(svc *moderation.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		cfg, err := svc.GuildConfig(c.Request.Context(), c.Param("guildId"))
		if err != nil {
			writeModerationError(c, err)
			return
		}
		c.JSON(http.StatusOK, cfg)
	}
}

// infractionsHandler returns a user's ledger with the derived point total
func infractionsHandler(svc *moderation.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		guildID := c.Param("guildId")
		userID := c.Param("userId")

		doc, err := svc.Infractions(c.Request.Context(), guildID, userID)
		if err != nil {
			writeModerationError(c, err)
			return
		}

		points, err := svc.ActivePoints(c.Request.Context(), guildID, userID)
		if err != nil {
			writeModerationError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"guildId":      guildID,
			"userId":       userID,
			"activePoints": points,
			"ledger":       doc,
		})
	}
}

// pendingRedemptionsHandler lists redemption submissions waiting for review
func pendingRedemptionsHandler(svc *moderation.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		subs, err := svc.PendingRedemptions(c.Request.Context(), c.Param("guildId"))
		if err != nil {
			writeModerationError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"guildId":     c.Param("guildId"),
			"submissions": subs,
		})
	}
}

// writeModerationError maps service errors onto HTTP status codes
func writeModerationError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if moderation.IsRetryable(err) {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
