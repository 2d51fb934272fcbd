// Package events provides a registry for organizing bot events.
// Events are organized by category (ready, guild, member, shard)
package events

import (
	"github.com/VigilStudios/VigilBotGo/pkg/discord"
	"github.com/VigilStudios/VigilBotGo/pkg/logger"
	"github.com/VigilStudios/VigilBotGo/pkg/moderation"
)

// svc is the moderation service used by event handlers.
var svc *moderation.Service

// RegisterAll registers all events with the Discord client
func RegisterAll(client *discord.ExtendedClient, service *moderation.Service) {
	logger.System("📋 Registrando eventos del bot...", "Events")

	svc = service

	// Ready event (bot startup)
	RegisterReadyEvent(client)

	// Guild events (server join/leave)
	RegisterGuildEvents(client)

	// Member events (leave)
	RegisterMemberEvents(client)

	// Shard events (disconnect/resume)
	RegisterShardEvents(client)

	logger.Success("✅ Todos los eventos registrados correctamente", "Events")
}
