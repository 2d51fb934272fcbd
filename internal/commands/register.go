// Package commands provides a registry for organizing bot commands.
// Commands are organized in subdirectories by category (utils, mod, dev)
package commands

import (
	"github.com/VigilStudios/VigilBotGo/internal/commands/dev"
	"github.com/VigilStudios/VigilBotGo/internal/commands/mod"
	"github.com/VigilStudios/VigilBotGo/internal/commands/utils"
	"github.com/VigilStudios/VigilBotGo/pkg/discord"
	"github.com/VigilStudios/VigilBotGo/pkg/moderation"
)

var svc *moderation.Service

// RegisterAll registers all commands with the Discord client
func RegisterAll(client *discord.ExtendedClient, service *moderation.Service, actuator *discord.PunishmentActuator) {
	svc = service

	// Utility commands (/utils ping, /utils status, ...)
	utils.RegisterUtilsCommands(client)

	// Member-facing moderation commands (/appeal, /redeem)
	RegisterMemberCommands(client)

	// Moderation commands (/mod warn, /mod warns, /modconfig ...)
	mod.RegisterModCommands(client, service, actuator)

	// Developer commands (/dev sweep, /dev feed)
	dev.RegisterDevCommands(client, service)
}
