package dev

import (
	"github.com/VigilStudios/VigilBotGo/pkg/discord"
	"github.com/VigilStudios/VigilBotGo/pkg/moderation"
)

// svc is the moderation service used by dev commands.
var svc *moderation.Service

// RegisterDevCommands registers all dev commands as /dev subcommands (only in dev guild)
func RegisterDevCommands(client *discord.ExtendedClient, service *moderation.Service) {
	svc = service

	sweepCmd := CreateSweepCommand()
	feedCmd := CreateFeedStatusCommand()

	devGroup := client.CommandHandler.BuildCommandGroup(
		"dev",
		"Comandos de desarrollo",
		sweepCmd,
		feedCmd,
	)

	client.CommandHandler.AddDevCommand(devGroup)
}
