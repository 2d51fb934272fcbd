// Package mod provides moderation commands organized as subcommands under /mod
// Each command is in its own file for better organization
package mod

import (
	"errors"
	"fmt"

	"github.com/VigilStudios/VigilBotGo/pkg/discord"
	"github.com/VigilStudios/VigilBotGo/pkg/moderation"
	"github.com/VigilStudios/VigilBotGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

var (
	svc *moderation.Service
	act *discord.PunishmentActuator
)

// RegisterModCommands registers all moderation commands as /mod subcommands
func RegisterModCommands(client *discord.ExtendedClient, service *moderation.Service, actuator *discord.PunishmentActuator) {
	svc = service
	act = actuator

	// Create individual subcommands (each can be in its own file)
	warnCmd := createWarnCommand()
	warnsCmd := createWarningsCommand()
	removeWarnCmd := createRemoveWarnCommand()
	muteCmd := createMuteCommand()
	kickCmd := createKickCommand()
	banCmd := createBanCommand()
	transferCmd := createTransferCommand()
	appealCmd := createAppealDecideCommand()
	redemptionCmd := createRedemptionReviewCommand()

	// Build the /mod command group with all subcommands
	modGroup := client.CommandHandler.BuildCommandGroup(
		"mod",
		"Comandos de moderación",
		warnCmd,
		warnsCmd,
		removeWarnCmd,
		muteCmd,
		kickCmd,
		banCmd,
		transferCmd,
		appealCmd,
		redemptionCmd,
	)
	client.CommandHandler.AddGlobalCommand(modGroup)

	// Build the /modconfig command group for per-guild configuration
	configGroup := client.CommandHandler.BuildCommandGroup(
		"modconfig",
		"Configuración del sistema de moderación",
		createConfigViewCommand(),
		createEscalationViewCommand(),
		createEscalationSetCommand(),
		createTaskSetCommand(),
		createTaskDeleteCommand(),
		createToggleCommand(),
	)
	client.CommandHandler.AddGlobalCommand(configGroup)
}

// severityChoices are the selectable severity levels for /mod warn
func severityChoices() []*discordgo.ApplicationCommandOptionChoice {
	return []*discordgo.ApplicationCommandOptionChoice{
		{Name: "Leve (1 nivel)", Value: int64(models.SeverityMinor)},
		{Name: "Moderada (2 niveles)", Value: int64(models.SeverityModerate)},
		{Name: "Grave (3 niveles)", Value: int64(models.SeveritySevere)},
	}
}

// renderServiceError turns a moderation service error into a user-facing
// Spanish message. Unknown errors get a generic line so internals stay out
// of Discord.
func renderServiceError(err error) string {
	var vErr *moderation.ValidationError
	var cErr *moderation.ConflictError
	var cdErr *moderation.CooldownError
	var cfgErr *moderation.ConfigError

	switch {
	case errors.As(err, &vErr):
		return fmt.Sprintf("❌ Dato inválido (%s): %s", vErr.Field, vErr.Reason)
	case errors.As(err, &cErr):
		return "❌ " + cErr.Reason
	case errors.As(err, &cdErr):
		return fmt.Sprintf("⏳ Debes esperar **%s** antes de volver a apelar.", formatDur(cdErr.Remaining))
	case errors.As(err, &cfgErr):
		return "❌ Configuración inválida: " + cfgErr.Reason
	case moderation.IsRetryable(err):
		return "⚠️ La base de datos no está disponible. Inténtalo de nuevo en unos segundos."
	default:
		return "❌ Ocurrió un error procesando la operación."
	}
}
