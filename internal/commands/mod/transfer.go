// Package mod - /mod transfer command
package mod

import (
	"context"
	"fmt"
	"time"

	"github.com/VigilStudios/VigilBotGo/pkg/discord"
	"github.com/VigilStudios/VigilBotGo/pkg/errors"
	"github.com/VigilStudios/VigilBotGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// createTransferCommand creates the /mod transfer subcommand. It imports a
// warning issued in another server into the current one, honoring both
// guilds' transfer policies.
func createTransferCommand() *discord.Command {
	return discord.NewCommand(
		"transfer",
		"Importa una advertencia emitida en otro servidor",
		"mod",
		transferHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario cuya advertencia se importa",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "servidor",
			Description: "ID del servidor de origen",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "id",
			Description: "ID de la advertencia en el servidor de origen",
			Required:    true,
		},
	).WithUserPermissions(discordgo.PermissionModerateMembers).RequiresDatabase()
}

// transferHandler handles the /mod transfer command
func transferHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		targetUser := ctx.GetUserOption("usuario")
		sourceGuildID := ctx.GetStringOption("servidor")
		warnID := ctx.GetStringOption("id")

		if targetUser == nil || sourceGuildID == "" || warnID == "" {
			ctx.ReplyEphemeral("❌ Debes especificar usuario, servidor de origen e ID de la advertencia.")
			return
		}

		opCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		warning, decision, err := svc.TransferWarning(opCtx, sourceGuildID, ctx.Interaction.GuildID, targetUser.ID, warnID)
		if err != nil {
			ctx.ReplyEphemeral(renderServiceError(err))
			return
		}

		embed := &discordgo.MessageEmbed{
			Title: "📨 Advertencia importada",
			Color: 0x3498db, // Blue
			Description: fmt.Sprintf(
				"Se importó una advertencia de **%s**.\n\n"+
					"> **Origen:** %s\n"+
					"> **Razón:** %s\n"+
					"> **Peso aplicado:** %.2f\n"+
					"> **Nuevo ID:** `%s`\n\n"+
					"> 💫 - **Niveles activos:** %d\n"+
					"> ⚖️ - **Sanción:** %s",
				targetUser.Username,
				warning.OriginGuildID,
				warning.Reason,
				warning.Weight,
				warning.ID,
				decision.Points,
				actionLabel(decision.Action),
			),
			Footer: &discordgo.MessageEmbedFooter{
				Text:    fmt.Sprintf("Solicitado por %s", ctx.User().Username),
				IconURL: ctx.User().AvatarURL(""),
			},
			Timestamp: time.Now().Format(time.RFC3339),
		}

		if err := ctx.ReplyEmbed(embed); err != nil {
			logger.Error(fmt.Sprintf("Error enviando reply transfer: %v", err), "CMD-Transfer")
			return
		}

		if decision.Action != nil {
			if err := act.Apply(ctx.Interaction.GuildID, targetUser.ID, decision.Action, warning.Reason); err != nil {
				logger.Error(fmt.Sprintf("Error aplicando sanción tras importación: %v", err), "CMD-Transfer")
			}
		}
	}()

	return nil
}
