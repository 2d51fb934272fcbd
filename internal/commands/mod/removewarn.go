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

// createRemoveWarnCommand creates the /mod removewarn subcommand
func createRemoveWarnCommand() *discord.Command {
	return discord.NewCommand(
		"removewarn",
		"Elimina una advertencia específica de un usuario",
		"mod",
		removeWarnHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario del cual eliminar la advertencia",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:         discordgo.ApplicationCommandOptionString,
			Name:         "id",
			Description:  "ID de la advertencia a eliminar",
			Required:     true,
			Autocomplete: true,
		},
	).WithUserPermissions(discordgo.PermissionModerateMembers).WithAutoComplete(removeWarnAutoComplete).RequiresDatabase()
}

// removeWarnHandler handles the /mod removewarn command
func removeWarnHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		// 1. Obtener argumentos
		targetUser := ctx.GetUserOption("usuario")
		warnID := ctx.GetStringOption("id")

		if targetUser == nil {
			ctx.ReplyEphemeral("❌ Debes especificar un usuario válido.")
			return
		}

		if warnID == "" {
			ctx.ReplyEphemeral("❌ Debes especificar el ID de la advertencia.")
			return
		}

		// 2. Feedback inicial
		embedProcess := &discordgo.MessageEmbed{
			Title:       "🗑️ Eliminando advertencia...",
			Description: fmt.Sprintf("Eliminando advertencia de **%s**...\n\nEspere un momento...", targetUser.String()),
			Color:       0xFFFF00, // Yellow
			Footer: &discordgo.MessageEmbedFooter{
				Text:    fmt.Sprintf("Solicitado por %s", ctx.User().String()),
				IconURL: ctx.User().AvatarURL(""),
			},
			Timestamp: time.Now().Format(time.RFC3339),
		}

		if err := ctx.ReplyEmbed(embedProcess); err != nil {
			logger.Error(fmt.Sprintf("Error enviando reply inicial: %v", err), "CMD-RemoveWarn")
			return
		}

		// 3. Eliminar del ledger
		opCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := svc.DeleteWarning(opCtx, ctx.Interaction.GuildID, targetUser.ID, warnID); err != nil {
			logger.Error(fmt.Sprintf("Error eliminando advertencia: %v", err), "CMD-RemoveWarn")
			ctx.EditReply(renderServiceError(err))
			return
		}

		// 4. Embed de Éxito
		embedSuccess := &discordgo.MessageEmbed{
			Title:       "✅ Advertencia eliminada con éxito",
			Description: fmt.Sprintf("La advertencia de **%s** ha sido eliminada.\n\n**ID:** `%s`", targetUser.String(), warnID),
			Color:       0x00FF00, // Green
			Footer: &discordgo.MessageEmbedFooter{
				Text:    fmt.Sprintf("Solicitado por %s", ctx.User().String()),
				IconURL: ctx.User().AvatarURL(""),
			},
			Timestamp: time.Now().Format(time.RFC3339),
		}
		ctx.EditReplyEmbed(embedSuccess)

		// 5. Enviar MD al usuario
		embedDM := &discordgo.MessageEmbed{
			Title: "ℹ - Advertencia eliminada",
			Color: 0x00FF00,
			Description: fmt.Sprintf(
				"⚒ - **Servidor:** %s (%s)\n"+
					"🗑️ - **Advertencia eliminada:** `%s`\n\n"+
					"🕒 - **Fecha:** <t:%d:F>",
				ctx.Guild().Name, ctx.Interaction.GuildID, warnID, time.Now().Unix(),
			),
			Footer: &discordgo.MessageEmbedFooter{
				Text:    "💫 - Developed by VigilStudios",
				IconURL: ctx.Client.Session.State.User.AvatarURL(""),
			},
		}

		userChannel, err := ctx.Session.UserChannelCreate(targetUser.ID)
		if err == nil {
			_, _ = ctx.Session.ChannelMessageSendEmbed(userChannel.ID, embedDM)
		} else {
			// Notificar fallo de MD
			msg, _ := ctx.Session.ChannelMessageSend(ctx.Interaction.ChannelID, fmt.Sprintf("ℹ️ No se pudo enviar un mensaje directo a **%s**.", targetUser.String()))
			go func() {
				time.Sleep(5 * time.Second)
				err := ctx.Session.ChannelMessageDelete(ctx.Interaction.ChannelID, msg.ID)
				if err != nil {
					return
				}
			}()
		}
	}()

	return nil
}

// removeWarnAutoComplete handles autocomplete for the removewarn command
func removeWarnAutoComplete(ctx *discord.CommandContext) {
	go func() {
		defer errors.RecoverMiddleware()()

		targetUser := ctx.GetUserOption("usuario")
		if targetUser == nil {
			return
		}

		opCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		doc, err := svc.Infractions(opCtx, ctx.Interaction.GuildID, targetUser.ID)
		if err != nil || doc == nil || len(doc.Warnings) == 0 {
			return
		}

		choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, 25)
		for i, warn := range doc.Warnings {
			if i >= 25 {
				break
			}
			name := fmt.Sprintf("ID: %s - Razón: %s", warn.ID, warn.Reason)
			if len(name) > 100 {
				name = name[:97] + "..."
			}
			choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
				Name:  name,
				Value: warn.ID,
			})
		}

		ctx.SendAutoCompleteChoices(choices)
	}()
}
