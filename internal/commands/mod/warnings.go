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

// createWarningsCommand creates the /mod warns subcommand
func createWarningsCommand() *discord.Command {
	return discord.NewCommand(
		"warns",
		"Lista de advertencias de un usuario",
		"mod",
		warningsHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "[STAFF] Usuario a buscar (opcional)",
			Required:    false,
		},
	).RequiresDatabase()
}

func warningsHandler(ctx *discord.CommandContext) error {
	// Goroutine para no bloquear el hilo principal
	go func() {
		defer errors.RecoverMiddleware()()

		// 1. Determinar objetivo y permisos
		targetUser := ctx.GetUserOption("usuario")
		isSelf := false

		perms, err := ctx.Session.UserChannelPermissions(ctx.User().ID, ctx.Interaction.ChannelID)
		if err != nil {
			perms = 0
		}
		isModerator := (perms & discordgo.PermissionManageMessages) != 0

		if targetUser == nil {
			targetUser = ctx.User()
			isSelf = true
		}

		// Si intenta ver advertencias de otro y no es moderador
		if !isSelf && !isModerator {
			ctx.ReplyEphemeral("❌ No tienes permisos para ver la lista de advertencias de otro usuario.")
			return
		}

		// 2. Feedback inicial
		embedLoading := &discordgo.MessageEmbed{
			Title:       fmt.Sprintf("🔖 - Lista de advertencias de %s", targetUser.Username),
			Description: "Espere un momento mientras obtenemos las advertencias...",
			Color:       0x3498db, // Blue
			Footer: &discordgo.MessageEmbedFooter{
				Text:    "💫 - Developed by VigilStudios",
				IconURL: ctx.Guild().IconURL(""),
			},
		}

		if err := ctx.ReplyEphemeralEmbed(embedLoading); err != nil {
			logger.Error(fmt.Sprintf("Error enviando reply inicial warnings: %v", err), "CMD-Warnings")
			return
		}

		// 3. Consulta del ledger
		opCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		doc, err := svc.Infractions(opCtx, ctx.Interaction.GuildID, targetUser.ID)
		if err != nil {
			logger.Error(fmt.Sprintf("Error consultando infracciones: %v", err), "CMD-Warnings")
			ctx.EditReply(renderServiceError(err))
			return
		}

		points, err := svc.ActivePoints(opCtx, ctx.Interaction.GuildID, targetUser.ID)
		if err != nil {
			ctx.EditReply(renderServiceError(err))
			return
		}

		if doc == nil || len(doc.Warnings) == 0 {
			ctx.EditReplyEmbed(&discordgo.MessageEmbed{
				Title:       fmt.Sprintf("🔖 - Lista de advertencias de %s", targetUser.Username),
				Color:       0x00FF00, // Green
				Description: fmt.Sprintf("No se han encontrado advertencias del usuario en este servidor\n\n> 💫 - **Niveles activos:** 0\n> 🕒 - **Fecha de consulta:** <t:%d>", time.Now().Unix()),
				Footer: &discordgo.MessageEmbedFooter{
					Text:    "💫 - Developed by VigilStudios",
					IconURL: ctx.Guild().IconURL(""),
				},
			})
			return
		}

		// 4. Construir lista de advertencias
		embedList := &discordgo.MessageEmbed{
			Title: fmt.Sprintf("🔖 - Lista de advertencias de %s (%s)", targetUser.Username, targetUser.ID),
			Color: 0xFFA500, // Orange
			Footer: &discordgo.MessageEmbedFooter{
				Text:    "💫 - Developed by VigilStudios",
				IconURL: ctx.Guild().IconURL(""),
			},
		}

		var description string

		for _, warn := range doc.Warnings {
			modName := "Oculto"
			if isModerator {
				modUser, err := ctx.Session.User(warn.IssuerID)
				if err == nil {
					modName = modUser.Username
				} else {
					modName = warn.IssuerID
				}
			}

			origin := ""
			if warn.OriginGuildID != "" {
				origin = fmt.Sprintf("> **Origen:** %s \n", warn.OriginGuildID)
			}

			description += fmt.Sprintf(
				"> **Advertencia:** %s \n> **Gravedad:** %s \n> **Estado:** %s \n> **Moderador:** %s \n%s> **Expira:** <t:%d:R> \n> **ID:** `%s` \n\n",
				warn.Reason, severityLabel(warn.Severity), statusLabel(warn.Status), modName, origin, warn.ExpiresAt.Unix(), warn.ID,
			)
		}

		description += fmt.Sprintf(
			"> 💫 - **Niveles activos:** %d \n> 🎯 - **Créditos de redención:** %d \n> 🕒 - **Fecha de consulta:** <t:%d>",
			points, doc.RedemptionCredits, time.Now().Unix(),
		)

		embedList.Description = description

		// 5. Enviar respuesta final
		ctx.EditReplyEmbed(embedList)
	}()

	return nil
}
