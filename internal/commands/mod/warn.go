// Package mod - /mod warn command
package mod

import (
	"context"
	"fmt"
	"time"

	"github.com/VigilStudios/VigilBotGo/pkg/discord"
	"github.com/VigilStudios/VigilBotGo/pkg/errors"
	"github.com/VigilStudios/VigilBotGo/pkg/logger"
	"github.com/VigilStudios/VigilBotGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

// createWarnCommand creates the /mod warn subcommand
func createWarnCommand() *discord.Command {
	return discord.NewCommand(
		"warn",
		"Advierte a un usuario",
		"mod",
		warnHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario a advertir",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "gravedad",
			Description: "Gravedad de la advertencia",
			Required:    true,
			Choices:     severityChoices(),
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "razon",
			Description: "Razón de la advertencia",
			Required:    true,
		},
	).WithUserPermissions(discordgo.PermissionModerateMembers).RequiresDatabase()
}

// warnHandler handles the /mod warn command
func warnHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		user := ctx.GetUserOption("usuario")
		if user == nil {
			ctx.ReplyEphemeral("❌ Debes especificar un usuario.")
			return
		}

		severity := models.Severity(ctx.GetIntOption("gravedad"))
		reason := ctx.GetStringOption("razon")

		opCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		warning, decision, err := svc.IssueWarning(opCtx, ctx.Interaction.GuildID, user.ID, ctx.User().ID, severity, reason)
		if err != nil {
			ctx.ReplyEphemeral(renderServiceError(err))
			return
		}

		embed := &discordgo.MessageEmbed{
			Title: "⚠️ Advertencia registrada",
			Color: 0xFFA500, // Orange
			Description: fmt.Sprintf(
				"**%s** ha sido advertido.\n\n"+
					"> **Gravedad:** %s\n"+
					"> **Razón:** %s\n"+
					"> **ID:** `%s`\n"+
					"> **Expira:** <t:%d:R>\n\n"+
					"> 💫 - **Niveles activos:** %d\n"+
					"> ⚖️ - **Sanción:** %s",
				user.Username,
				severityLabel(warning.Severity),
				warning.Reason,
				warning.ID,
				warning.ExpiresAt.Unix(),
				decision.Points,
				actionLabel(decision.Action),
			),
			Footer: &discordgo.MessageEmbedFooter{
				Text:    fmt.Sprintf("Moderador: %s", ctx.User().Username),
				IconURL: ctx.User().AvatarURL(""),
			},
			Timestamp: time.Now().Format(time.RFC3339),
		}

		if err := ctx.ReplyEmbed(embed); err != nil {
			logger.Error(fmt.Sprintf("Error enviando reply warn: %v", err), "CMD-Warn")
		}

		// Apply the decided punishment
		if decision.Action != nil {
			if err := act.Apply(ctx.Interaction.GuildID, user.ID, decision.Action, reason); err != nil {
				logger.Error(fmt.Sprintf("Error aplicando sanción: %v", err), "CMD-Warn")
			}
		}

		// DM notification
		cfg, err := svc.GuildConfig(opCtx, ctx.Interaction.GuildID)
		if err == nil && cfg.DMNotifications {
			guildName := ctx.Interaction.GuildID
			if g := ctx.Guild(); g != nil {
				guildName = g.Name
			}
			act.NotifyUser(user.ID, &discordgo.MessageEmbed{
				Title: "⚠️ - Has recibido una advertencia",
				Color: 0xFFA500,
				Description: fmt.Sprintf(
					"⚒ - **Servidor:** %s\n"+
						"📖 - **Razón:** %s\n"+
						"📊 - **Gravedad:** %s\n"+
						"⚖️ - **Sanción aplicada:** %s\n\n"+
						"🕒 - **Fecha:** <t:%d:F>",
					guildName, reason, severityLabel(severity), actionLabel(decision.Action), time.Now().Unix(),
				),
				Footer: &discordgo.MessageEmbedFooter{
					Text:    "💫 - Developed by VigilStudios",
					IconURL: ctx.Client.Session.State.User.AvatarURL(""),
				},
			})
		}
	}()

	return nil
}
