// Package mod - /mod redemption command (review a redemption submission)
package mod

import (
	"context"
	"fmt"
	"time"

	"github.com/VigilStudios/VigilBotGo/pkg/discord"
	"github.com/VigilStudios/VigilBotGo/pkg/errors"
	"github.com/VigilStudios/VigilBotGo/pkg/logger"
	"github.com/VigilStudios/VigilBotGo/pkg/moderation"
	"github.com/VigilStudios/VigilBotGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

// createRedemptionReviewCommand creates the /mod redemption subcommand
func createRedemptionReviewCommand() *discord.Command {
	return discord.NewCommand(
		"redemption",
		"Revisa una solicitud de redención pendiente",
		"mod",
		redemptionReviewHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:         discordgo.ApplicationCommandOptionString,
			Name:         "id",
			Description:  "ID de la solicitud",
			Required:     true,
			Autocomplete: true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "decision",
			Description: "Resolución de la solicitud",
			Required:    true,
			Choices: []*discordgo.ApplicationCommandOptionChoice{
				{Name: "Aprobar (acreditar puntos)", Value: "aprobar"},
				{Name: "Rechazar", Value: "rechazar"},
			},
		},
	).WithUserPermissions(discordgo.PermissionModerateMembers).
		WithAutoComplete(redemptionAutoComplete).RequiresDatabase()
}

// redemptionReviewHandler handles the /mod redemption command
func redemptionReviewHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		submissionID := ctx.GetStringOption("id")
		approve := ctx.GetStringOption("decision") == "aprobar"

		if submissionID == "" {
			ctx.ReplyEphemeral("❌ Debes especificar el ID de la solicitud.")
			return
		}

		opCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		sub, decision, err := svc.ReviewRedemption(opCtx, submissionID, approve, ctx.User().ID)
		if err != nil {
			ctx.ReplyEphemeral(renderServiceError(err))
			return
		}

		verdict := "❌ Rechazada"
		color := 0xFF0000 // Red
		credit := ""
		if approve {
			verdict = "✅ Aprobada"
			color = 0x00FF00 // Green
			credit = fmt.Sprintf("\n> 🎯 - **Créditos otorgados:** %d\n> 💫 - **Niveles activos:** %d", sub.PointValue, decision.Points)
		}

		embed := &discordgo.MessageEmbed{
			Title: "🎯 Redención revisada",
			Color: color,
			Description: fmt.Sprintf(
				"La solicitud `%s` ha sido revisada.\n\n"+
					"> **Usuario:** <@%s>\n"+
					"> **Tarea:** %s\n"+
					"> **Resolución:** %s%s",
				sub.ID, sub.UserID, sub.TaskID, verdict, credit,
			),
			Footer: &discordgo.MessageEmbedFooter{
				Text:    fmt.Sprintf("Revisor: %s", ctx.User().Username),
				IconURL: ctx.User().AvatarURL(""),
			},
			Timestamp: time.Now().Format(time.RFC3339),
		}

		if err := ctx.ReplyEmbed(embed); err != nil {
			logger.Error(fmt.Sprintf("Error enviando reply redemption: %v", err), "CMD-Redemption")
		}

		cfg, cfgErr := svc.GuildConfig(opCtx, ctx.Interaction.GuildID)

		// An approved redemption can drop the user below the acted-on
		// threshold. With AutoReversal the mute is lifted; otherwise the
		// channel gets a notification so a moderator can review manually.
		if approve {
			if cfgErr == nil && cfg.AutoReversal {
				revert := &moderation.Action{Kind: models.ActionMute}
				if err := act.Revert(ctx.Interaction.GuildID, sub.UserID, revert); err != nil {
					logger.Error(fmt.Sprintf("Error revirtiendo sanción: %v", err), "CMD-Redemption")
				}
			} else {
				_, _ = ctx.Session.ChannelMessageSend(ctx.Interaction.ChannelID,
					fmt.Sprintf("ℹ️ El total de <@%s> bajó a **%d** niveles. Revisa si alguna sanción aplicada debe retirarse.", sub.UserID, decision.Points))
			}
		}

		// DM notification
		if cfgErr == nil && cfg.DMNotifications {
			guildName := ctx.Interaction.GuildID
			if g := ctx.Guild(); g != nil {
				guildName = g.Name
			}
			act.NotifyUser(sub.UserID, &discordgo.MessageEmbed{
				Title: "🎯 - Tu solicitud de redención ha sido revisada",
				Color: color,
				Description: fmt.Sprintf(
					"⚒ - **Servidor:** %s\n"+
						"📖 - **Tarea:** %s\n"+
						"📊 - **Resolución:** %s\n\n"+
						"🕒 - **Fecha:** <t:%d:F>",
					guildName, sub.TaskID, verdict, time.Now().Unix(),
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

// redemptionAutoComplete offers the guild's pending submissions as choices
func redemptionAutoComplete(ctx *discord.CommandContext) {
	go func() {
		defer errors.RecoverMiddleware()()

		opCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		subs, err := svc.PendingRedemptions(opCtx, ctx.Interaction.GuildID)
		if err != nil || len(subs) == 0 {
			return
		}

		choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, 25)
		for i, sub := range subs {
			if i >= 25 {
				break
			}
			name := fmt.Sprintf("Tarea: %s - Usuario: %s", sub.TaskID, sub.UserID)
			if len(name) > 100 {
				name = name[:97] + "..."
			}
			choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
				Name:  name,
				Value: sub.ID,
			})
		}

		ctx.SendAutoCompleteChoices(choices)
	}()
}
