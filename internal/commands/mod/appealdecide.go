// Package mod - /mod appeal command (review a pending appeal)
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

// createAppealDecideCommand creates the /mod appeal subcommand
func createAppealDecideCommand() *discord.Command {
	return discord.NewCommand(
		"appeal",
		"Resuelve una apelación pendiente",
		"mod",
		appealDecideHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario que presentó la apelación",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:         discordgo.ApplicationCommandOptionString,
			Name:         "id",
			Description:  "ID de la apelación",
			Required:     true,
			Autocomplete: true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "decision",
			Description: "Resolución de la apelación",
			Required:    true,
			Choices: []*discordgo.ApplicationCommandOptionChoice{
				{Name: "Aprobar (anular advertencia)", Value: "aprobar"},
				{Name: "Denegar", Value: "denegar"},
			},
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "nota",
			Description: "Nota para el usuario",
			Required:    false,
		},
	).WithUserPermissions(discordgo.PermissionModerateMembers).
		WithAutoComplete(appealAutoComplete).RequiresDatabase()
}

// appealDecideHandler handles the /mod appeal command
func appealDecideHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		targetUser := ctx.GetUserOption("usuario")
		appealID := ctx.GetStringOption("id")
		approve := ctx.GetStringOption("decision") == "aprobar"
		note := ctx.GetStringOption("nota")

		if targetUser == nil || appealID == "" {
			ctx.ReplyEphemeral("❌ Debes especificar usuario e ID de la apelación.")
			return
		}

		opCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		appeal, decision, err := svc.DecideAppeal(opCtx, ctx.Interaction.GuildID, targetUser.ID, appealID, approve, ctx.User().ID, note)
		if err != nil {
			ctx.ReplyEphemeral(renderServiceError(err))
			return
		}

		verdict := "❌ Denegada"
		color := 0xFF0000 // Red
		if approve {
			verdict = "✅ Aprobada"
			color = 0x00FF00 // Green
		}

		embed := &discordgo.MessageEmbed{
			Title: "⚖️ Apelación resuelta",
			Color: color,
			Description: fmt.Sprintf(
				"La apelación de **%s** ha sido resuelta.\n\n"+
					"> **Resolución:** %s\n"+
					"> **Advertencia:** `%s`\n"+
					"> **Nota:** %s\n\n"+
					"> 💫 - **Niveles activos:** %d\n"+
					"> ⚖️ - **Sanción vigente:** %s",
				targetUser.Username, verdict, appeal.WarningID, orDash(note), decision.Points, actionLabel(decision.Action),
			),
			Footer: &discordgo.MessageEmbedFooter{
				Text:    fmt.Sprintf("Revisor: %s", ctx.User().Username),
				IconURL: ctx.User().AvatarURL(""),
			},
			Timestamp: time.Now().Format(time.RFC3339),
		}

		if err := ctx.ReplyEmbed(embed); err != nil {
			logger.Error(fmt.Sprintf("Error enviando reply appeal: %v", err), "CMD-Appeal")
		}

		cfg, cfgErr := svc.GuildConfig(opCtx, ctx.Interaction.GuildID)

		// An approved appeal can drop the user below the acted-on threshold.
		// With AutoReversal the mute is lifted; otherwise the channel gets a
		// notification so a moderator can review manually.
		if approve {
			if cfgErr == nil && cfg.AutoReversal {
				revert := &moderation.Action{Kind: models.ActionMute}
				if err := act.Revert(ctx.Interaction.GuildID, targetUser.ID, revert); err != nil {
					logger.Error(fmt.Sprintf("Error revirtiendo sanción: %v", err), "CMD-Appeal")
				}
			} else {
				_, _ = ctx.Session.ChannelMessageSend(ctx.Interaction.ChannelID,
					fmt.Sprintf("ℹ️ El total de **%s** bajó a **%d** niveles. Revisa si alguna sanción aplicada debe retirarse.", targetUser.Username, decision.Points))
			}
		}

		// DM notification
		if cfgErr == nil && cfg.DMNotifications {
			guildName := ctx.Interaction.GuildID
			if g := ctx.Guild(); g != nil {
				guildName = g.Name
			}
			act.NotifyUser(targetUser.ID, &discordgo.MessageEmbed{
				Title: "⚖️ - Tu apelación ha sido resuelta",
				Color: color,
				Description: fmt.Sprintf(
					"⚒ - **Servidor:** %s\n"+
						"📖 - **Resolución:** %s\n"+
						"📝 - **Nota:** %s\n\n"+
						"🕒 - **Fecha:** <t:%d:F>",
					guildName, verdict, orDash(note), time.Now().Unix(),
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

// appealAutoComplete offers the user's pending appeals as choices
func appealAutoComplete(ctx *discord.CommandContext) {
	go func() {
		defer errors.RecoverMiddleware()()

		targetUser := ctx.GetUserOption("usuario")
		if targetUser == nil {
			return
		}

		opCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		doc, err := svc.Infractions(opCtx, ctx.Interaction.GuildID, targetUser.ID)
		if err != nil || doc == nil || len(doc.Appeals) == 0 {
			return
		}

		choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, 25)
		for _, appeal := range doc.Appeals {
			if appeal.Status != models.AppealPending {
				continue
			}
			if len(choices) >= 25 {
				break
			}
			name := fmt.Sprintf("ID: %s - Razón: %s", appeal.ID, appeal.Reason)
			if len(name) > 100 {
				name = name[:97] + "..."
			}
			choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
				Name:  name,
				Value: appeal.ID,
			})
		}

		ctx.SendAutoCompleteChoices(choices)
	}()
}

func orDash(s string) string {
	if s == "" {
		return "Sin nota"
	}
	return s
}
