// Package commands - member-facing /appeal and /redeem commands
package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/VigilStudios/VigilBotGo/pkg/discord"
	pkgerrors "github.com/VigilStudios/VigilBotGo/pkg/errors"
	"github.com/VigilStudios/VigilBotGo/pkg/moderation"
	"github.com/VigilStudios/VigilBotGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

// RegisterMemberCommands registers the top-level commands any member can use
func RegisterMemberCommands(client *discord.ExtendedClient) {
	appealCmd := createAppealCommand()
	client.CommandHandler.RegisterCommand(appealCmd)

	redeemCmd := createRedeemCommand()
	client.CommandHandler.RegisterCommand(redeemCmd)
}

// createAppealCommand creates the /appeal command
func createAppealCommand() *discord.Command {
	return discord.NewCommand(
		"appeal",
		"Apela una advertencia activa",
		"member",
		appealHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:         discordgo.ApplicationCommandOptionString,
			Name:         "id",
			Description:  "ID de la advertencia que quieres apelar",
			Required:     true,
			Autocomplete: true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "razon",
			Description: "Por qué la advertencia debería anularse",
			Required:    true,
		},
	).WithAutoComplete(appealWarningAutoComplete).RequiresDatabase()
}

// appealHandler handles the /appeal command
func appealHandler(ctx *discord.CommandContext) error {
	go func() {
		defer pkgerrors.RecoverMiddleware()()

		warnID := ctx.GetStringOption("id")
		reason := ctx.GetStringOption("razon")

		opCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		appeal, err := svc.FileAppeal(opCtx, ctx.Interaction.GuildID, ctx.User().ID, warnID, reason)
		if err != nil {
			ctx.ReplyEphemeral(renderMemberError(err))
			return
		}

		ctx.ReplyEphemeralEmbed(&discordgo.MessageEmbed{
			Title: "⚖️ Apelación presentada",
			Color: 0x3498db, // Blue
			Description: fmt.Sprintf(
				"Tu apelación fue registrada y será revisada por el equipo de moderación.\n\n"+
					"> **Advertencia:** `%s`\n"+
					"> **Apelación:** `%s`\n"+
					"> **Razón:** %s\n\n"+
					"Mientras la apelación esté pendiente, la advertencia no suma niveles.",
				appeal.WarningID, appeal.ID, appeal.Reason,
			),
			Timestamp: time.Now().Format(time.RFC3339),
		})
	}()

	return nil
}

// appealWarningAutoComplete offers the member's appealable warnings
func appealWarningAutoComplete(ctx *discord.CommandContext) {
	go func() {
		defer pkgerrors.RecoverMiddleware()()

		opCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		doc, err := svc.Infractions(opCtx, ctx.Interaction.GuildID, ctx.User().ID)
		if err != nil || doc == nil || len(doc.Warnings) == 0 {
			return
		}

		choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, 25)
		for _, warn := range doc.Warnings {
			// Only active or expired warnings can still be contested
			if warn.Status != models.WarningActive && warn.Status != models.WarningExpired {
				continue
			}
			if len(choices) >= 25 {
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

// renderMemberError turns service errors into member-facing Spanish text
func renderMemberError(err error) string {
	var vErr *moderation.ValidationError
	var cErr *moderation.ConflictError
	var cdErr *moderation.CooldownError

	switch {
	case errors.As(err, &vErr):
		return fmt.Sprintf("❌ Dato inválido (%s): %s", vErr.Field, vErr.Reason)
	case errors.As(err, &cErr):
		return "❌ " + cErr.Reason
	case errors.As(err, &cdErr):
		return fmt.Sprintf("⏳ Debes esperar **%s** antes de volver a apelar.", formatRemaining(cdErr.Remaining))
	case moderation.IsRetryable(err):
		return "⚠️ El servicio no está disponible. Inténtalo de nuevo en unos segundos."
	default:
		return "❌ Ocurrió un error procesando tu solicitud."
	}
}

// formatRemaining formats a cooldown remainder in Spanish
func formatRemaining(dur time.Duration) string {
	days := int(dur.Hours() / 24)
	hours := int(dur.Hours()) % 24
	minutes := int(dur.Minutes()) % 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%d días", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%d horas", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%d minutos", minutes))
	}
	if len(parts) == 0 {
		parts = append(parts, "unos segundos")
	}

	return strings.Join(parts, ", ")
}
