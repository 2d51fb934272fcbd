// Package commands - member-facing /redeem command
package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/VigilStudios/VigilBotGo/pkg/discord"
	pkgerrors "github.com/VigilStudios/VigilBotGo/pkg/errors"
	"github.com/bwmarrin/discordgo"
)

// createRedeemCommand creates the /redeem command
func createRedeemCommand() *discord.Command {
	return discord.NewCommand(
		"redeem",
		"Presenta una tarea de redención para reducir tus niveles",
		"member",
		redeemHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:         discordgo.ApplicationCommandOptionString,
			Name:         "tarea",
			Description:  "Tarea del catálogo que completaste",
			Required:     true,
			Autocomplete: true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "prueba",
			Description: "Prueba de la tarea (enlace o descripción)",
			Required:    false,
		},
	).WithAutoComplete(redeemTaskAutoComplete).RequiresDatabase()
}

// redeemHandler handles the /redeem command
func redeemHandler(ctx *discord.CommandContext) error {
	go func() {
		defer pkgerrors.RecoverMiddleware()()

		taskID := ctx.GetStringOption("tarea")
		proof := ctx.GetStringOption("prueba")

		opCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		sub, err := svc.SubmitRedemption(opCtx, ctx.Interaction.GuildID, ctx.User().ID, taskID, proof)
		if err != nil {
			ctx.ReplyEphemeral(renderMemberError(err))
			return
		}

		ctx.ReplyEphemeralEmbed(&discordgo.MessageEmbed{
			Title: "🎯 Solicitud de redención presentada",
			Color: 0x3498db, // Blue
			Description: fmt.Sprintf(
				"Tu solicitud fue registrada y espera revisión de un moderador.\n\n"+
					"> **Tarea:** %s\n"+
					"> **Solicitud:** `%s`\n"+
					"> **Puntos al aprobarse:** %d",
				sub.TaskID, sub.ID, sub.PointValue,
			),
			Timestamp: time.Now().Format(time.RFC3339),
		})
	}()

	return nil
}

// redeemTaskAutoComplete offers the guild's task catalog as choices
func redeemTaskAutoComplete(ctx *discord.CommandContext) {
	go func() {
		defer pkgerrors.RecoverMiddleware()()

		opCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		tasks, err := svc.Tasks(opCtx, ctx.Interaction.GuildID)
		if err != nil || len(tasks) == 0 {
			return
		}

		choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, 25)
		for i, task := range tasks {
			if i >= 25 {
				break
			}
			name := fmt.Sprintf("%s (%d puntos)", task.Name, task.PointValue)
			if task.ProofRequired {
				name += " [requiere prueba]"
			}
			if len(name) > 100 {
				name = name[:97] + "..."
			}
			choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
				Name:  name,
				Value: task.ID,
			})
		}

		ctx.SendAutoCompleteChoices(choices)
	}()
}
