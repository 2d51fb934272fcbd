package dev

import (
	"context"
	"fmt"
	"time"

	"github.com/VigilStudios/VigilBotGo/pkg/discord"
	"github.com/VigilStudios/VigilBotGo/pkg/errors"
	"github.com/VigilStudios/VigilBotGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// CreateSweepCommand creates the /dev sweep command
func CreateSweepCommand() *discord.Command {
	return discord.NewCommand(
		"sweep",
		"Fuerza el barrido de advertencias expiradas",
		"dev",
		sweepHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "servidor",
			Description: "ID del servidor a barrer (por defecto, este servidor)",
			Required:    false,
		},
	).AsDev().RequiresDatabase()
}

func sweepHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		if !isDeveloper(ctx) {
			sendErrorEmbed(ctx, "Acceso Denegado", "Este comando solo está disponible para desarrolladores.")
			return
		}

		guildID := ctx.GetStringOption("servidor")
		if guildID == "" {
			guildID = ctx.Interaction.GuildID
		}

		rctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		start := time.Now()
		expired, err := svc.ExpireSweep(rctx, guildID)
		if err != nil {
			logger.Error(fmt.Sprintf("Error en barrido manual de %s: %v", guildID, err), "DevSweep")
			sendErrorEmbed(ctx, "Error", "No se pudo completar el barrido. Revisa los logs.")
			return
		}

		embed := &discordgo.MessageEmbed{
			Title:       "🧹 Barrido Completado",
			Description: fmt.Sprintf("Barrido de advertencias expiradas en el servidor `%s`.", guildID),
			Color:       0x00FF00,
			Fields: []*discordgo.MessageEmbedField{
				{
					Name:   "Advertencias expiradas",
					Value:  fmt.Sprintf("%d", expired),
					Inline: true,
				},
				{
					Name:   "Duración",
					Value:  time.Since(start).Round(time.Millisecond).String(),
					Inline: true,
				},
			},
			Timestamp: time.Now().Format(time.RFC3339),
			Footer: &discordgo.MessageEmbedFooter{
				Text: fmt.Sprintf("Ejecutado por %s", getUserName(ctx)),
			},
		}

		ctx.Session.InteractionRespond(ctx.Interaction.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Embeds: []*discordgo.MessageEmbed{embed},
				Flags:  discordgo.MessageFlagsEphemeral,
			},
		})

		logger.Info(fmt.Sprintf("Barrido manual por %s: %d advertencias expiradas en %s", getUserName(ctx), expired, guildID), "DevSweep")
	}()

	return nil
}
