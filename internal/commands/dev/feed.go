package dev

import (
	"fmt"
	"time"

	"github.com/VigilStudios/VigilBotGo/pkg/discord"
	"github.com/VigilStudios/VigilBotGo/pkg/errors"
	"github.com/VigilStudios/VigilBotGo/pkg/mqtt"
	"github.com/VigilStudios/VigilBotGo/pkg/web"
	"github.com/bwmarrin/discordgo"
)

// CreateFeedStatusCommand creates the /dev feed command
func CreateFeedStatusCommand() *discord.Command {
	return discord.NewCommand(
		"feed",
		"Muestra el estado del feed de moderación",
		"dev",
		feedStatusHandler,
	).AsDev()
}

func feedStatusHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		if !isDeveloper(ctx) {
			sendErrorEmbed(ctx, "Acceso Denegado", "Este comando solo está disponible para desarrolladores.")
			return
		}

		wsClients := 0
		if feed := web.GetFeed(); feed != nil {
			wsClients = feed.ClientCount()
		}

		mqttStatus := "🔴 Desconectado"
		if mc := mqtt.Get(); mc != nil && mc.IsConnected() {
			mqttStatus = "🟢 Conectado"
		}

		embed := &discordgo.MessageEmbed{
			Title: "📡 Estado del Feed de Moderación",
			Color: 0x5865F2,
			Fields: []*discordgo.MessageEmbedField{
				{
					Name:   "Suscriptores WebSocket",
					Value:  fmt.Sprintf("%d", wsClients),
					Inline: true,
				},
				{
					Name:   "MQTT",
					Value:  mqttStatus,
					Inline: true,
				},
			},
			Timestamp: time.Now().Format(time.RFC3339),
			Footer: &discordgo.MessageEmbedFooter{
				Text: "💫 - Developed by VigilStudios",
			},
		}

		ctx.Session.InteractionRespond(ctx.Interaction.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Embeds: []*discordgo.MessageEmbed{embed},
				Flags:  discordgo.MessageFlagsEphemeral,
			},
		})
	}()

	return nil
}
