package dev

import (
	"time"

	"github.com/VigilStudios/VigilBotGo/pkg/config"
	"github.com/VigilStudios/VigilBotGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// isDeveloper checks if the invoking user is the configured developer
func isDeveloper(ctx *discord.CommandContext) bool {
	userID := ""
	if ctx.Interaction.Member != nil && ctx.Interaction.Member.User != nil {
		userID = ctx.Interaction.Member.User.ID
	} else if ctx.Interaction.User != nil {
		userID = ctx.Interaction.User.ID
	}

	devID := config.Get().DevUserID
	return devID != "" && userID == devID
}

// getUserName returns the display name of the invoking user
func getUserName(ctx *discord.CommandContext) string {
	if ctx.Interaction.Member != nil && ctx.Interaction.Member.User != nil {
		return ctx.Interaction.Member.User.Username
	}
	if ctx.Interaction.User != nil {
		return ctx.Interaction.User.Username
	}
	return "Desconocido"
}

// sendErrorEmbed sends an ephemeral error embed
func sendErrorEmbed(ctx *discord.CommandContext, title, description string) {
	embed := &discordgo.MessageEmbed{
		Title:       "❌ " + title,
		Description: description,
		Color:       0xFF0000,
		Timestamp:   time.Now().Format(time.RFC3339),
	}

	ctx.Session.InteractionRespond(ctx.Interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
}
