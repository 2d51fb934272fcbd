// Package events provides event handlers for member events
package events

import (
	"context"
	"fmt"
	"time"

	"github.com/VigilStudios/VigilBotGo/pkg/discord"
	"github.com/VigilStudios/VigilBotGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// RegisterMemberEvents registers all member-related event handlers
func RegisterMemberEvents(client *discord.ExtendedClient) {
	client.Session.AddHandler(onGuildMemberRemove)
}

// onGuildMemberRemove is called when a member leaves the server.
// Warnings persist, so a user who leaves with active points comes
// back to the same total. We log it so moderators can audit later.
func onGuildMemberRemove(s *discordgo.Session, m *discordgo.GuildMemberRemove) {
	if svc == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	points, err := svc.ActivePoints(ctx, m.GuildID, m.User.ID)
	if err != nil {
		logger.Debug(fmt.Sprintf("No se pudo consultar puntos de %s al salir: %v", m.User.ID, err), "Member")
		return
	}

	if points > 0 {
		logger.Info(fmt.Sprintf("👋 %s salió del servidor %s con %d puntos activos (el registro se conserva)",
			m.User.Username, m.GuildID, points), "Member")
	}
}
