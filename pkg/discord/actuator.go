// Package discord provides the punishment actuator that applies escalation
// decisions to Discord guilds.
package discord

import (
	"fmt"
	"time"

	"github.com/VigilStudios/VigilBotGo/pkg/logger"
	"github.com/VigilStudios/VigilBotGo/pkg/moderation"
	"github.com/VigilStudios/VigilBotGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

// PunishmentActuator executes escalation actions against Discord members.
// The moderation service only decides actions; applying them is a separate
// step so that decisions stay testable without a live session.
type PunishmentActuator struct {
	session *discordgo.Session
}

// NewPunishmentActuator creates an actuator bound to a Discord session
func NewPunishmentActuator(session *discordgo.Session) *PunishmentActuator {
	return &PunishmentActuator{session: session}
}

// Apply executes the given action against the user in the guild.
// A nil action is a no-op.
func (a *PunishmentActuator) Apply(guildID, userID string, action *moderation.Action, reason string) error {
	if action == nil {
		return nil
	}

	switch action.Kind {
	case models.ActionMute:
		until := time.Now().Add(action.Duration)
		if err := a.session.GuildMemberTimeout(guildID, userID, &until); err != nil {
			return fmt.Errorf("timeout de %s en %s falló: %w", userID, guildID, err)
		}
		logger.Info(fmt.Sprintf("🔇 Usuario %s silenciado en %s por %v", userID, guildID, action.Duration), "Actuator")

	case models.ActionKick:
		if err := a.session.GuildMemberDeleteWithReason(guildID, userID, reason); err != nil {
			return fmt.Errorf("expulsión de %s en %s falló: %w", userID, guildID, err)
		}
		logger.Info(fmt.Sprintf("👢 Usuario %s expulsado de %s", userID, guildID), "Actuator")

	case models.ActionBan:
		if err := a.session.GuildBanCreateWithReason(guildID, userID, reason, 0); err != nil {
			return fmt.Errorf("baneo de %s en %s falló: %w", userID, guildID, err)
		}
		logger.Info(fmt.Sprintf("🔨 Usuario %s baneado de %s", userID, guildID), "Actuator")

	default:
		return fmt.Errorf("acción desconocida: %s", action.Kind)
	}

	return nil
}

// Revert undoes a previously applied action where Discord allows it.
// Kicks cannot be reverted; the member has to rejoin on their own.
func (a *PunishmentActuator) Revert(guildID, userID string, action *moderation.Action) error {
	if action == nil {
		return nil
	}

	switch action.Kind {
	case models.ActionMute:
		if err := a.session.GuildMemberTimeout(guildID, userID, nil); err != nil {
			return fmt.Errorf("quitar timeout de %s en %s falló: %w", userID, guildID, err)
		}
		logger.Info(fmt.Sprintf("🔊 Timeout de %s retirado en %s", userID, guildID), "Actuator")

	case models.ActionBan:
		if err := a.session.GuildBanDelete(guildID, userID); err != nil {
			return fmt.Errorf("quitar baneo de %s en %s falló: %w", userID, guildID, err)
		}
		logger.Info(fmt.Sprintf("🕊️ Baneo de %s retirado en %s", userID, guildID), "Actuator")

	case models.ActionKick:
		logger.Warn(fmt.Sprintf("La expulsión de %s en %s no se puede revertir", userID, guildID), "Actuator")
	}

	return nil
}

// NotifyUser sends a direct message to the user describing a moderation
// outcome. Failures are logged and swallowed: users can close their DMs.
func (a *PunishmentActuator) NotifyUser(userID string, embed *discordgo.MessageEmbed) {
	channel, err := a.session.UserChannelCreate(userID)
	if err != nil {
		logger.Debug("No se pudo abrir DM con "+userID+": "+err.Error(), "Actuator")
		return
	}
	if _, err := a.session.ChannelMessageSendEmbed(channel.ID, embed); err != nil {
		logger.Debug("No se pudo enviar DM a "+userID+": "+err.Error(), "Actuator")
	}
}
