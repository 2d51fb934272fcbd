// Package mod - /modconfig subcommands for per-guild moderation settings
package mod

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/VigilStudios/VigilBotGo/pkg/discord"
	"github.com/VigilStudios/VigilBotGo/pkg/errors"
	"github.com/VigilStudios/VigilBotGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

// createConfigViewCommand creates the /modconfig view subcommand
func createConfigViewCommand() *discord.Command {
	return discord.NewCommand(
		"view",
		"Muestra la configuración de moderación del servidor",
		"modconfig",
		configViewHandler,
	).WithUserPermissions(discordgo.PermissionManageGuild).RequiresDatabase()
}

func configViewHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		opCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		cfg, err := svc.GuildConfig(opCtx, ctx.Interaction.GuildID)
		if err != nil {
			ctx.ReplyEphemeral(renderServiceError(err))
			return
		}

		var thresholds string
		for _, th := range cfg.Thresholds {
			thresholds += fmt.Sprintf("> **%d niveles** → %s\n", th.Points, actionLabel(thresholdAction(th)))
		}

		var tasks string
		for _, t := range cfg.Tasks {
			proof := ""
			if t.ProofRequired {
				proof = " (requiere prueba)"
			}
			tasks += fmt.Sprintf("> `%s` %s: %d puntos%s\n", t.ID, t.Name, t.PointValue, proof)
		}

		embed := &discordgo.MessageEmbed{
			Title: "⚙️ Configuración de moderación",
			Color: 0x5865F2,
			Fields: []*discordgo.MessageEmbedField{
				{
					Name: "📊 Puntos por gravedad",
					Value: fmt.Sprintf("> Leve: %d | Moderada: %d | Grave: %d",
						cfg.SeverityPoints.Minor, cfg.SeverityPoints.Moderate, cfg.SeverityPoints.Severe),
				},
				{
					Name: "⌛ Expiración por gravedad",
					Value: fmt.Sprintf("> Leve: %s | Moderada: %s | Grave: %s",
						formatDur(cfg.WarningExpiry.Minor), formatDur(cfg.WarningExpiry.Moderate), formatDur(cfg.WarningExpiry.Severe)),
				},
				{
					Name:  "⚖️ Umbrales de escalado",
					Value: thresholds,
				},
				{
					Name:  "🎯 Tareas de redención",
					Value: tasks,
				},
				{
					Name: "🔧 Opciones",
					Value: fmt.Sprintf(
						"> Apelaciones: %s | Cooldown: %s\n> Redención: activada\n> Notificaciones por MD: %s\n> Reversión automática: %s\n> Importar advertencias: %s | Compartir: %s",
						boolLabel(cfg.AllowAppeals), formatDur(cfg.AppealCooldown),
						boolLabel(cfg.DMNotifications), boolLabel(cfg.AutoReversal),
						boolLabel(cfg.Transfer.AcceptTransfers), boolLabel(cfg.Transfer.ShareWarnings),
					),
				},
			},
			Footer: &discordgo.MessageEmbedFooter{
				Text:    "💫 - Developed by VigilStudios",
				IconURL: ctx.Client.Session.State.User.AvatarURL(""),
			},
			Timestamp: time.Now().Format(time.RFC3339),
		}

		ctx.ReplyEphemeralEmbed(embed)
	}()
	return nil
}

// createEscalationViewCommand creates the /modconfig escalation subcommand
func createEscalationViewCommand() *discord.Command {
	return discord.NewCommand(
		"escalation",
		"Muestra los umbrales de escalado del servidor",
		"modconfig",
		escalationViewHandler,
	).WithUserPermissions(discordgo.PermissionManageGuild).RequiresDatabase()
}

func escalationViewHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		opCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		ths, err := svc.Thresholds(opCtx, ctx.Interaction.GuildID)
		if err != nil {
			ctx.ReplyEphemeral(renderServiceError(err))
			return
		}

		var description string
		for _, th := range ths {
			description += fmt.Sprintf("> **%d niveles** → %s\n", th.Points, actionLabel(thresholdAction(th)))
		}

		ctx.ReplyEphemeralEmbed(&discordgo.MessageEmbed{
			Title:       "⚖️ Umbrales de escalado",
			Color:       0x5865F2,
			Description: description,
		})
	}()
	return nil
}

// createEscalationSetCommand creates the /modconfig setescalation subcommand
func createEscalationSetCommand() *discord.Command {
	return discord.NewCommand(
		"setescalation",
		"Define los umbrales de escalado (ej: 3:mute:1h,5:mute:24h,7:kick,10:ban)",
		"modconfig",
		escalationSetHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "umbrales",
			Description: "Lista puntos:accion[:duracion] separada por comas",
			Required:    true,
		},
	).WithUserPermissions(discordgo.PermissionManageGuild).RequiresDatabase()
}

func escalationSetHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		raw := ctx.GetStringOption("umbrales")
		ths, err := parseThresholds(raw)
		if err != nil {
			ctx.ReplyEphemeral("❌ " + err.Error())
			return
		}

		opCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := svc.SetThresholds(opCtx, ctx.Interaction.GuildID, ths); err != nil {
			ctx.ReplyEphemeral(renderServiceError(err))
			return
		}

		ctx.Reply(fmt.Sprintf("✅ Umbrales de escalado actualizados (%d niveles configurados).", len(ths)))
	}()
	return nil
}

// createTaskSetCommand creates the /modconfig settask subcommand
func createTaskSetCommand() *discord.Command {
	return discord.NewCommand(
		"settask",
		"Crea o actualiza una tarea de redención",
		"modconfig",
		taskSetHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "id",
			Description: "Identificador de la tarea",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "nombre",
			Description: "Nombre visible de la tarea",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "puntos",
			Description: "Puntos que acredita al aprobarse",
			Required:    true,
			MinValue:    func() *float64 { v := 1.0; return &v }(),
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionBoolean,
			Name:        "prueba",
			Description: "Exigir prueba al presentar la tarea",
			Required:    false,
		},
	).WithUserPermissions(discordgo.PermissionManageGuild).RequiresDatabase()
}

func taskSetHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		opCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		tasks, err := svc.Tasks(opCtx, ctx.Interaction.GuildID)
		if err != nil {
			ctx.ReplyEphemeral(renderServiceError(err))
			return
		}

		task := models.RedemptionTask{
			ID:            ctx.GetStringOption("id"),
			Name:          ctx.GetStringOption("nombre"),
			PointValue:    int(ctx.GetIntOption("puntos")),
			ProofRequired: ctx.GetBoolOption("prueba"),
		}

		replaced := false
		for i := range tasks {
			if tasks[i].ID == task.ID {
				tasks[i] = task
				replaced = true
				break
			}
		}
		if !replaced {
			tasks = append(tasks, task)
		}

		if err := svc.SetTasks(opCtx, ctx.Interaction.GuildID, tasks); err != nil {
			ctx.ReplyEphemeral(renderServiceError(err))
			return
		}

		ctx.Reply(fmt.Sprintf("✅ Tarea `%s` guardada: **%s** (%d puntos).", task.ID, task.Name, task.PointValue))
	}()
	return nil
}

// createTaskDeleteCommand creates the /modconfig deltask subcommand
func createTaskDeleteCommand() *discord.Command {
	return discord.NewCommand(
		"deltask",
		"Elimina una tarea del catálogo de redención",
		"modconfig",
		taskDeleteHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "id",
			Description: "Identificador de la tarea",
			Required:    true,
		},
	).WithUserPermissions(discordgo.PermissionManageGuild).RequiresDatabase()
}

func taskDeleteHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		taskID := ctx.GetStringOption("id")

		opCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		tasks, err := svc.Tasks(opCtx, ctx.Interaction.GuildID)
		if err != nil {
			ctx.ReplyEphemeral(renderServiceError(err))
			return
		}

		kept := make([]models.RedemptionTask, 0, len(tasks))
		for _, t := range tasks {
			if t.ID != taskID {
				kept = append(kept, t)
			}
		}

		if len(kept) == len(tasks) {
			ctx.ReplyEphemeral("❌ No existe una tarea con ese ID.")
			return
		}

		if err := svc.SetTasks(opCtx, ctx.Interaction.GuildID, kept); err != nil {
			ctx.ReplyEphemeral(renderServiceError(err))
			return
		}

		ctx.Reply(fmt.Sprintf("✅ Tarea `%s` eliminada del catálogo.", taskID))
	}()
	return nil
}

// createToggleCommand creates the /modconfig toggle subcommand
func createToggleCommand() *discord.Command {
	return discord.NewCommand(
		"toggle",
		"Activa o desactiva una opción de moderación",
		"modconfig",
		toggleHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "opcion",
			Description: "Opción a cambiar",
			Required:    true,
			Choices: []*discordgo.ApplicationCommandOptionChoice{
				{Name: "Apelaciones", Value: "appeals"},
				{Name: "Notificaciones por MD", Value: "dm"},
				{Name: "Reversión automática", Value: "autoreversal"},
				{Name: "Aceptar advertencias importadas", Value: "accepttransfers"},
				{Name: "Compartir advertencias", Value: "sharewarnings"},
			},
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionBoolean,
			Name:        "valor",
			Description: "Nuevo valor",
			Required:    true,
		},
	).WithUserPermissions(discordgo.PermissionManageGuild).RequiresDatabase()
}

func toggleHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		option := ctx.GetStringOption("opcion")
		value := ctx.GetBoolOption("valor")

		opCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		cfg, err := svc.GuildConfig(opCtx, ctx.Interaction.GuildID)
		if err != nil {
			ctx.ReplyEphemeral(renderServiceError(err))
			return
		}

		switch option {
		case "appeals":
			cfg.AllowAppeals = value
		case "dm":
			cfg.DMNotifications = value
		case "autoreversal":
			cfg.AutoReversal = value
		case "accepttransfers":
			cfg.Transfer.AcceptTransfers = value
		case "sharewarnings":
			cfg.Transfer.ShareWarnings = value
		default:
			ctx.ReplyEphemeral("❌ Opción desconocida.")
			return
		}

		if err := svc.SaveGuildConfig(opCtx, cfg); err != nil {
			ctx.ReplyEphemeral(renderServiceError(err))
			return
		}

		ctx.Reply(fmt.Sprintf("✅ Opción `%s` establecida en **%s**.", option, boolLabel(value)))
	}()
	return nil
}

// parseThresholds parses "3:mute:1h,5:mute:24h,7:kick,10:ban" into
// escalation thresholds. Validation of ordering happens in the service.
func parseThresholds(raw string) ([]models.EscalationThreshold, error) {
	parts := strings.Split(raw, ",")
	ths := make([]models.EscalationThreshold, 0, len(parts))

	for _, part := range parts {
		fields := strings.Split(strings.TrimSpace(part), ":")
		if len(fields) < 2 {
			return nil, fmt.Errorf("entrada inválida %q, usa puntos:accion[:duracion]", part)
		}

		points, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("puntos inválidos en %q", part)
		}

		action := models.ThresholdAction(fields[1])
		if !action.Valid() {
			return nil, fmt.Errorf("acción inválida %q, usa mute, kick o ban", fields[1])
		}

		var duration time.Duration
		if len(fields) >= 3 {
			duration, err = time.ParseDuration(fields[2])
			if err != nil {
				return nil, fmt.Errorf("duración inválida en %q", part)
			}
		}

		ths = append(ths, models.EscalationThreshold{Points: points, Action: action, Duration: duration})
	}

	return ths, nil
}

func boolLabel(v bool) string {
	if v {
		return "Activado"
	}
	return "Desactivado"
}
