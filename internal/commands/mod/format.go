package mod

import (
	"fmt"
	"strings"
	"time"

	"github.com/VigilStudios/VigilBotGo/pkg/moderation"
	"github.com/VigilStudios/VigilBotGo/pkg/models"
)

// formatDur formats a time.Duration into a human-readable Spanish string
func formatDur(dur time.Duration) string {
	if dur <= 0 {
		return "0 segundos"
	}

	days := int(dur.Hours() / 24)
	hours := int(dur.Hours()) % 24
	minutes := int(dur.Minutes()) % 60
	seconds := int(dur.Seconds()) % 60

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
	if seconds > 0 {
		parts = append(parts, fmt.Sprintf("%d segundos", seconds))
	}

	return strings.Join(parts, ", ")
}

// actionLabel renders an escalation action for embeds
func actionLabel(a *moderation.Action) string {
	if a == nil {
		return "Ninguna"
	}
	switch a.Kind {
	case models.ActionMute:
		return fmt.Sprintf("🔇 Silencio por %s", formatDur(a.Duration))
	case models.ActionKick:
		return "👢 Expulsión"
	case models.ActionBan:
		return "🔨 Baneo"
	default:
		return string(a.Kind)
	}
}

// thresholdAction converts a configured threshold into a displayable action
func thresholdAction(th models.EscalationThreshold) *moderation.Action {
	return &moderation.Action{Kind: th.Action, Duration: th.Duration}
}

// severityLabel renders a severity level in Spanish
func severityLabel(s models.Severity) string {
	switch s {
	case models.SeverityMinor:
		return "Leve"
	case models.SeverityModerate:
		return "Moderada"
	case models.SeveritySevere:
		return "Grave"
	default:
		return "Desconocida"
	}
}

// statusLabel renders a warning status in Spanish
func statusLabel(s models.WarningStatus) string {
	switch s {
	case models.WarningActive:
		return "🟠 Activa"
	case models.WarningExpired:
		return "⚪ Expirada"
	case models.WarningAppealed:
		return "🔵 En apelación"
	case models.WarningOverturned:
		return "🟢 Anulada"
	case models.WarningRedeemed:
		return "🟣 Redimida"
	default:
		return string(s)
	}
}
