package mod

import (
	"testing"
	"time"

	"github.com/VigilStudios/VigilBotGo/pkg/models"
	"github.com/VigilStudios/VigilBotGo/pkg/moderation"
)

func TestParseThresholds(t *testing.T) {
	ths, err := parseThresholds("3:mute:1h,5:mute:24h,7:kick,10:ban")
	if err != nil {
		t.Fatalf("parseThresholds() returned error: %v", err)
	}
	if len(ths) != 4 {
		t.Fatalf("thresholds = %d, want 4", len(ths))
	}
	if ths[0].Points != 3 || ths[0].Action != models.ActionMute || ths[0].Duration != time.Hour {
		t.Errorf("first threshold = %+v, want 3:mute:1h", ths[0])
	}
	if ths[2].Points != 7 || ths[2].Action != models.ActionKick || ths[2].Duration != 0 {
		t.Errorf("third threshold = %+v, want 7:kick", ths[2])
	}
	if ths[3].Action != models.ActionBan {
		t.Errorf("fourth action = %v, want ban", ths[3].Action)
	}
}

func TestParseThresholdsBadInput(t *testing.T) {
	cases := []string{
		"3",
		"tres:mute:1h",
		"3:warn",
		"3:mute:pronto",
	}
	for _, raw := range cases {
		if _, err := parseThresholds(raw); err == nil {
			t.Errorf("parseThresholds(%q) should fail", raw)
		}
	}
}

func TestFormatDur(t *testing.T) {
	tests := []struct {
		dur  time.Duration
		want string
	}{
		{0, "0 segundos"},
		{90 * time.Second, "1 minutos, 30 segundos"},
		{25 * time.Hour, "1 días, 1 horas"},
	}
	for _, tt := range tests {
		if got := formatDur(tt.dur); got != tt.want {
			t.Errorf("formatDur(%v) = %q, want %q", tt.dur, got, tt.want)
		}
	}
}

func TestActionLabel(t *testing.T) {
	if got := actionLabel(nil); got != "Ninguna" {
		t.Errorf("actionLabel(nil) = %q, want %q", got, "Ninguna")
	}

	mute := &moderation.Action{Kind: models.ActionMute, Duration: time.Hour}
	if got := actionLabel(mute); got != "🔇 Silencio por 1 horas" {
		t.Errorf("actionLabel(mute) = %q", got)
	}

	ban := &moderation.Action{Kind: models.ActionBan}
	if got := actionLabel(ban); got != "🔨 Baneo" {
		t.Errorf("actionLabel(ban) = %q", got)
	}
}

func TestSeverityAndStatusLabels(t *testing.T) {
	if got := severityLabel(models.SeveritySevere); got != "Grave" {
		t.Errorf("severityLabel(severe) = %q, want %q", got, "Grave")
	}
	if got := statusLabel(models.WarningOverturned); got != "🟢 Anulada" {
		t.Errorf("statusLabel(overturned) = %q, want %q", got, "🟢 Anulada")
	}
}
