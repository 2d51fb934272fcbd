package mqtt

import (
	"fmt"

	"github.com/VigilStudios/VigilBotGo/pkg/logger"
	"github.com/VigilStudios/VigilBotGo/pkg/moderation"
)

// ModlogPublisher forwards committed moderation events to the broker under
// vigil/modlog/<guildId>/<type>. External dashboards subscribe with
// vigil/modlog/# or a per-guild filter.
type ModlogPublisher struct {
	mc *MqttCommunicator
}

var _ moderation.Notifier = (*ModlogPublisher)(nil)

// NewModlogPublisher wraps a communicator as a moderation event sink
func NewModlogPublisher(mc *MqttCommunicator) *ModlogPublisher {
	return &ModlogPublisher{mc: mc}
}

// Notify publishes the event without blocking the caller. Delivery runs on
// its own goroutine; a disconnected broker only costs a log line.
func (p *ModlogPublisher) Notify(ev moderation.Event) {
	if p.mc == nil || !p.mc.IsConnected() {
		return
	}
	go func() {
		topic := fmt.Sprintf("vigil/modlog/%s/%s", ev.GuildID, ev.Type)
		if err := p.mc.Publish(topic, ev); err != nil {
			logger.Error(fmt.Sprintf("Error publicando evento de moderación: %v", err), "MQTT")
		}
	}()
}
