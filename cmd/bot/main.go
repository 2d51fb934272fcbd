// Package main is the entry point for the VigilBot Go application.
// It initializes all systems and starts the Discord bot.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/VigilStudios/VigilBotGo/internal/commands"
	"github.com/VigilStudios/VigilBotGo/internal/events"
	"github.com/VigilStudios/VigilBotGo/pkg/config"
	"github.com/VigilStudios/VigilBotGo/pkg/database"
	"github.com/VigilStudios/VigilBotGo/pkg/discord"
	"github.com/VigilStudios/VigilBotGo/pkg/errors"
	"github.com/VigilStudios/VigilBotGo/pkg/logger"
	"github.com/VigilStudios/VigilBotGo/pkg/moderation"
	"github.com/VigilStudios/VigilBotGo/pkg/mqtt"
	"github.com/VigilStudios/VigilBotGo/pkg/web"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.Init(cfg.ErrorWebhook, cfg.LogsWebhook)
	defer log.Close()

	logger.System("Iniciando VigilBot Go...", "Main")
	logger.Info(fmt.Sprintf("Directorio de trabajo: %s", getCurrentDir()), "Main")

	// Initialize error handler
	var discordClient *discord.ExtendedClient
	errors.Init(cfg.ErrorWebhook, func() {
		if discordClient != nil {
			err := discordClient.Stop()
			if err != nil {
				return
			}
		}
	})

	// Initialize database
	db := database.Init()
	if err := db.Connect(cfg.MongoDBURL, cfg.DBName); err != nil {
		logger.Error(fmt.Sprintf("Error connecting to database: %v", err), "Main")
		// Continue without database- it will attempt to reconnect
	}
	defer func() {
		err := db.Disconnect()
		if err != nil {
			return
		}
	}()

	// Build the moderation stores
	infractions := database.NewInfractionsStore(db)
	submissions := database.NewSubmissionsStore(db)
	configs := database.NewConfigsStore(db)

	// Keep guild configs warm
	configs.StartAutoRefresh(5 * time.Minute)
	defer configs.StopAutoRefresh()

	// Initialize MQTT
	mqttClientID := "vigilbot"
	if !cfg.IsProd() {
		mqttClientID = "vigilbot_canary"
	}

	mqttClient := mqtt.Init(
		cfg.MQTTHost,
		cfg.MQTTPort,
		cfg.MQTTUser,
		cfg.MQTTPassword,
		mqttClientID,
	)
	defer mqttClient.Destroy()

	// Initialize moderation event feed (websocket + MQTT fan-out)
	feed := web.InitFeed()
	modlog := mqtt.NewModlogPublisher(mqttClient)

	// Build the moderation service
	modService := moderation.NewService(moderation.Deps{
		Infractions: infractions,
		Submissions: submissions,
		Configs:     configs,
		Notifier:    moderation.MultiNotifier(modlog, feed),
	})

	// Initialize web server
	webServer := web.Init(cfg.LogsWebServerHook)
	web.SetupAPIRoutes(webServer, modService)
	feed.SetupFeedRoutes(webServer)
	webServer.StartAsync(cfg.Port)

	// Initialize Discord client
	discordClient, err = discord.Init(cfg.BotToken)
	if err != nil {
		logger.Critical(fmt.Sprintf("Error creating Discord client: %v", err), "Main")
		os.Exit(1)
	}

	// The actuator applies and reverts the punishments the service decides
	actuator := discord.NewPunishmentActuator(discordClient.Session)

	// Register commands using the commands package
	commands.RegisterAll(discordClient, modService, actuator)

	// Register events using the events package
	events.RegisterAll(discordClient, modService)

	// Start the bot
	if err := discordClient.Start(); err != nil {
		logger.Critical(fmt.Sprintf("Error starting Discord client: %v", err), "Main")
		os.Exit(1)
	}
	defer func(discordClient *discord.ExtendedClient) {
		err := discordClient.Stop()
		if err != nil {

		}
	}(discordClient)

	// Start the expiry sweeper once everything is connected
	sweepCtx, cancelSweep := context.WithCancel(context.Background())
	sweeper := moderation.NewSweeper(modService, time.Hour)
	sweeper.Start(sweepCtx)
	defer func() {
		cancelSweep()
		sweeper.Stop()
	}()

	logger.Success("VigilBot Go iniciado correctamente!", "Main")

	// Wait for interrupt signal
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	logger.System("Apagando VigilBot Go...", "Main")
}

// getCurrentDir returns the current working directory
func getCurrentDir() string {
	dir, err := os.Getwd()
	if err != nil {
		return "unknown"
	}
	return dir
}
