package utils

import (
	"github.com/VigilStudios/VigilBotGo/pkg/discord"
	"github.com/VigilStudios/VigilBotGo/pkg/errors"
)

// createHelpCommand creates the /utils help subcommand
func createHelpCommand() *discord.Command {
	return discord.NewCommand(
		"help",
		"Muestra información de ayuda",
		"utils",
		helpHandler,
	)
}

// helpHandler handles the /utils help command
func helpHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()
		ctx.Reply(
			"📖 **Ayuda de VigilBot Go**\n\n" +
				"**Comandos disponibles:**\n" +
				"• `/utils ping` - Comprueba la latencia\n" +
				"• `/utils status` - Estado del bot\n" +
				"• `/utils stats` - Estadísticas del bot\n" +
				"• `/appeal <id> <razón>` - Apela una advertencia\n" +
				"• `/redeem <tarea> [prueba]` - Presenta una tarea de redención\n" +
				"• `/mod warn <usuario> <gravedad> <razón>` - Advierte a un usuario\n" +
				"• `/mod warns [usuario]` - Lista las advertencias\n" +
				"• `/mod removewarn <usuario> <id>` - Elimina una advertencia\n" +
				"• `/mod mute <usuario> <duración> [razón]` - Silencia a un usuario\n" +
				"• `/mod kick <usuario> [razón]` - Expulsa a un usuario\n" +
				"• `/mod ban <usuario> [razón]` - Banea a un usuario\n" +
				"• `/mod transfer <usuario> <servidor> <id>` - Importa una advertencia\n" +
				"• `/mod appeal <usuario> <id> <decisión>` - Resuelve una apelación\n" +
				"• `/mod redemption <id> <decisión>` - Revisa una redención\n" +
				"• `/modconfig view` - Configuración de moderación",
		)
	}()
	return nil
}
