package bot

import (
	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
)

var commands = []tgbotapi.BotCommand{
	{Command: "stats", Description: "Show RSVP totals"},
	{Command: "recent", Description: "Show latest activity"},
	{Command: "help", Description: "Show available commands"},
}

// setCommands publishes the menu only to configured chats.
func (t *TgBot) setCommands() {
	for _, chatId := range t.chatIds {
		_, err := t.api.SetMyCommands(commands, &tgbotapi.SetMyCommandsOpts{
			Scope: tgbotapi.BotCommandScopeChat{ChatId: chatId},
		})
		if err != nil {
			t.log.Warn("setting chat commands", "chat_id", chatId, "error", err)
		}
	}
}
