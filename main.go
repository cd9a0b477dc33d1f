package main

import (
	"os"

	"launch-bot/bot"
)

// Fetches the next 24 hours of launches and posts the announcement.
// The unpin pass lives in cmd/unpin.
func main() {
	bot.Run(bot.PassPost, os.Args[1:])
}
