package main

import (
	"os"

	"launch-bot/bot"
)

// Unpins every announcement recorded in the pin-log, then clears it.
func main() {
	bot.Run(bot.PassUnpin, os.Args[1:])
}
