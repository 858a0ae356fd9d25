package main

import (
	"os"

	"github.com/davidhbaek/termchat/internal/chat"
)

func main() {
	os.Exit(chat.CLI(os.Args[1:]))
}
