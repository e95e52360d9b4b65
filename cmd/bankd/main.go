package main

import "kodbank/cmd/bankd/commands"

func main() {
	commands.Execute()
}
