package main

import "github.com/askwhyharsh/silverlink/cmd/silverlink/command"

func main() {
	command.Execute()
}
