package main

import "github.com/marciozomb13/FBEventSync/internal/adapters/driving/cli"

func main() {
	cli.Execute()
}
