package main

import "github.com/Digital-Shane/rom-tidy/internal/cmd"

func main() {
	cmd.Execute()
}
