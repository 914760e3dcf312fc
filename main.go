package main

import "github.com/Digital-Shane/kinopoisk-meta/internal/cmd"

func main() {
	cmd.Execute()
}
