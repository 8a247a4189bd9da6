package main

import "github.com/pardeema/trivia-music/cmd"

func main() {
	cmd.Execute()
}
