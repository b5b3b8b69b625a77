package main

import "github.com/robalobadob/wordle/apps/tile-board/internal/cli"

func main() {
	cli.Execute()
}
