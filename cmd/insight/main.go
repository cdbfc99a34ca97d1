package main

import "github.com/riskibarqy/dota-match-insight/internal/cli"

func main() {
	cli.Execute()
}
