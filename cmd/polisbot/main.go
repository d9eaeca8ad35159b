package main

import "github.com/avelardi/polisbot/internal/adapters/cli"

func main() {
	cli.Execute()
}
