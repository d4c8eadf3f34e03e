package main

import "github.com/eltrufas/osuparse/internal/cli"

func main() {
	cli.Execute()
}
