package main

import "github.com/gildedpress/luxwire/cmd"

func main() {
	cmd.Execute()
}
