package main

import "github.com/remancodeking/zocopos-launcher/cmd/zocopos-builder/cmd"

func main() {
	cmd.Execute()
}
