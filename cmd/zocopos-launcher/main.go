package main

import "github.com/remancodeking/zocopos-launcher/cmd/zocopos-launcher/cmd"

func main() {
	cmd.Execute()
}
