package main

import "github.com/remancodeking/zocopos-launcher/cmd/zocopos-packager/cmd"

func main() {
	cmd.Execute()
}
