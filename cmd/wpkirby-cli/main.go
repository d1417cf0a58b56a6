package main

import "wpkirby/cmd/wpkirby-cli/cmd"

func main() {
	cmd.Execute()
}
