package main

import "github.com/KaramelBytes/datasum-cli/cmd"

func main() {
	cmd.Execute()
}
