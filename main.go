package main

import "github.com/theopenlane/echoaudit/cmd"

func main() {
	cmd.Execute()
}
