package main

import "mediahub/cmd/report-client/command"

func main() {
	command.Execute()
}
