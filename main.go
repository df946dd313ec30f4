package main

import "github.com/taskboard/taskboard/cmd"

func main() {
	cmd.Execute()
}
