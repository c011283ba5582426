package main

import "github.com/pfrederiksen/crossfit-timetable/internal/cli"

func main() {
	cli.Execute()
}
