package main

import "github.com/oceanmetrics/oceanmetrics/cmd"

func main() {
	cmd.Execute()
}
