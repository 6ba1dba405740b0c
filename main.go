package main

import "github.com/glbter/fund-advisor/cmd"

func main() {
	cmd.Execute()
}
