package main

import "github.com/malm0d/contract-interfacer/cmd"

func main() {
	cmd.Execute()
}
