package main

import "github.com/Alijeyrad/founders_backend/cmd"

func main() {
	cmd.Execute()
}
