package main

import (
	"demnow-backend/cmd/demnow/cmd"
)

func main() {
	cmd.Execute()
}
