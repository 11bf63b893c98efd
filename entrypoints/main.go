package main

import (
	"github.com/Laisky/attachment-service/cmd"
)

func main() {
	cmd.Execute()
}
