package main

import (
	"os"

	"github.com/avatarctic/realestate-crm/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
