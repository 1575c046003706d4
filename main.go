package main

import (
	_ "github.com/joho/godotenv/autoload"

	"github.com/twiced-technology-gmbh/taskflow/cmd"
)

func main() {
	cmd.Execute()
}
