// cmd/main.go
package main

import (
	"os"

	"go_5_course_hub/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
