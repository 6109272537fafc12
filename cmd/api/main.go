package main

import (
	"context"
	"os"

	"github.com/haikudo/backend/internal/cli"
)

// @title        Haikudo Backend API
// @version      1.0.0
// @description  CRUD API over users and posts backed by PostgreSQL.
// @BasePath     /
func main() {
	os.Exit(cli.Execute(context.Background(), os.Args[1:], os.Stderr))
}
