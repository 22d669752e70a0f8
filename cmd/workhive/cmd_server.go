package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/workhive/workhive/internal/server"
)

// workhive serve starts the HTTP server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.Start()
	},
}

// workhive route:list prints all registered named routes.
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered named routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := bootDB()
		if err != nil {
			return err
		}

		app := server.Build(db)
		names := app.Router.Names()
		if len(names) == 0 {
			fmt.Println("No named routes registered.")
			return nil
		}
		for _, line := range names {
			fmt.Println(line)
		}
		return nil
	},
}
