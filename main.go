package main

import (
	"fmt"
	"os"

	"spmadrid/collections-reports/cmd/agency"
	"spmadrid/collections-reports/cmd/bpiupdates"
	"spmadrid/collections-reports/cmd/clean"
	"spmadrid/collections-reports/cmd/curedlist"
	"spmadrid/collections-reports/cmd/endorse"
	"spmadrid/collections-reports/cmd/monitoring"
	"spmadrid/collections-reports/cmd/remarkfill"
	"spmadrid/collections-reports/cmd/root"
	"spmadrid/collections-reports/internal/config"
)

func init() {
	// The .env file may set COLLECT_LOG_LEVEL, so load it before the bootstrap logger is configured.
	config.LoadEnv()
	root.Log = config.ConfigureLogging()

	root.Init()

	root.Cmd.AddCommand(curedlist.Cmd)
	root.Cmd.AddCommand(bpiupdates.Cmd)
	root.Cmd.AddCommand(monitoring.Cmd)
	root.Cmd.AddCommand(endorse.Cmd)
	root.Cmd.AddCommand(agency.Cmd)
	root.Cmd.AddCommand(remarkfill.Cmd)
	root.Cmd.AddCommand(clean.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
