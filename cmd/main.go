/*
Copyright 2024 giv2giv Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/giv2giv/giv2giv"
	"github.com/giv2giv/giv2giv/config"
	"github.com/giv2giv/giv2giv/database"
	"github.com/giv2giv/giv2giv/internal/notification"
)

// Giv2GivCLI encapsulates the root Cobra command.
type Giv2GivCLI struct {
	cmd *cobra.Command
}

// giv2givInstance holds the service instance and its configuration, shared by
// every subcommand through the persistent pre-run hook.
type giv2givInstance struct {
	service *giv2giv.Giv2Giv
	cnf     *config.Configuration
}

func recoverPanic() {
	if rec := recover(); rec != nil {
		logrus.Error(rec)
		os.Exit(1)
	}
}

// preRun loads configuration and initializes the service before any
// subcommand executes.
func preRun(app *giv2givInstance) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := config.InitConfig("giv2giv.json")
		if err != nil {
			log.Fatal("error loading config", err)
		}

		cnf, err := config.Fetch()
		if err != nil {
			return err
		}

		service, err := setupGiv2Giv(cnf)
		if err != nil {
			notification.NotifyError(err)
			log.Fatal(err)
		}

		app.service = service
		app.cnf = cnf

		return nil
	}
}

// setupGiv2Giv connects the datasource and builds the grant service.
func setupGiv2Giv(cfg *config.Configuration) (*giv2giv.Giv2Giv, error) {
	db, err := database.NewDataSource(cfg)
	if err != nil {
		return nil, fmt.Errorf("error getting datasource: %v", err)
	}

	service, err := giv2giv.NewGiv2Giv(db)
	if err != nil {
		return nil, fmt.Errorf("error creating giv2giv: %v", err)
	}
	return service, nil
}

// NewCLI builds the command tree: workers, migrate, allocate and config.
func NewCLI() *Giv2GivCLI {
	var configFile string
	g := &giv2givInstance{}

	var rootCmd = &cobra.Command{
		Use:   "giv2giv",
		Short: "Charity grant allocation and settlement",
		Run:   func(cmd *cobra.Command, args []string) {},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./giv2giv.json", "Configuration file for giv2giv")

	rootCmd.PersistentPreRunE = preRun(g)

	rootCmd.AddCommand(workerCommands(g))
	rootCmd.AddCommand(migrateCommands(g))
	rootCmd.AddCommand(allocateCommands(g))
	rootCmd.AddCommand(configCommands())

	return &Giv2GivCLI{cmd: rootCmd}
}

func (w Giv2GivCLI) executeCLI() {
	if err := w.cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	defer recoverPanic()

	cli := NewCLI()
	cli.executeCLI()
}
