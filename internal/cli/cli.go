// Package cli provides the command line interface.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/temirov/fnsh/internal/config"
	"github.com/temirov/fnsh/internal/platform"
	"github.com/temirov/fnsh/internal/shell"
	"github.com/temirov/fnsh/internal/utils"
)

const (
	prodFlagName    = "prod"
	cliFlagName     = "cli"
	configFlagName  = "config"
	versionFlagName = "version"
	globalFlagName  = "global"
	forceFlagName   = "force"

	versionTemplate      = "fnsh version: %s\n"
	rootUse              = "fnsh"
	rootShortDescription = "interactive shell for deployment functions"
	rootLongDescription  = `fnsh discovers the functions exposed by a deployment and opens an
interactive shell for browsing and invoking them. Public functions live under
the api binding, internal functions under the internal binding; both support
tab-completion. Remote execution is delegated to the platform CLI.`
	rootUsageExample = `  # Open a shell against the dev deployment
  fnsh

  # Open a shell against production with a custom platform CLI binary
  fnsh --prod --cli ./node_modules/.bin/convex`

	configUse                   = "config"
	configShortDescription      = "manage fnsh configuration"
	configInitUse               = "init"
	configInitShortDescription  = "write a default configuration file"
	configInitWrittenFormat     = "Wrote configuration to %s\n"
	prodFlagDescription         = "target the production deployment"
	cliFlagDescription          = "platform CLI binary to invoke"
	configFlagDescription       = "explicit configuration file path"
	versionFlagDescription      = "display application version"
	globalFlagDescription       = "write the global configuration instead of the local one"
	forceFlagDescription        = "overwrite an existing configuration file"
	initialFetchFailedFormat    = "initial function spec fetch: %w"
	loadConfigurationFormat     = "loading configuration: %w"
)

// Execute runs the fnsh application.
func Execute() error {
	rootCommand := createRootCommand()
	return rootCommand.Execute()
}

// createRootCommand builds the root Cobra command.
func createRootCommand() *cobra.Command {
	var showVersion bool
	var productionSelected bool
	var cliBinaryName string
	var configurationPath string

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		Example:      rootUsageExample,
		SilenceUsage: true,
		Args:         cobra.ArbitraryArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			return runShell(command, productionSelected, cliBinaryName, configurationPath)
		},
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if showVersion {
				fmt.Printf(versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
		},
	}
	rootCommand.PersistentFlags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.Flags().BoolVar(&productionSelected, prodFlagName, false, prodFlagDescription)
	rootCommand.Flags().StringVar(&cliBinaryName, cliFlagName, "", cliFlagDescription)
	rootCommand.Flags().StringVar(&configurationPath, configFlagName, "", configFlagDescription)
	rootCommand.AddCommand(createConfigCommand())
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// runShell resolves configuration, performs the initial spec fetch, and
// hands control to the interactive loop.
func runShell(command *cobra.Command, productionSelected bool, cliBinaryName string, configurationPath string) error {
	applicationConfiguration, configurationError := config.LoadApplicationConfiguration(config.LoadOptions{
		ExplicitFilePath: configurationPath,
	})
	if configurationError != nil {
		return fmt.Errorf(loadConfigurationFormat, configurationError)
	}

	resolvedBinaryName := cliBinaryName
	if resolvedBinaryName == "" {
		resolvedBinaryName = applicationConfiguration.CLI
	}
	resolvedProduction := productionSelected
	if !command.Flags().Changed(prodFlagName) && applicationConfiguration.Prod != nil {
		resolvedProduction = *applicationConfiguration.Prod
	}

	client := platform.NewClient(resolvedBinaryName, resolvedProduction, nil)
	session := shell.NewSession(client)

	executionContext := context.Background()
	updateSummary, updateError := session.Update(executionContext)
	if updateError != nil {
		return fmt.Errorf(initialFetchFailedFormat, updateError)
	}
	fmt.Println(updateSummary)

	return shell.Run(executionContext, session)
}

// createConfigCommand returns the config subcommand with its init action.
func createConfigCommand() *cobra.Command {
	configCommand := &cobra.Command{
		Use:   configUse,
		Short: configShortDescription,
	}

	var writeGlobal bool
	var forceOverwrite bool
	initCommand := &cobra.Command{
		Use:   configInitUse,
		Short: configInitShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if writeGlobal {
				target = config.InitTargetGlobal
			}
			writtenPath, initializeError := config.InitializeConfiguration(config.InitOptions{
				Target: target,
				Force:  forceOverwrite,
			})
			if initializeError != nil {
				return initializeError
			}
			fmt.Printf(configInitWrittenFormat, writtenPath)
			return nil
		},
	}
	initCommand.Flags().BoolVar(&writeGlobal, globalFlagName, false, globalFlagDescription)
	initCommand.Flags().BoolVar(&forceOverwrite, forceFlagName, false, forceFlagDescription)
	configCommand.AddCommand(initCommand)
	return configCommand
}
