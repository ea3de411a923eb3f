package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/temirov/fnsh/internal/utils"
)

// InitTarget identifies where configuration should be initialized.
type InitTarget string

const (
	// InitTargetLocal writes configuration into the working directory.
	InitTargetLocal InitTarget = "local"
	// InitTargetGlobal writes configuration into the global configuration directory.
	InitTargetGlobal InitTarget = "global"

	defaultConfigurationTemplate = `# Platform CLI binary invoked for function-spec and run subcommands.
cli: convex
# Target the production deployment by default.
prod: false
`
)

// InitOptions controls how configuration initialization behaves.
type InitOptions struct {
	Target           InitTarget
	Force            bool
	WorkingDirectory string
}

// InitializeConfiguration writes the default configuration to the requested
// target and returns the written path.
func InitializeConfiguration(options InitOptions) (string, error) {
	target := options.Target
	if target == "" {
		target = InitTargetLocal
	}
	var destinationPath string
	switch target {
	case InitTargetLocal:
		workingDirectory := options.WorkingDirectory
		if workingDirectory == "" {
			current, err := os.Getwd()
			if err != nil {
				return "", fmt.Errorf("determine working directory for configuration: %w", err)
			}
			workingDirectory = current
		}
		destinationPath = filepath.Join(workingDirectory, utils.ConfigFileName)
	case InitTargetGlobal:
		homeDirectory, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory for configuration: %w", err)
		}
		configurationDirectory := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName)
		if mkdirErr := os.MkdirAll(configurationDirectory, 0o755); mkdirErr != nil {
			return "", fmt.Errorf("create configuration directory %s: %w", configurationDirectory, mkdirErr)
		}
		destinationPath = filepath.Join(configurationDirectory, utils.ConfigFileName)
	default:
		return "", fmt.Errorf("unknown configuration target %q", target)
	}

	if !options.Force {
		if _, statErr := os.Stat(destinationPath); statErr == nil {
			return "", fmt.Errorf("configuration %s already exists (use --force to overwrite)", destinationPath)
		}
	}
	if writeErr := os.WriteFile(destinationPath, []byte(defaultConfigurationTemplate), 0o644); writeErr != nil {
		return "", fmt.Errorf("write configuration %s: %w", destinationPath, writeErr)
	}
	return destinationPath, nil
}
