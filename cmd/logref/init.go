package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"logref/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Write a starter logref.yaml",
	Long: `Write a starter configuration (logref.yaml) into [dir], or into the
current directory when [dir] is omitted. Existing configuration files are
never overwritten.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := "."
		if len(args) == 1 {
			target = args[0]
		}
		path, err := writeStarter(target)
		if err != nil {
			return setupError(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
		return nil
	},
}

// writeStarter creates dir/logref.yaml. It refuses when any recognised
// configuration file already exists in dir.
func writeStarter(dir string) (string, error) {
	st, err := os.Stat(dir)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		if err = os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create directory %q: %w", dir, err)
		}
	} else if !st.IsDir() {
		return "", fmt.Errorf("%q is not a directory", dir)
	}

	for _, name := range config.FileNames {
		existing := filepath.Join(dir, name)
		if _, err := os.Stat(existing); err == nil {
			return "", fmt.Errorf("already initialized: %s exists", existing)
		}
	}

	path := filepath.Join(dir, config.FileNames[0])
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to write config: %w", err)
	}
	if _, err = f.WriteString(config.Starter); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write config: %w", err)
	}
	return path, f.Close()
}
