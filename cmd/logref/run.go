package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"logref/internal/config"
	"logref/internal/driver"
	"logref/internal/logging"
	"logref/internal/project"
	"logref/internal/report"
)

type runOptions struct {
	configPath string
	mode       driver.Mode
	jobs       int
	format     string
	ui         uiMode
	color      bool
	timings    bool
}

func readRunOptions(cmd *cobra.Command) (runOptions, error) {
	var opts runOptions
	var err error
	if opts.configPath, err = cmd.Flags().GetString("config"); err != nil {
		return opts, err
	}
	check, err := cmd.Flags().GetBool("check")
	if err != nil {
		return opts, err
	}
	if check {
		opts.mode = driver.ModeCheck
	}
	if opts.jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
		return opts, err
	}
	if opts.jobs < 0 {
		return opts, fmt.Errorf("invalid --jobs value %d", opts.jobs)
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return opts, err
	}
	opts.format = strings.ToLower(strings.TrimSpace(format))
	switch opts.format {
	case "pretty", "json", "short":
	default:
		return opts, fmt.Errorf("unsupported format %q (must be pretty, json or short)", format)
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return opts, err
	}
	if opts.ui, err = readUIMode(uiFlag); err != nil {
		return opts, err
	}
	if opts.color, err = useColor(cmd); err != nil {
		return opts, err
	}
	if opts.timings, err = cmd.Flags().GetBool("timings"); err != nil {
		return opts, err
	}
	return opts, nil
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		if path, err = config.Find(wd); err != nil {
			if errors.Is(err, config.ErrNoConfig) {
				return nil, fmt.Errorf("%w (run `logref init` to create one)", err)
			}
			return nil, err
		}
	}
	return config.Load(path)
}

func runRoot(cmd *cobra.Command, args []string) error {
	opts, err := readRunOptions(cmd)
	if err != nil {
		return setupError(err)
	}
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return setupError(err)
	}
	log := logging.New("cli")
	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return setupError(err)
	}
	defer func() {
		if perr := stopProfiling(); perr != nil {
			log.Error("failed to write profiles", logging.FieldError, perr)
		}
	}()
	log.Debug("configuration loaded", logging.FieldPath, cfg.Path, logging.FieldMode, opts.mode)

	dopts := driver.Options{
		Config:   cfg,
		Mode:     opts.mode,
		Jobs:     opts.jobs,
		LockPath: project.LockPath(cfg.Path),
	}

	ctx := cmd.Context()
	var res *driver.Result
	if opts.format == "pretty" && shouldUseTUI(opts.ui) {
		res, err = runWithUI(ctx, "logref "+opts.mode.String(), dopts)
	} else {
		res, err = driver.Run(ctx, dopts)
	}
	if err != nil {
		if res == nil {
			return setupError(err)
		}
		// отмена: печатаем то, что успели
		log.Warn("run interrupted", logging.FieldError, err)
	}

	ropts := report.Options{
		Color:     opts.color,
		ShowNotes: true,
		Context:   opts.format == "pretty",
		Timings:   opts.timings,
	}
	out := cmd.OutOrStdout()
	var rerr error
	switch opts.format {
	case "json":
		rerr = report.JSON(out, res, ropts)
	case "short":
		rerr = report.Short(out, res, ropts)
	default:
		rerr = report.Pretty(out, res, ropts)
	}
	if rerr != nil {
		return setupError(rerr)
	}

	if err != nil {
		return failureError(err)
	}
	if rerr := res.Err(); rerr != nil {
		return failureError(rerr)
	}
	return nil
}
