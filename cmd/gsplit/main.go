package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/hashicorp/go-hclog"

	"github.com/johns/gsplit/internal/check"
	"github.com/johns/gsplit/internal/config"
	"github.com/johns/gsplit/internal/help"
	"github.com/johns/gsplit/internal/history"
	"github.com/johns/gsplit/internal/job"
	"github.com/johns/gsplit/internal/output"
	"github.com/johns/gsplit/internal/segment"
	"github.com/johns/gsplit/internal/stats"
	"github.com/johns/gsplit/internal/watch"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fatal("load config: %v", err)
	}

	switch os.Args[1] {
	case "split":
		runSplit(os.Args[2:], cfg)

	case "info":
		runInfo(os.Args[2:])

	case "watch":
		runWatch(os.Args[2:], cfg)

	case "history":
		runHistory(os.Args[2:], cfg)

	case "check":
		report := check.Run(cfg)
		fmt.Print(report.Format())
		if report.HasFailures() {
			os.Exit(1)
		}

	case "version":
		fmt.Printf("gsplit v%s\n", help.Version)

	case "help", "--help", "-h":
		if len(os.Args) > 2 {
			if c, ok := help.Lookup(os.Args[2]); ok {
				fmt.Print(help.FormatTerminal(c))
				return
			}
			fatal("unknown command: %s", os.Args[2])
		}
		usage()

	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		usage()
		os.Exit(1)
	}
}

func runSplit(args []string, cfg config.Config) {
	if wantsHelp(args) {
		fmt.Print(help.FormatTerminal(help.CmdSplit))
		return
	}

	var path string
	splitAt := -1
	keepSkirt := false

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-s", "--split-at":
			if i+1 >= len(args) {
				fatal("%s requires a value", args[i])
			}
			i++
			n, err := strconv.Atoi(args[i])
			if err != nil {
				fatal("invalid split layer %q", args[i])
			}
			splitAt = n
		case "--keep-skirt":
			keepSkirt = true
		default:
			if path != "" {
				fatal("unexpected argument: %s", args[i])
			}
			path = args[i]
		}
	}

	if path == "" {
		fatal("usage: %s", help.CmdSplit.Usage)
	}
	if splitAt < 0 {
		fatal("-s/--split-at is required and must be >= 0")
	}

	res, err := job.Run(path, splitAt, keepSkirt, cfg)
	if err != nil {
		fatal("split: %v", err)
	}

	fmt.Printf("created: %s (layers %s)\n", res.FirstPath, job.RangeString(res.FirstRange))
	fmt.Printf("created: %s (layers %s)\n", res.SecondPath, job.RangeString(res.SecondRange))
	if !res.SecondRange.Valid {
		fmt.Println("note: no layers above the split point; second file holds only shared sequences")
	}
}

func runInfo(args []string) {
	if wantsHelp(args) || len(args) != 1 {
		fmt.Print(help.FormatTerminal(help.CmdInfo))
		if len(args) != 1 && !wantsHelp(args) {
			os.Exit(1)
		}
		return
	}

	text, err := output.ReadFile(args[0])
	if err != nil {
		fatal("info: %v", err)
	}
	segments, err := segment.Parse(segment.SplitLines(text))
	if err != nil {
		fatal("info: parse gcode: %v", err)
	}

	fmt.Print(stats.Format(stats.Compute(segments), args[0]))
}

func runWatch(args []string, cfg config.Config) {
	if wantsHelp(args) || len(args) != 1 {
		fmt.Print(help.FormatTerminal(help.CmdWatch))
		if len(args) != 1 && !wantsHelp(args) {
			os.Exit(1)
		}
		return
	}

	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "gsplit",
		Level: hclog.LevelFromString(cfg.Log.Level),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w := watch.New(args[0], cfg, logger)
	if err := w.Run(ctx); err != nil && err != context.Canceled {
		fatal("watch: %v", err)
	}
}

func runHistory(args []string, cfg config.Config) {
	if wantsHelp(args) {
		fmt.Print(help.FormatTerminal(help.CmdHistory))
		return
	}

	limit := 10
	for i := 0; i < len(args); i++ {
		if args[i] == "-n" && i+1 < len(args) {
			i++
			n, err := strconv.Atoi(args[i])
			if err != nil || n < 1 {
				fatal("invalid count %q", args[i])
			}
			limit = n
		}
	}

	if !cfg.History.Enabled {
		fatal("history is disabled in the config")
	}

	db, err := history.Open(cfg.StateDir())
	if err != nil {
		fatal("history: %v", err)
	}
	defer db.Close()

	entries, err := db.Recent(limit)
	if err != nil {
		fatal("history: %v", err)
	}
	fmt.Print(history.Format(entries))
}

func wantsHelp(args []string) bool {
	for _, a := range args {
		if a == "--help" || a == "-h" {
			return true
		}
	}
	return false
}

func usage() {
	fmt.Fprint(os.Stderr, help.FormatUsage(help.TopLevel, help.All))
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "gsplit: "+format+"\n", args...)
	os.Exit(1)
}
