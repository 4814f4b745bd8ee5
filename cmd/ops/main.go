package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"stairwell/internal/config"
	"stairwell/internal/ops"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "backup":
		err = cmdBackup(os.Args[2:])
	case "restore":
		err = cmdRestore(os.Args[2:])
	case "inspect":
		err = cmdInspect(os.Args[2:])
	case "config":
		err = cmdConfig(os.Args[2:])
	default:
		printUsage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s failed: %v\n", os.Args[1], err)
		os.Exit(1)
	}
}

func cmdBackup(args []string) error {
	fs := flag.NewFlagSet("backup", flag.ContinueOnError)
	dataDir := fs.String("data-dir", "data", "directory holding save files")
	out := fs.String("out", "", "output archive path (.tar.gz)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	now := time.Now().UTC()
	if *out == "" {
		*out = filepath.Join("backups", "stairwell-"+now.Format("20060102T150405Z")+".tar.gz")
	}
	m, err := ops.BackupSaves(*dataDir, *out, now)
	if err != nil {
		return err
	}
	fmt.Printf("%s (%d saves, id %s)\n", *out, len(m.Files), m.BackupID)
	return nil
}

func cmdRestore(args []string) error {
	fs := flag.NewFlagSet("restore", flag.ContinueOnError)
	archive := fs.String("archive", "", "input backup archive (.tar.gz)")
	target := fs.String("target-dir", "data-restored", "restore target directory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *archive == "" {
		return fmt.Errorf("archive is required")
	}
	m, err := ops.RestoreSaves(*archive, *target)
	if err != nil {
		return err
	}
	fmt.Printf("restored %d saves from backup %s (%s)\n", len(m.Files), m.BackupID, m.CreatedAt.Format(time.RFC3339))
	return nil
}

func cmdInspect(args []string) error {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	path := fs.String("save", filepath.Join("data", "save.json"), "save file to summarize")
	if err := fs.Parse(args); err != nil {
		return err
	}
	sum, err := ops.Inspect(*path)
	if err != nil {
		return err
	}
	sum.Print(os.Stdout)
	return nil
}

func cmdConfig(args []string) error {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	path := fs.String("config", "", "YAML config file; empty prints the defaults")
	preset := fs.String("preset", "", "named balance preset")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var cfg *config.Config
	switch {
	case *preset != "":
		p := config.Preset(*preset)
		cfg = &p
	default:
		loaded, err := config.LoadOrDefault(*path)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	merged := config.FromEnv(*cfg)
	if err := merged.Validate(); err != nil {
		return err
	}
	b, err := config.Marshal(&merged)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(b)
	return err
}

func printUsage() {
	fmt.Println("usage:")
	fmt.Println("  stairwell-ops backup  --data-dir data --out backups/backup.tar.gz")
	fmt.Println("  stairwell-ops restore --archive backups/backup.tar.gz --target-dir data-restored")
	fmt.Println("  stairwell-ops inspect --save data/save.json")
	fmt.Println("  stairwell-ops config  [--config stairwell.yaml] [--preset hard]")
}
