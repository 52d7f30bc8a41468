// Command council-console is the terminal admin console and student portal for the
// council API.
//
//	council-console login --email admin@council.local
//	council-console courses list --page 2 --type DIPLOMA --expand
//	council-console subjects create --name Physics --code PHY101 --type NON_LANGUAGE --course <id>
//	council-console student login --application-number APP-2024-001 --dob 2004-03-09
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/noah-isme/council-console/pkg/config"
	"github.com/noah-isme/council-console/pkg/logger"
)

type command struct {
	usage string
	run   func(ctx context.Context, a *app, args []string) error
}

var commands = map[string]command{
	"login":  {"login --email EMAIL [--password PASSWORD]", adminLogin},
	"logout": {"logout", logout},
	"whoami": {"whoami", whoami},

	"student login":     {"student login --application-number NO --dob YYYY-MM-DD", studentLogin},
	"student dashboard": {"student dashboard", studentDashboard},
	"student logout":    {"student logout", studentLogout},

	"courses list":   {"courses list [--page N] [--name TEXT] [--type TYPE] [--expand]", coursesList},
	"courses create": {"courses create --name NAME --fees N [--type TYPE] [--duration N] [--duration-unit MONTH|YEAR]", coursesCreate},
	"courses update": {"courses update --id ID [--name NAME] [--fees N] [--type TYPE] [--duration N] [--duration-unit U]", coursesUpdate},
	"courses delete": {"courses delete --id ID [--yes]", coursesDelete},
	"courses export": {"courses export [--format csv|pdf] [--page N] [--name TEXT] [--type TYPE] [--out FILE]", coursesExport},

	"subjects list":   {"subjects list [--page N] [--name TEXT] [--code CODE] [--type TYPE] [--course ID] [--course-type TYPE]", subjectsList},
	"subjects create": {"subjects create --name NAME --code CODE --type TYPE [--course ID] [--course-type TYPE]", subjectsCreate},
	"subjects update": {"subjects update --id ID [--name NAME] [--code CODE] [--type TYPE] [--course ID]", subjectsUpdate},
	"subjects delete": {"subjects delete --id ID [--yes]", subjectsDelete},

	"enquiry submit": {"enquiry submit --name NAME --email EMAIL --phone PHONE [--title TITLE] --description TEXT", enquirySubmit},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg, "council-console")
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	code := run(ctx, cfg, logr, os.Args[1:], streams{in: os.Stdin, out: os.Stdout, errOut: os.Stderr})
	stop()
	logr.Sync() //nolint:errcheck
	os.Exit(code)
}

// lookup resolves the longest command name at the start of args.
func lookup(args []string) (command, []string, bool) {
	if len(args) >= 2 {
		if cmd, ok := commands[args[0]+" "+args[1]]; ok {
			return cmd, args[2:], true
		}
	}
	if len(args) >= 1 {
		if cmd, ok := commands[args[0]]; ok {
			return cmd, args[1:], true
		}
	}
	return command{}, nil, false
}

func usage(w io.Writer) {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(w, "usage: council-console <command> [flags]")
	fmt.Fprintln(w)
	for _, name := range names {
		fmt.Fprintf(w, "  %s\n", commands[name].usage)
	}
}

func wantsHelp(args []string) bool {
	if len(args) == 0 {
		return true
	}
	switch strings.TrimLeft(args[0], "-") {
	case "h", "help":
		return true
	}
	return false
}
