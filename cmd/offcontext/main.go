// Package main provides the offcontext CLI, a durable conversational memory
// layer for assistant sessions: it captures transcripts through runtime
// hooks, stores them per project, and injects relevant history back into new
// prompts.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/offcontext/offcontext/pkg/commands"
	"github.com/offcontext/offcontext/pkg/config"
	"github.com/offcontext/offcontext/pkg/logging"
)

const version = "0.1.0"

func main() {
	// Optional .env for development overrides; absence is normal.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	log, logErr := logging.NewLogger("cli")
	defer log.Close()

	name := os.Args[1]
	args := os.Args[2:]

	// Hook and inject paths tolerate running outside a project; explicit
	// commands check for one themselves.
	project, err := config.FindFromWorkingDir()
	if err != nil && !errors.Is(err, config.ErrNoProject) {
		log.Warnf("project discovery: %v", err)
	}
	if logErr != nil && !isHookCommand(name) {
		fmt.Fprintf(os.Stderr, "warning: file logging unavailable: %v\n", logErr)
	}

	if err := dispatch(name, args, project, log); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func dispatch(name string, args []string, project *config.Project, log *logging.Logger) error {
	w := os.Stdout

	switch name {
	case "setup":
		fs := flag.NewFlagSet("setup", flag.ExitOnError)
		force := fs.Bool("force", false, "Reinstall hooks and configuration even if present")
		parse(fs, args)
		return commands.Setup(log, w, *force)

	case "init":
		fs := flag.NewFlagSet("init", flag.ExitOnError)
		dir := fs.String("dir", ".", "Project directory to initialize")
		parse(fs, args)
		return commands.InitProject(log, w, *dir)

	case "status":
		return commands.Status(project, log, w)

	case "search":
		fs := flag.NewFlagSet("search", flag.ExitOnError)
		limit := fs.Int("limit", 0, "Maximum results (0 = configured default)")
		parse(fs, args)
		if fs.NArg() == 0 {
			return fmt.Errorf("usage: offcontext search [-limit N] <query>")
		}
		return commands.Search(project, log, w, strings.Join(fs.Args(), " "), *limit)

	case "import":
		fs := flag.NewFlagSet("import", flag.ExitOnError)
		path := fs.String("path", "", "Directory or file to import (default: runtime transcript directory)")
		parse(fs, args)
		_, err := commands.Import(project, log, w, *path)
		return err

	case "export":
		fs := flag.NewFlagSet("export", flag.ExitOnError)
		format := fs.String("format", "json", "Export format: json, md, or txt")
		output := fs.String("output", "", "Output file (default: conversations.<format>)")
		parse(fs, args)
		return commands.Export(project, log, w, *format, *output)

	case "reset":
		fs := flag.NewFlagSet("reset", flag.ExitOnError)
		yes := fs.Bool("yes", false, "Skip the confirmation prompt")
		parse(fs, args)
		return commands.Reset(project, log, w, os.Stdin, *yes)

	case "hook":
		if len(args) < 1 {
			return fmt.Errorf("usage: offcontext hook <transcript-path>")
		}
		commands.Hook(project, log, args[0])
		return nil

	case "inject":
		if len(args) < 1 {
			return fmt.Errorf("usage: offcontext inject <query>")
		}
		fmt.Fprint(w, commands.Inject(project, log, args[0]))
		return nil

	case "inject-prompt":
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil
		}
		fmt.Fprint(w, commands.InjectPrompt(project, log, string(raw)))
		return nil

	case "smart-inject":
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil
		}
		fmt.Fprint(w, commands.SmartInject(project, log, string(raw)))
		return nil

	case "clear":
		return commands.ClearHooks(project, w)

	case "uninstall":
		return commands.Uninstall(log, w)

	case "admin":
		fs := flag.NewFlagSet("admin", flag.ExitOnError)
		port := fs.Int("port", 8377, "Port to serve the admin interface on")
		parse(fs, args)
		return commands.Admin(project, log, w, *port)

	case "version":
		fmt.Fprintf(w, "offcontext v%s\n", version)
		return nil

	case "help", "-h", "-help", "--help":
		printUsage(w)
		return nil

	default:
		printUsage(os.Stderr)
		return fmt.Errorf("unknown command %q", name)
	}
}

func parse(fs *flag.FlagSet, args []string) {
	// ExitOnError makes this infallible.
	_ = fs.Parse(args)
}

// isHookCommand reports whether name is invoked by the runtime rather than a
// person. Those paths must stay quiet on stderr.
func isHookCommand(name string) bool {
	switch name {
	case "hook", "inject", "inject-prompt", "smart-inject":
		return true
	}
	return false
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, "offcontext - durable conversational memory for assistant sessions\n\n")
	fmt.Fprintf(w, "Usage: offcontext <command> [options]\n\n")
	fmt.Fprintf(w, "Commands:\n")
	fmt.Fprintf(w, "  setup          Install global hook scripts and configuration\n")
	fmt.Fprintf(w, "  init           Initialize memory for the current project\n")
	fmt.Fprintf(w, "  status         Show hook wiring and store health\n")
	fmt.Fprintf(w, "  search         Search stored conversations\n")
	fmt.Fprintf(w, "  import         Import existing transcript files\n")
	fmt.Fprintf(w, "  export         Export conversations (json, md, txt)\n")
	fmt.Fprintf(w, "  reset          Delete all stored conversations\n")
	fmt.Fprintf(w, "  admin          Serve the local web interface\n")
	fmt.Fprintf(w, "  clear          Remove the hooks block from project settings\n")
	fmt.Fprintf(w, "  uninstall      Remove global hooks and memory\n")
	fmt.Fprintf(w, "  hook           (runtime) Capture a finished transcript\n")
	fmt.Fprintf(w, "  inject         (runtime) Prepend context to a plain query\n")
	fmt.Fprintf(w, "  inject-prompt  (runtime) Prepend context to a prompt event on stdin\n")
	fmt.Fprintf(w, "  smart-inject   (runtime) Structured context for a JSON payload on stdin\n")
	fmt.Fprintf(w, "  version        Print the version\n")
}
