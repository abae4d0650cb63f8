package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	chroma "github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/colorprofile"
	"github.com/spf13/cobra"
	"github.com/touchselfie/boothsetup/internal/config"
	"github.com/touchselfie/boothsetup/internal/nats"
)

var showFlags struct {
	history bool
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current configuration",
	Long: `Print the saved configuration as YAML.

Output is syntax highlighted when the terminal supports colour. With the nats
backend, --history also lists the stored revisions of every attribute.`,
	RunE: runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showFlags.history, "history", false, "List stored revisions (nats backend only)")
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, location, closeStore, err := openStore(ctx, settings)
	if err != nil {
		return err
	}
	defer closeStore()

	cfg, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	out, err := config.Marshal(cfg)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	profile := colorprofile.Detect(os.Stdout, os.Environ())
	fmt.Fprintf(w, "# %s\n", location)
	fmt.Fprintln(w, highlightYAML(out, profile))

	if !showFlags.history {
		return nil
	}
	kv, ok := store.(*nats.KVStore)
	if !ok {
		return fmt.Errorf("--history requires --store %s", config.StoreNATS)
	}
	for _, key := range cfg.Keys() {
		revisions, err := kv.History(ctx, key)
		if err != nil {
			return err
		}
		printHistory(w, key, revisions)
	}
	return nil
}

func printHistory(w io.Writer, key string, revisions []nats.Revision) {
	fmt.Fprintf(w, "\n%s:\n", key)
	for _, r := range revisions {
		if r.Deleted {
			fmt.Fprintf(w, "  rev %d: (deleted)\n", r.Revision)
			continue
		}
		fmt.Fprintf(w, "  rev %d: %v\n", r.Revision, r.Value)
	}
}

// formatterFor picks the chroma formatter matching the terminal colour
// profile, or "" for plain output.
func formatterFor(profile colorprofile.Profile) string {
	switch profile {
	case colorprofile.TrueColor:
		return "terminal16m"
	case colorprofile.ANSI256:
		return "terminal256"
	case colorprofile.ANSI:
		return "terminal16"
	default:
		return ""
	}
}

// highlightYAML colours YAML source for the given profile. Unsupported
// profiles and highlighting errors return the source unchanged.
func highlightYAML(source string, profile colorprofile.Profile) string {
	source = strings.TrimRight(source, "\n")

	name := formatterFor(profile)
	if name == "" {
		return source
	}
	formatter := formatters.Get(name)

	lexer := lexers.Get("yaml")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("catppuccin-mocha")
	if style == nil {
		style = styles.Fallback
	}

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return source
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return source
	}
	return strings.TrimRight(buf.String(), "\n")
}
