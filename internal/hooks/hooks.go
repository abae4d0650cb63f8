// Package hooks runs the optional shell command configured to follow a
// successful configuration commit, e.g. to restart the photobooth service.
//
// The committed record reaches the command two ways: as {{attribute}}
// placeholders in the command line, and as BOOTHSETUP_* environment
// variables (enable_email becomes BOOTHSETUP_ENABLE_EMAIL).
package hooks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/touchselfie/boothsetup/internal/config"
	"github.com/touchselfie/boothsetup/internal/logger"
	"gopkg.in/yaml.v3"
)

// ConfigFileName is the name of the hooks file.
const ConfigFileName = ".boothsetup.hooks.yml"

// EnvPrefix starts every variable exported to a hook.
const EnvPrefix = "BOOTHSETUP_"

// LoadConfig loads the hooks file from dir.
// Returns nil if the file doesn't exist (hooks are optional).
func LoadConfig(dir string) (*File, error) {
	path := filepath.Join(dir, ConfigFileName)

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		logger.Debug("No hooks file at %s", path)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read hooks config: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse hooks config: %w", err)
	}

	logger.Debug("Loaded hooks from %s (version: %d)", path, f.Version)
	return &f, nil
}

// PostCommit returns the post_commit hook of f, or nil.
func (f *File) PostCommit() *Hook {
	if f == nil {
		return nil
	}
	return f.Hooks.PostCommit
}

// NewCommit describes cfg saved at location.
func NewCommit(location string, cfg *config.Configuration) Commit {
	c := Commit{Location: location}
	if cfg != nil {
		c.Record = cfg.Map()
	}
	return c
}

// EnvName returns the variable a record attribute is exported as.
func EnvName(attribute string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, attribute)
	return EnvPrefix + name
}

// formatValue renders a record value the way shells expect it.
func formatValue(v any) string {
	switch t := v.(type) {
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

// environment returns the variables exported to the hook, sorted by name.
// Record attributes win over the hook's own env entries.
func (c Commit) environment(extra map[string]string) []string {
	vars := maps.Clone(extra)
	if vars == nil {
		vars = make(map[string]string)
	}
	vars[EnvPrefix+"CONFIG"] = c.Location
	for key, v := range c.Record {
		vars[EnvName(key)] = formatValue(v)
	}

	env := make([]string, 0, len(vars))
	for _, name := range slices.Sorted(maps.Keys(vars)) {
		env = append(env, name+"="+vars[name])
	}
	return env
}

// expand replaces {{config}}, {{printer}} and {{<attribute>}} placeholders.
// Unknown placeholders are left as written.
func (c Commit) expand(command string) string {
	printer := ""
	if v, ok := c.Record[config.KeyPrinterName]; ok {
		printer = formatValue(v)
	}
	pairs := []string{"{{config}}", c.Location, "{{printer}}", printer}
	for _, key := range slices.Sorted(maps.Keys(c.Record)) {
		if key == "config" || key == "printer" {
			continue
		}
		pairs = append(pairs, "{{"+key+"}}", formatValue(c.Record[key]))
	}
	return strings.NewReplacer(pairs...).Replace(command)
}

// Execute runs hook for commit and returns its output.
// A failing or timed out command is reported in the output, not as an error;
// only context cancellation returns an error.
func Execute(ctx context.Context, hook *Hook, workDir string, commit Commit) (string, error) {
	if hook == nil || hook.Command == "" {
		return "", nil
	}

	command := commit.expand(hook.Command)
	logger.Debug("Executing hook command: %s", command)

	timeout := hook.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	shell := hook.Shell
	if shell == "" {
		shell = DefaultShell
	}

	execCtx, cancel := context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
	defer cancel()

	cmd := exec.CommandContext(execCtx, shell, "-c", command)
	cmd.Dir = workDir
	cmd.Env = append(os.Environ(), commit.environment(hook.Env)...)

	// stdout is the hook's report; stderr only matters when it has something
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	// Cancellation of the caller propagates, the hook's own deadline does not
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	withStderr := func(out string) string {
		if stderr.Len() > 0 {
			out += "\n[stderr]\n" + stderr.String()
		}
		return out
	}

	switch {
	case errors.Is(execCtx.Err(), context.DeadlineExceeded):
		logger.Warn("Hook timed out after %ds: %s", timeout, command)
		return fmt.Sprintf("[Hook timed out after %ds]\nPartial output:\n%s", timeout, stdout.String()), nil
	case err != nil:
		logger.Warn("Hook failed: %v", err)
		return fmt.Sprintf("[Hook command failed: %v]\n%s", err, withStderr(stdout.String())), nil
	}

	output := withStderr(stdout.String())
	logger.Debug("Hook finished, output length: %d bytes", len(output))
	return output, nil
}

// RunPostCommit loads the hooks file from dir and runs its post_commit hook,
// if any. Broken hook files are logged and skipped.
func RunPostCommit(ctx context.Context, dir string, commit Commit) (string, error) {
	f, err := LoadConfig(dir)
	if err != nil {
		logger.Warn("Skipping post-commit hook: %v", err)
		return "", nil
	}
	return Execute(ctx, f.PostCommit(), dir, commit)
}
