package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jward/uecomplete"
)

var (
	flagLine   int
	flagColumn int
)

var completeCmd = &cobra.Command{
	Use:   "complete [file|-]",
	Short: "List completions at a cursor position",
	Long:  "Reads C++ source from a file or stdin and prints the members available at --line/--column. Line and column are 0-based; the column is the offset just past the trigger character.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runComplete,
}

var membersCmd = &cobra.Command{
	Use:   "members <type>",
	Short: "List the members of a type, including inherited ones",
	Args:  cobra.ExactArgs(1),
	RunE:  runMembers,
}

func init() {
	completeCmd.Flags().IntVar(&flagLine, "line", 0, "cursor line (0-based)")
	completeCmd.Flags().IntVar(&flagColumn, "column", 0, "cursor column (0-based)")
	_ = completeCmd.MarkFlagRequired("line")
	_ = completeCmd.MarkFlagRequired("column")
}

// openExistingEngine opens the database from the --db flag path (or default),
// failing if it has not been seeded.
func openExistingEngine() (*uecomplete.Engine, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting cwd: %w", err)
	}
	dbPath := resolveDBPath(findRepoRoot(cwd))
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("database not found: %s (run 'uecomplete seed' first)", dbPath)
	}
	return openEngine(dbPath)
}

// readSource reads the named file, or stdin for "" and "-".
func readSource(stdin io.Reader, arg string) (string, string, error) {
	if arg == "" || arg == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), "", nil
	}
	data, err := os.ReadFile(arg)
	if err != nil {
		return "", "", fmt.Errorf("reading %s: %w", arg, err)
	}
	return string(data), arg, nil
}

func runComplete(cmd *cobra.Command, args []string) error {
	var arg string
	if len(args) > 0 {
		arg = args[0]
	}
	content, path, err := readSource(cmd.InOrStdin(), arg)
	if err != nil {
		return err
	}

	engine, err := openExistingEngine()
	if err != nil {
		return err
	}
	defer engine.Close()

	items, err := engine.Complete(commandContext(cmd), uecomplete.Request{
		Content:  content,
		Line:     flagLine,
		Column:   flagColumn,
		FilePath: path,
	})
	if err != nil {
		return err
	}
	return outputItems(cmd.OutOrStdout(), items)
}

func runMembers(cmd *cobra.Command, args []string) error {
	engine, err := openExistingEngine()
	if err != nil {
		return err
	}
	defer engine.Close()

	items, err := engine.Members(commandContext(cmd), args[0])
	if err != nil {
		return err
	}
	return outputItems(cmd.OutOrStdout(), items)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
