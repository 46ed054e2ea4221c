package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/tensorscript/tsc/internal/diag"
	"github.com/tensorscript/tsc/internal/modreg"
	"github.com/tensorscript/tsc/internal/pipeline"
	"github.com/tensorscript/tsc/internal/span"
	"github.com/tensorscript/tsc/internal/tsast"
)

var (
	replBold  = color.New(color.Bold).SprintFunc()
	replDim   = color.New(color.Faint).SprintFunc()
	replGreen = color.New(color.FgGreen).SprintFunc()
	replRed   = color.New(color.FgRed).SprintFunc()
)

func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive type-checking session",
		RunE: func(cmd *cobra.Command, args []string) error {
			runRepl(cmd.OutOrStdout())
			return nil
		},
	}
}

// session accumulates one JSON-encoded declaration per line and re-runs the
// full pipeline over everything entered so far, so each new line sees the
// types accumulated from every prior one.
type session struct {
	decls []tsast.Decl
}

func runRepl(out io.Writer) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetMultiLineMode(false)

	historyFile := filepath.Join(os.TempDir(), ".tscheck_history")
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}

	fmt.Fprintf(out, "%s\n", replBold("tscheck REPL"))
	fmt.Fprintln(out, replDim("Paste one JSON-encoded declaration per line. :quit to exit, :reset to clear."))

	sess := &session{}
	for {
		input, err := line.Prompt("tsc> ")
		if err == io.EOF {
			fmt.Fprintln(out, replGreen("goodbye"))
			break
		}
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", replRed("error"), err)
			continue
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		switch input {
		case ":quit", ":q":
			fmt.Fprintln(out, replGreen("goodbye"))
			return
		case ":reset":
			sess.decls = nil
			fmt.Fprintln(out, replDim("session cleared"))
			continue
		case ":help":
			fmt.Fprintln(out, replDim(":quit, :reset, :help"))
			continue
		}

		decl, err := tsast.DecodeDecl([]byte(input))
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", replRed("error"), err)
			continue
		}
		sess.decls = append(sess.decls, decl)

		file := &tsast.File{Decls: sess.decls, Span: span.None}
		result := pipeline.Run(pipeline.Config{Registry: modreg.NewWithPrelude()}, file)
		printer := diag.NewPrinter(out)
		printer.PrintAll(result.Reports)
		if len(result.Reports) == 0 {
			fmt.Fprintln(out, replGreen("ok"))
		}
	}

	if f, err := os.Create(historyFile); err == nil {
		_, _ = line.WriteHistory(f)
		f.Close()
	}
}
