package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/chzyer/readline"
	"github.com/cottand/typex/internal/log"
	"github.com/cottand/typex/txerr"
	"github.com/spf13/cobra"
)

var ReplCmd = &cobra.Command{
	Use:   "repl",
	Short: "Evaluate type expressions interactively",
	Long: `Evaluate type expressions interactively.

Every line is either a type expression, like Dict[str, List[T]], or a
subclass query, like List[int] <: Sequence. Type :quit to leave.`,
	RunE:         runRepl,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
}

var (
	replUniverse *string
	replLogLevel *int
)

func init() {
	replUniverse = ReplCmd.Flags().StringP("universe", "u", "", "universe file declaring classes and type variables")
	replLogLevel = ReplCmd.Flags().IntP("log-level", "l", int(slog.LevelWarn), "log level")
}

func runRepl(cmd *cobra.Command, args []string) error {
	log.SetLevel(slog.Level(*replLogLevel))

	ctx, ns, err := loadUniverse(*replUniverse)
	if err != nil {
		return err
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "typex> ",
		InterruptPrompt: "^C",
		EOFPrompt:       ":quit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	return repl(&Session{Ctx: ctx, NS: ns}, rl.Readline, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// repl runs lines from next until it returns io.EOF or the user quits. Interrupts are ignored
func repl(session *Session, next func() (string, error), out, errOut io.Writer) error {
	for {
		line, err := next()
		switch {
		case err == readline.ErrInterrupt:
			continue
		case err == io.EOF:
			return nil
		case err != nil:
			return err
		}

		line = strings.TrimSpace(line)
		switch line {
		case "":
			continue
		case ":quit", ":q":
			return nil
		}
		res, err := session.Line(line)
		if err != nil {
			_, _ = fmt.Fprintln(errOut, txerr.FormatWithCode(err))
			continue
		}
		_, _ = fmt.Fprintln(out, res)
	}
}
