package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/cottand/typex/internal/log"
	"github.com/cottand/typex/txerr"
	"github.com/cottand/typex/types"
	"github.com/cottand/typex/util"
	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
)

var EvalCmd = &cobra.Command{
	Use:          "eval EXPR...",
	Short:        "Evaluate type expressions and print their canonical form",
	RunE:         runEval,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
}

var (
	evalUniverse *string
	evalDump     *bool
	evalLogLevel *int
)

func init() {
	evalUniverse = EvalCmd.Flags().StringP("universe", "u", "", "universe file declaring classes and type variables")
	evalDump = EvalCmd.Flags().Bool("dump", false, "dump the internal representation of every result")
	evalLogLevel = EvalCmd.Flags().IntP("log-level", "l", int(slog.LevelWarn), "log level")
}

func runEval(cmd *cobra.Command, args []string) error {
	log.SetLevel(slog.Level(*evalLogLevel))

	ctx, ns, err := loadUniverse(*evalUniverse)
	if err != nil {
		return err
	}
	session := &Session{Ctx: ctx, NS: ns}
	for _, src := range args {
		res, err := session.Eval(src)
		if err != nil {
			return fmt.Errorf("%s: %s", src, txerr.FormatWithCode(err))
		}
		writeResult(cmd.OutOrStdout(), res, *evalDump)
	}
	return nil
}

// Session evaluates source text against one context and namespace
type Session struct {
	Ctx *types.TypeCtx
	NS  types.Namespace
}

// Eval resolves src as a forward reference
func (s *Session) Eval(src string) (types.Expr, error) {
	ref, err := s.Ctx.ForwardRef(src)
	if err != nil {
		return nil, err
	}
	return s.Ctx.Resolve(ref, s.NS)
}

// IsSubclass evaluates both sides and checks left against right
func (s *Session) IsSubclass(left, right string) (bool, error) {
	l, err := s.Eval(left)
	if err != nil {
		return false, err
	}
	r, err := s.Eval(right)
	if err != nil {
		return false, err
	}
	return s.Ctx.IsSubclass(l, r)
}

// Line runs one line of input: either an expression, or a subclass query A <: B
func (s *Session) Line(line string) (string, error) {
	if left, right, ok := strings.Cut(line, "<:"); ok {
		res, err := s.IsSubclass(strings.TrimSpace(left), strings.TrimSpace(right))
		if err != nil {
			return "", err
		}
		return fmt.Sprint(res), nil
	}
	res, err := s.Eval(line)
	if err != nil {
		return "", err
	}
	return describe(res), nil
}

func describe(e types.Expr) string {
	params := types.Parameters(e)
	if len(params) == 0 {
		return e.String()
	}
	return e.String() + "  params: [" + util.JoinString(params, ", ") + "]"
}

func writeResult(w io.Writer, e types.Expr, dump bool) {
	_, _ = fmt.Fprintln(w, describe(e))
	if dump {
		cfg := spew.ConfigState{Indent: "  ", MaxDepth: 4, DisableMethods: true, DisablePointerAddresses: true}
		cfg.Fdump(w, e)
	}
}
