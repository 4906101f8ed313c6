package cmd

import (
	"fmt"
	"log/slog"

	"github.com/cottand/typex/internal/log"
	"github.com/cottand/typex/txerr"
	"github.com/spf13/cobra"
)

var SubclassCmd = &cobra.Command{
	Use:          "subclass LEFT RIGHT",
	Short:        "Check whether LEFT is a subclass of RIGHT",
	RunE:         runSubclass,
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
}

var (
	subclassUniverse *string
	subclassLogLevel *int
)

func init() {
	subclassUniverse = SubclassCmd.Flags().StringP("universe", "u", "", "universe file declaring classes and type variables")
	subclassLogLevel = SubclassCmd.Flags().IntP("log-level", "l", int(slog.LevelWarn), "log level")
}

func runSubclass(cmd *cobra.Command, args []string) error {
	log.SetLevel(slog.Level(*subclassLogLevel))

	ctx, ns, err := loadUniverse(*subclassUniverse)
	if err != nil {
		return err
	}
	session := &Session{Ctx: ctx, NS: ns}
	res, err := session.IsSubclass(args[0], args[1])
	if err != nil {
		return fmt.Errorf("issubclass(%s, %s): %s", args[0], args[1], txerr.FormatWithCode(err))
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), res)
	return nil
}
