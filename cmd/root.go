package cmd

import (
	"io"
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/bloomclimb/internal/config"
	"github.com/abhisek/bloomclimb/internal/logging"
)

// version is set via -ldflags at build time.
var version = "(devel)"

// cli carries the flags and settings shared by every subcommand.
type cli struct {
	dbFlag       string
	configFlag   string
	logLevelFlag string

	cfg *config.Config
	log *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "bloomclimb",
		Short: "Adaptive difficulty engine on Bloom's taxonomy",
		Long: "bloomclimb picks the Bloom level of a student's next question from the " +
			"correctness and speed of their recent answers, and reports on finished sessions.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.log != nil {
				_ = c.log.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.dbFlag, "db", "", "Path to SQLite database file (overrides BLOOMCLIMB_DB env var)")
	pf.StringVar(&c.configFlag, "config", "", "Path to YAML config file (default ./bloomclimb.yaml)")
	pf.StringVar(&c.logLevelFlag, "log-level", "", "Log level: debug, info, warn, error")

	root.AddCommand(
		newStartCmd(c),
		newAnswerCmd(c),
		newSimulateCmd(c),
		newReportCmd(c),
		newRecommendCmd(c),
		newSessionsCmd(c),
		newResetCmd(c),
		newDeleteCmd(c),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

func (c *cli) setup() error {
	cfg, err := config.Load(c.configFlag)
	if err != nil {
		return err
	}
	if c.dbFlag != "" {
		cfg.DBPath = c.dbFlag
	}
	if c.logLevelFlag != "" {
		cfg.Log.Level = c.logLevelFlag
	}

	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.log = log
	return nil
}

// stdout returns the command's output writer with ANSI styling downsampled
// to what the destination supports.
func stdout(cmd *cobra.Command) io.Writer {
	return styled(cmd.OutOrStdout())
}

func styled(w io.Writer) io.Writer {
	return colorprofile.NewWriter(w, os.Environ())
}
