package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

// Version はビルド時に -ldflags で埋め込まれるバージョン。
var Version = "dev"

// NewRootCommand はportfolioのルートコマンドを生成する。
// サブコマンドを省略した場合はserveとして起動する。
// ログはwに出力する。
func NewRootCommand(w io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "portfolio",
		Short:         "Personal portfolio web server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), w)
		},
	}

	root.AddCommand(
		newServeCommand(w),
		newMigrateCommand(w),
		newHealthcheckCommand(),
		newVersionCommand(),
	)
	return root
}

func newServeCommand(w io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), w)
		},
	}
}

func newMigrateCommand(w io.Writer) *cobra.Command {
	var seed bool

	cmd := &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Apply database migrations",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{string(MigrateUp), string(MigrateDown), string(MigrateStatus)},
		RunE: func(cmd *cobra.Command, args []string) error {
			direction := MigrateUp
			if len(args) == 1 {
				direction = MigrateDirection(args[0])
			}

			cfg, err := Init(w)
			if err != nil {
				return fmt.Errorf("initialization failed: %w", err)
			}
			return runMigrate(cmd.Context(), cfg, direction, seed)
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", true, "seed forum topics from the content file when the table is empty")
	return cmd
}

// healthcheckは軽量サブコマンドのため、フル初期化をスキップする
func newHealthcheckCommand() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "healthcheck",
		Short: "Probe the /health endpoint of a running server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if port == "" {
				port = healthcheckPort()
			}
			return runHealthcheck(cmd.Context(), port)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "server port (default $SERVER_PORT or 8080)")
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), Version)
		},
	}
}

func serve(ctx context.Context, w io.Writer) error {
	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("version", Version),
		slog.String("port", cfg.ServerPort),
		slog.String("base_url", cfg.BaseURL),
	)
	return runServe(ctx, cfg)
}

// Run はアプリケーションのメインエントリーポイント。
// argsにはos.Args[1:]を渡す。
func Run(ctx context.Context, w io.Writer, args []string) error {
	root := NewRootCommand(w)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}
