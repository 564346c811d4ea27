// Package cli wires the procureflow command line: the API server plus
// one-shot registry maintenance commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/procureflow/registry/internal/application/service"
	"github.com/procureflow/registry/internal/config"
	"github.com/procureflow/registry/internal/container"
	httpapi "github.com/procureflow/registry/internal/interfaces/http"
	"github.com/procureflow/registry/pkg/utils"
)

// NewRootCommand builds the root procureflow command.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "procureflow",
		Short:         "ProcureFlow procurement registry",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", "", "Path to a YAML config file")

	root.AddCommand(newServeCmd())
	root.AddCommand(newSeedCmd())
	root.AddCommand(newImportCmd())
	root.AddCommand(newExportCmd())
	root.AddCommand(newRecordCmd())
	root.AddCommand(newUserCmd())

	return root
}

// Execute runs the procureflow CLI.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return err
	}
	return nil
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "serve",
		Aliases: []string{"start"},
		Short:   "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithContainer(cmd, nil, func(ctx context.Context, c *container.Container, kv *utils.LoggerAdapter) error {
				cfg := c.Config()
				bundle := c.Services()

				server := httpapi.NewServer(httpapi.ServerConfig{
					Host:           cfg.Server.Host,
					Port:           cfg.Server.Port,
					ReadTimeout:    cfg.Server.ReadTimeout,
					WriteTimeout:   cfg.Server.WriteTimeout,
					Mode:           cfg.Server.Mode,
					MaxUploadBytes: cfg.Import.MaxUploadBytes,
				}, httpapi.Services{
					Records:  bundle.Records,
					Transfer: bundle.Transfer,
					Auth:     bundle.Auth,
				}, kv,
					httpapi.WithMetrics(c.Metrics()),
					httpapi.WithHealth(func(ctx context.Context) (bool, interface{}) {
						status := c.Health(ctx)
						return status.Overall, status.Components
					}),
				)
				return server.Start(ctx)
			})
		},
	}
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Write the example record into an empty registry",
		RunE: func(cmd *cobra.Command, args []string) error {
			noSeed := func(cfg *container.Config) { cfg.Seed = false }
			return runWithContainer(cmd, noSeed, func(ctx context.Context, c *container.Container, _ *utils.LoggerAdapter) error {
				seeded, err := c.Services().Records.Seed(ctx)
				if err != nil {
					return err
				}
				if seeded {
					fmt.Fprintln(cmd.OutOrStdout(), "seed record written")
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), "registry not empty, nothing to seed")
				}
				return nil
			})
		},
	}
}

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Merge records from an .xlsx workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, _ := cmd.Flags().GetString("user")
			return runWithContainer(cmd, nil, func(ctx context.Context, c *container.Container, _ *utils.LoggerAdapter) error {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open workbook: %w", err)
				}
				defer f.Close()

				result, err := c.Services().Transfer.Import(ctx, user, f)
				if err != nil {
					return userFacing(err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s (detected %d, added %d)\n", result.Message, result.Detected, result.Added)
				return nil
			})
		},
	}
	cmd.Flags().String("user", "", "Username recorded as creator of imported records")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the whole registry to an .xlsx workbook in the export directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("out")
			return runWithContainer(cmd, nil, func(ctx context.Context, c *container.Container, _ *utils.LoggerAdapter) error {
				file, err := c.Services().Transfer.ExportRegistry(ctx)
				if err != nil {
					return userFacing(err)
				}
				return saveExport(ctx, cmd, c, file, out)
			})
		},
	}
	cmd.Flags().String("out", "", "File name inside the export directory (default: generated)")
	return cmd
}

func newRecordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Export a single record",
	}

	export := func(use, short string, render func(service.TransferService, context.Context, string) (*service.ExportFile, error)) *cobra.Command {
		sub := &cobra.Command{
			Use:   use + " [id|recordId]",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				out, _ := cmd.Flags().GetString("out")
				return runWithContainer(cmd, nil, func(ctx context.Context, c *container.Container, _ *utils.LoggerAdapter) error {
					file, err := render(c.Services().Transfer, ctx, args[0])
					if err != nil {
						return userFacing(err)
					}
					return saveExport(ctx, cmd, c, file, out)
				})
			},
		}
		sub.Flags().String("out", "", "File name inside the export directory (default: generated)")
		return sub
	}

	cmd.AddCommand(
		export("pdf", "Render the printable record summary", service.TransferService.ExportRecordPDF),
		export("xlsx", "Write the record details workbook", service.TransferService.ExportRecordWorkbook),
	)
	return cmd
}

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage local accounts",
	}

	register := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			username, _ := cmd.Flags().GetString("username")
			password, _ := cmd.Flags().GetString("password")
			return runWithContainer(cmd, nil, func(ctx context.Context, c *container.Container, _ *utils.LoggerAdapter) error {
				user, err := c.Services().Auth.Register(ctx, service.RegisterInput{
					Username:        username,
					Password:        password,
					ConfirmPassword: password,
				})
				if err != nil {
					return userFacing(err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "registered %s\n", user.Username)
				return nil
			})
		},
	}
	register.Flags().String("username", "", "Account name")
	register.Flags().String("password", "", "Account password")
	_ = register.MarkFlagRequired("username")
	_ = register.MarkFlagRequired("password")

	list := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithContainer(cmd, nil, func(ctx context.Context, c *container.Container, _ *utils.LoggerAdapter) error {
				for _, u := range c.Services().Auth.Users(ctx) {
					fmt.Fprintln(cmd.OutOrStdout(), u.Username)
				}
				return nil
			})
		},
	}

	cmd.AddCommand(register, list)
	return cmd
}

// runWithContainer loads configuration, starts the container, runs fn and
// closes the container again. adjust may tweak the container config first.
func runWithContainer(
	cmd *cobra.Command,
	adjust func(*container.Config),
	fn func(ctx context.Context, c *container.Container, kv *utils.LoggerAdapter) error,
) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	logger, err := utils.NewLogger(cfg.ToLoggerConfig())
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	containerCfg := cfg.ToContainerConfig()
	if adjust != nil {
		adjust(containerCfg)
	}

	c, err := container.NewContainer(containerCfg, logger)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := c.Start(ctx); err != nil {
		_ = c.Close()
		return err
	}

	runErr := fn(ctx, c, utils.NewLoggerAdapter(logger))
	if err := c.Close(); err != nil {
		logger.Error("Failed to close container", zap.Error(err))
		runErr = errors.Join(runErr, err)
	}
	return runErr
}

func saveExport(ctx context.Context, cmd *cobra.Command, c *container.Container, file *service.ExportFile, out string) error {
	name := file.Name
	if out != "" {
		name = out
	}
	path, err := c.Adapters().Exports.Save(ctx, name, file.Content)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

// userFacing drops the wrapped cause from service errors that carry a
// message meant for the operator.
func userFacing(err error) error {
	if msg := service.UserMessage(err, ""); msg != "" {
		return errors.New(msg)
	}
	return err
}
