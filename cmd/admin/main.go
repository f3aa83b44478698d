package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	billingapp "github.com/krodas7/constructora-backend/internal/application/billing"
	identityapp "github.com/krodas7/constructora-backend/internal/application/identity"
	notificationapp "github.com/krodas7/constructora-backend/internal/application/notification"
	"github.com/krodas7/constructora-backend/internal/infrastructure/auth"
	"github.com/krodas7/constructora-backend/internal/infrastructure/backup"
	"github.com/krodas7/constructora-backend/internal/infrastructure/config"
	"github.com/krodas7/constructora-backend/internal/infrastructure/logger"
	"github.com/krodas7/constructora-backend/internal/infrastructure/mail"
	"github.com/krodas7/constructora-backend/internal/infrastructure/persistence"
)

// runtime bundles what every admin command needs
type runtime struct {
	cfg *config.Config
	log *zap.Logger
	db  *persistence.Database
}

func newRuntime() (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: "console",
		Output: "stdout",
	})
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}
	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return &runtime{cfg: cfg, log: log, db: db}, nil
}

func (r *runtime) close() {
	_ = r.db.Close()
	_ = logger.Sync(r.log)
}

func main() {
	root := &cobra.Command{
		Use:           "admin",
		Short:         "Back-office maintenance commands",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		updateInvoiceStatusesCmd(),
		sendNotificationsCmd(),
		backupCmd(),
		createUserCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func updateInvoiceStatusesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update-invoice-statuses",
		Short: "Flip unsettled invoices past their due date to overdue",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}
			defer rt.close()

			svc := billingapp.NewInvoiceService(
				rt.db.DB,
				persistence.NewGormInvoiceRepository(rt.db.DB),
				persistence.NewGormPaymentRepository(rt.db.DB),
				persistence.NewGormProjectRepository(rt.db.DB),
				persistence.NewGormClientRepository(rt.db.DB),
			)
			n, err := svc.UpdateOverdueStatuses(cmd.Context(), time.Now())
			if err != nil {
				return err
			}
			rt.log.Info("Overdue check completed", zap.Int("updated", n))
			return nil
		},
	}
}

func sendNotificationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send-notifications",
		Short: "Dispatch scheduled notifications that are due",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}
			defer rt.close()

			var mailer mail.Sender
			if rt.cfg.SMTP.Enabled {
				mailer = mail.NewSMTPSender(rt.cfg.SMTP)
			} else {
				mailer = mail.NewNoopSender(rt.log)
			}
			svc := notificationapp.NewService(
				persistence.NewGormNotificationRepository(rt.db.DB),
				persistence.NewGormUserRepository(rt.db.DB),
				mailer,
				rt.log,
			)
			n, err := svc.DispatchDue(cmd.Context(), time.Now())
			if err != nil {
				return err
			}
			rt.log.Info("Dispatch completed", zap.Int("sent", n))
			return nil
		},
	}
}

func backupCmd() *cobra.Command {
	var (
		backupType string
		retention  int
		dryRun     bool
	)
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Dump the database and prune old dumps",
		RunE: func(cmd *cobra.Command, args []string) error {
			if backupType != "db" {
				return fmt.Errorf("unsupported backup type %q", backupType)
			}
			rt, err := newRuntime()
			if err != nil {
				return err
			}
			defer rt.close()

			if retention == 0 {
				retention = rt.cfg.Backup.Retention
			}
			runner := backup.NewRunner(rt.cfg.Database, rt.cfg.Backup.Dir, rt.log)
			path, err := runner.Run(cmd.Context(), dryRun)
			if err != nil {
				return err
			}
			removed, err := runner.Prune(retention, dryRun)
			if err != nil {
				return err
			}
			rt.log.Info("Backup completed",
				zap.String("dump", path),
				zap.Int("pruned", len(removed)),
				zap.Bool("dry_run", dryRun),
			)
			return nil
		},
	}
	cmd.Flags().StringVar(&backupType, "type", "db", "What to back up (only db is supported)")
	cmd.Flags().IntVar(&retention, "retention", 0, "Number of dumps to keep (default from config)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report actions without writing or deleting")
	return cmd
}

func createUserCmd() *cobra.Command {
	var role string
	cmd := &cobra.Command{
		Use:   "create-user <username> <password>",
		Short: "Create an application account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}
			defer rt.close()

			svc := identityapp.NewAuthService(
				persistence.NewGormUserRepository(rt.db.DB),
				auth.NewJWTService(rt.cfg.JWT),
				rt.log,
			)
			user, err := svc.Register(cmd.Context(), args[0], args[1], "", "", role)
			if err != nil {
				return err
			}
			rt.log.Info("User created",
				zap.String("id", user.ID.String()),
				zap.String("username", user.Username),
				zap.String("role", user.Role),
			)
			return nil
		},
	}
	cmd.Flags().StringVar(&role, "role", "viewer", "Role: admin, accountant, supervisor or viewer")
	return cmd
}
