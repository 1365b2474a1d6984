// Command employee-records exchanges employee record files with the ASP.
//
//	employee-records export                 upload READY records
//	employee-records process                apply every pending reply
//	employee-records process --file <path>  apply one local reply file
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	employeerecordapp "github.com/itou/backend/internal/application/employeerecord"
	"github.com/itou/backend/internal/infrastructure/bootstrap"
	"github.com/itou/backend/internal/infrastructure/cache"
	"github.com/itou/backend/internal/infrastructure/event"
	"github.com/itou/backend/internal/infrastructure/mailer"
	"github.com/itou/backend/internal/infrastructure/persistence"
	"github.com/itou/backend/internal/infrastructure/storage"
	"go.uber.org/zap"
)

func main() {
	if len(os.Args) < 2 {
		usage()
	}
	command := os.Args[1]

	fs := flag.NewFlagSet(command, flag.ExitOnError)
	file := fs.String("file", "", "Local reply file to apply (process only)")
	_ = fs.Parse(os.Args[2:])

	if command != "export" && command != "process" {
		usage()
	}

	if err := run(context.Background(), command, *file); err != nil {
		fmt.Fprintln(os.Stderr, command+" failed:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: employee-records export | process [--file <path>]")
	os.Exit(2)
}

func run(ctx context.Context, command, file string) error {
	infra, err := bootstrap.Open(ctx, bootstrap.WithRedis())
	if err != nil {
		return err
	}
	defer infra.Close(ctx)
	cfg, log := infra.Config, infra.Logger

	store, err := storage.NewS3Store(ctx, cfg.Storage)
	if err != nil {
		return err
	}

	db := infra.DB.DB
	recordRepo := persistence.NewGormEmployeeRecordRepository(db)
	userRepo := persistence.NewGormUserRepository(db)
	siaeRepo := persistence.NewGormSiaeRepository(db)
	membershipRepo := persistence.NewGormMembershipRepository(db)

	// Rejections are mailed by the server's email workers
	eventBus := event.NewInMemoryEventBus(log)
	notifier := employeerecordapp.NewRejectionNotifier(siaeRepo, membershipRepo, userRepo,
		mailer.NewQueue(infra.Redis, cfg.Email.QueueKey),
		employeerecordapp.NotificationConfig{
			From:    cfg.Email.From,
			BaseURL: cfg.App.BaseURL,
			Demo:    cfg.App.IsDemo(),
		})
	eventBus.Subscribe(event.NewIdempotentHandler(notifier, cache.NewRedisIdempotencyStore(infra.Redis, ""), log))

	recordService := employeerecordapp.NewService(
		recordRepo,
		membershipRepo,
		persistence.NewGormJobApplicationRepository(db),
		userRepo,
		siaeRepo,
		persistence.NewGormConventionRepository(db),
		eventBus,
	)
	exchange := employeerecordapp.NewExchangeService(recordRepo, store, employeerecordapp.ExchangeConfig{
		OutPrefix:   cfg.Export.OutPrefix,
		InPrefix:    cfg.Export.InPrefix,
		ErrorPrefix: cfg.Export.ErrorPrefix,
		BatchSize:   cfg.Export.BatchSize,
	}, recordService)

	switch command {
	case "export":
		results, err := exchange.ExportReady(ctx)
		for _, r := range results {
			log.Info("Batch exported", zap.String("file", r.FileName), zap.Int("lines", r.Lines))
		}
		return err

	case "process":
		if file != "" {
			body, err := os.ReadFile(file)
			if err != nil {
				return err
			}
			result, err := exchange.ProcessReply(ctx, filepath.Base(file), body)
			if err != nil {
				return err
			}
			logReply(log, *result)
			return nil
		}
		results, err := exchange.ProcessPendingReplies(ctx)
		for _, r := range results {
			logReply(log, r)
		}
		return err
	}
	return errors.New("unknown command " + command)
}

func logReply(log *zap.Logger, r employeerecordapp.ReplyResult) {
	log.Info("Reply applied",
		zap.String("batch_file", r.BatchFile),
		zap.Int("accepted", r.Accepted),
		zap.Int("rejected", r.Rejected),
		zap.Int("skipped", r.Skipped),
	)
}
