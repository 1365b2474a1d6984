// Command merge-organizations merges a duplicate prescriber organization
// into another one.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	prescriberapp "github.com/itou/backend/internal/application/prescriber"
	"github.com/itou/backend/internal/infrastructure/bootstrap"
	"github.com/itou/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

func main() {
	var from, to int64
	flag.Int64Var(&from, "from", 0, "ID of the organization to merge and delete (required)")
	flag.Int64Var(&to, "to", 0, "ID of the organization receiving the data (required)")
	flag.Parse()

	if from == 0 || to == 0 {
		fmt.Fprintln(os.Stderr, "Usage: merge-organizations --from <id> --to <id>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	if err := run(context.Background(), from, to); err != nil {
		fmt.Fprintln(os.Stderr, "merge failed:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, from, to int64) error {
	infra, err := bootstrap.Open(ctx)
	if err != nil {
		return err
	}
	defer infra.Close(ctx)

	svc := prescriberapp.NewMergeService(persistence.NewGormOrganizationRepository(infra.DB.DB), infra.Logger)
	result, err := svc.Merge(ctx, from, to)
	if err != nil {
		return err
	}

	infra.Logger.Info("Organizations merged",
		zap.String("from", result.From),
		zap.String("to", result.To),
		zap.Int64("job_applications", result.Counts.JobApplications),
		zap.Int64("members", result.Counts.Members),
	)
	return nil
}
