// Command import-siae links structures to the ASP "Vue Structure" export
// and refreshes the activity of their conventions.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	cityapp "github.com/itou/backend/internal/application/city"
	siaeapp "github.com/itou/backend/internal/application/siae"
	"github.com/itou/backend/internal/infrastructure/bootstrap"
	"github.com/itou/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

type options struct {
	vueStructure       string
	dryRun             bool
	refreshConventions bool
	checkCities        bool
}

func main() {
	var opts options
	flag.StringVar(&opts.vueStructure, "vue-structure", "", "Path to the ASP Vue Structure CSV export")
	flag.BoolVar(&opts.dryRun, "dry-run", false, "Log the changes without writing them")
	flag.BoolVar(&opts.refreshConventions, "refresh-conventions", false, "Recompute convention activity from the financial annexes")
	flag.BoolVar(&opts.checkCities, "check-cities", false, "Report structures whose city matches no known city")
	flag.Parse()

	if opts.vueStructure == "" && !opts.refreshConventions && !opts.checkCities {
		fmt.Fprintln(os.Stderr, "Usage: import-siae --vue-structure <csv> [--dry-run] [--refresh-conventions] [--check-cities]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	if err := run(context.Background(), opts); err != nil {
		fmt.Fprintln(os.Stderr, "import failed:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	// Fail on an unreadable export before touching the database
	var vs *siaeapp.VueStructure
	if opts.vueStructure != "" {
		f, err := os.Open(opts.vueStructure)
		if err != nil {
			return err
		}
		vs, err = siaeapp.LoadVueStructure(f)
		f.Close()
		if err != nil {
			return err
		}
	}

	infra, err := bootstrap.Open(ctx)
	if err != nil {
		return err
	}
	defer infra.Close(ctx)
	log := infra.Logger

	siaeRepo := persistence.NewGormSiaeRepository(infra.DB.DB)

	if vs != nil {
		log.Info("Vue Structure loaded", zap.String("file", opts.vueStructure), zap.Int("rows", len(vs.Rows)))
		result, err := siaeapp.NewLinkService(siaeRepo, log).LinkSiaes(ctx, vs, opts.dryRun)
		if err != nil {
			return err
		}
		log.Info("Structures linked",
			zap.Int("checked", result.Checked),
			zap.Int("linked", result.Linked),
			zap.Int("not_found", result.NotFound),
			zap.Bool("dry_run", opts.dryRun),
		)
	}

	if opts.refreshConventions && !opts.dryRun {
		conventions := siaeapp.NewConventionService(persistence.NewGormConventionRepository(infra.DB.DB), log)
		result, err := conventions.RefreshAll(ctx, time.Now())
		if err != nil {
			return err
		}
		log.Info("Conventions refreshed",
			zap.Int("checked", result.Checked),
			zap.Int("deactivated", result.Deactivated),
			zap.Int("reactivated", result.Reactivated),
		)
	}

	if opts.checkCities {
		cities := cityapp.NewService(persistence.NewGormCityRepository(infra.DB.DB), siaeRepo, log)
		suspicious, err := cities.FindSuspiciousSiaeCities(ctx)
		if err != nil {
			return err
		}
		for _, s := range suspicious {
			log.Warn("Unknown structure city",
				zap.String("city", s.City),
				zap.String("department", s.Department),
				zap.String("siret", s.Siret),
				zap.String("name", s.Name),
			)
		}
	}
	return nil
}
