package main

import (
	"flag"
	"io"

	"github.com/clubops/clubfinance/internal/backfill"
)

// parseFlags reads the command line into run options. defaultLimit comes from
// CLUBFIN_BACKFILL_DEFAULT_LIMIT and is overridden by -limit.
func parseFlags(args []string, defaultLimit int, output io.Writer) (backfill.Options, error) {
	fs := flag.NewFlagSet("backfill", flag.ContinueOnError)
	fs.SetOutput(output)

	dryRun := fs.Bool("dry-run", false, "report what would be created without writing anything")
	limit := fs.Int("limit", defaultLimit, "maximum records inspected per section (0 = no limit)")
	sections := fs.String("sections", "", "comma separated sections to run: registrations,sales,sponsorships,callups")

	if err := fs.Parse(args); err != nil {
		return backfill.Options{}, err
	}

	selected, err := backfill.ParseSections(*sections)
	if err != nil {
		return backfill.Options{}, err
	}
	opts := backfill.Options{DryRun: *dryRun, Limit: *limit, Sections: selected}
	if err := opts.Validate(); err != nil {
		return backfill.Options{}, err
	}
	return opts, nil
}
