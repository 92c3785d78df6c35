package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/spf13/cobra"
	"github.com/z3c0/vistos-legacy/internal/components/failure"
	"github.com/z3c0/vistos-legacy/internal/congress"
	"github.com/z3c0/vistos-legacy/internal/consolidate"
	"github.com/z3c0/vistos-legacy/internal/records"
	"golang.org/x/sync/errgroup"
)

var (
	rangeStart   int
	rangeEnd     int
	rangePolicy  string
	rangeWorkers int
	rangeRetries uint64
)

func init() {
	rootCmd.AddCommand(congressCmd)
	rootCmd.AddCommand(congressesCmd)

	congressesCmd.Flags().IntVar(&rangeStart, "start", 0, "first congress number or year")
	congressesCmd.Flags().IntVar(&rangeEnd, "end", 0, "last congress number or year (default: the active congress)")
	congressesCmd.Flags().StringVar(&rangePolicy, "policy", "exclude", "whether a transition year start includes the congress ending that year (include, exclude)")
	congressesCmd.Flags().IntVar(&rangeWorkers, "workers", 2, "congresses fetched at once")
	congressesCmd.Flags().Uint64Var(&rangeRetries, "retries", 3, "retries of a congress after a connection error")
	congressesCmd.MarkFlagRequired("start")
}

func saveCongress(ctx context.Context, record records.CongressRecord) error {
	if app.store == nil {
		return nil
	}
	return app.store.SaveCongress(ctx, record)
}

var congressCmd = &cobra.Command{
	Use:   "congress [congress or year]",
	Short: "Prints the members of a congress, the active congress by default.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sel, err := selector(args)
		if err != nil {
			return err
		}
		record, err := app.service.Congress(cmd.Context(), sel)
		if err != nil {
			return err
		}
		err = saveCongress(cmd.Context(), record)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(record)
		}
		err = printIdentities(record.Identity())
		if err != nil {
			return err
		}
		return printMembers(record.Members())
	},
}

// fetchWithRetry retries a congress after connection errors only, any other failure is final.
func fetchWithRetry(ctx context.Context, identity congress.Identity) (records.CongressRecord, error) {
	n := identity.Number
	var record records.CongressRecord
	exponential := backoff.NewExponentialBackOff()
	exponential.InitialInterval = 2 * time.Second
	policy := backoff.WithContext(backoff.WithMaxRetries(exponential, rangeRetries), ctx)
	err := backoff.RetryNotify(
		func() error {
			var err error
			record, err = app.service.Congress(ctx, &n)
			if err != nil && !failure.IsRetryable(err) {
				return backoff.Permanent(err)
			}
			return err
		},
		policy,
		func(err error, wait time.Duration) {
			slog.Warn("retrying congress", "congress", n, "wait", wait, "err", err)
		},
	)
	return record, err
}

var congressesCmd = &cobra.Command{
	Use:   "congresses",
	Short: "Prints every member of a range of congresses, once each.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var policy congress.RangePolicy
		switch rangePolicy {
		case "include":
			policy = congress.IncludeEndingCongress
		case "exclude":
			policy = congress.ExcludeEndingCongress
		default:
			return fmt.Errorf("unknown policy %q", rangePolicy)
		}

		start := rangeStart
		var end *int
		if cmd.Flags().Changed("end") {
			end = &rangeEnd
		}
		identities, err := app.service.Resolver().ResolveRange(&start, end, policy)
		if err != nil {
			return err
		}

		results := make([]records.CongressRecord, len(identities))
		group, ctx := errgroup.WithContext(cmd.Context())
		group.SetLimit(max(rangeWorkers, 1))
		for i, identity := range identities {
			group.Go(func() error {
				record, err := fetchWithRetry(ctx, identity)
				if err != nil {
					return fmt.Errorf("congress %d: %w", identity.Number, err)
				}
				results[i] = record
				return nil
			})
		}
		err = group.Wait()
		if err != nil {
			return err
		}

		for _, record := range results {
			err := saveCongress(cmd.Context(), record)
			if err != nil {
				return err
			}
		}

		members, err := consolidate.MergeAcrossCongresses(results)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(struct {
				Congresses []congress.Identity    `json:"congresses"`
				Members    []records.MemberRecord `json:"members"`
			}{identities, members})
		}
		err = printIdentities(identities...)
		if err != nil {
			return err
		}
		return printMembers(members)
	},
}
