package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/da7a90-backup/rihla-travel-agency/internal/config"
	"github.com/da7a90-backup/rihla-travel-agency/internal/domain/calendar"
	"github.com/da7a90-backup/rihla-travel-agency/internal/domain/flight"
	"github.com/da7a90-backup/rihla-travel-agency/internal/infrastructure/amadeus"
	"github.com/da7a90-backup/rihla-travel-agency/internal/infrastructure/cache"
	"github.com/da7a90-backup/rihla-travel-agency/internal/usecase"
)

// rihla is the operator CLI: one-shot searches and month scans against the
// same engine the API serves, with JSON output for scripting.
func main() {
	root := &cobra.Command{
		Use:   "rihla",
		Short: "Rihla travel agency flight tools",
	}

	root.AddCommand(searchCmd())
	root.AddCommand(calendarCmd())
	root.AddCommand(resolveCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildEngine() (*amadeus.Client, *config.Config, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, nil, err
	}

	client := amadeus.NewClient(amadeus.Config{
		BaseURL:         cfg.Amadeus.BaseURL,
		ClientID:        cfg.Amadeus.ClientID,
		ClientSecret:    cfg.Amadeus.ClientSecret,
		RequestCurrency: cfg.Amadeus.RequestCurrency,
		DisplayCurrency: cfg.Amadeus.DisplayCurrency,
		ConversionRate:  cfg.Amadeus.ConversionRate,
		MaxResults:      cfg.Amadeus.MaxResults,
		TokenSafetyGap:  cfg.Amadeus.TokenSafetyGap,
		RequestTimeout:  cfg.Amadeus.RequestTimeout,
	}, cache.NewMemory(cfg.Cache.TTL))

	return client, cfg, nil
}

func searchCmd() *cobra.Command {
	var (
		from, to, depart, ret string
		adults, maxResults    int
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search flight offers",
		Example: `  rihla search --from NKC --to CDG --depart 2026-09-12
  rihla search --from NKC --to IST --depart 2026-09-12 --return 2026-09-20`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cfg, err := buildEngine()
			if err != nil {
				return err
			}

			departDate, err := time.Parse("2006-01-02", depart)
			if err != nil {
				return fmt.Errorf("--depart must be YYYY-MM-DD")
			}

			criteria := flight.SearchCriteria{
				Origin:        from,
				Destination:   to,
				DepartureDate: departDate,
				Adults:        adults,
				MaxResults:    maxResults,
			}
			if ret != "" {
				retDate, err := time.Parse("2006-01-02", ret)
				if err != nil {
					return fmt.Errorf("--return must be YYYY-MM-DD")
				}
				criteria.ReturnDate = &retDate
			}

			searchUC := usecase.NewSearch(client, usecase.NewComposer(cfg.Compose.MaxOffersPerLeg))
			out, err := searchUC.Execute(cmd.Context(), criteria)
			if err != nil {
				return err
			}
			return printJSON(out)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Origin airport code (required)")
	cmd.Flags().StringVar(&to, "to", "", "Destination airport code (required)")
	cmd.Flags().StringVar(&depart, "depart", "", "Departure date YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&ret, "return", "", "Return date YYYY-MM-DD (optional)")
	cmd.Flags().IntVar(&adults, "adults", 1, "Number of adult passengers")
	cmd.Flags().IntVar(&maxResults, "max", 0, "Result cap per direction (0 uses config)")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")
	cmd.MarkFlagRequired("depart")

	return cmd
}

func calendarCmd() *cobra.Command {
	var (
		from, to, month string
		adults          int
	)

	cmd := &cobra.Command{
		Use:     "calendar",
		Short:   "Scan a month of daily minimum prices",
		Example: `  rihla calendar --from NKC --to CDG --month 2026-09`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cfg, err := buildEngine()
			if err != nil {
				return err
			}

			monthStart, err := time.Parse("2006-01", month)
			if err != nil {
				return fmt.Errorf("--month must be YYYY-MM")
			}

			scheduler := usecase.NewScheduler(client, cfg.Calendar.MinInterval, cfg.Calendar.BackoffPenalty)
			days := usecase.MonthDays(monthStart.Year(), monthStart.Month())
			criteria := flight.SearchCriteria{Origin: from, Destination: to, Adults: adults}

			return scheduler.Run(cmd.Context(), days, criteria, func(day calendar.DayPrice) {
				printJSON(day)
			})
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Origin airport code (required)")
	cmd.Flags().StringVar(&to, "to", "", "Destination airport code (required)")
	cmd.Flags().StringVar(&month, "month", "", "Month to scan, YYYY-MM (required)")
	cmd.Flags().IntVar(&adults, "adults", 1, "Number of adult passengers")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")
	cmd.MarkFlagRequired("month")

	return cmd
}

func resolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <airline|city> <code>",
		Short: "Resolve an airline or location code to a display name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := buildEngine()
			if err != nil {
				return err
			}

			resolver := amadeus.NewReferenceResolver(client)
			resolver.Warm(cmd.Context())

			var name string
			switch args[0] {
			case "airline":
				name = resolver.AirlineName(args[1])
			case "city":
				name = resolver.CityName(args[1])
			default:
				return fmt.Errorf("first argument must be airline or city")
			}

			fmt.Println(name)
			return nil
		},
	}
	return cmd
}

func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
