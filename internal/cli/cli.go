// Package cli defines the command tree for the crossfit-timetable binary.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/crossfit-timetable/internal/calendar"
	"github.com/pfrederiksen/crossfit-timetable/internal/config"
	"github.com/pfrederiksen/crossfit-timetable/internal/logger"
	"github.com/pfrederiksen/crossfit-timetable/internal/scraper"
	"github.com/pfrederiksen/crossfit-timetable/internal/server"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

// Output formats for the fetch command.
const (
	FormatJSON = "json"
	FormatICal = "ical"
)

var (
	flagWeeks  int
	flagFormat string
	flagOutput string
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crossfit-timetable",
		Short: "Scrape and republish the CrossFit 2.0 Rzeszów class schedule",
		Long: `Fetches the gym's public class schedule and republishes it as JSON or
as an iCal calendar, either as a one-shot fetch or as an HTTP API.`,
	}

	cmd.AddCommand(newServeCmd(), newFetchCmd())
	return cmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the timetable HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading settings: %w", err)
			}
			if settings.Debug {
				logger.SetDefault(logger.New(logger.LevelDebug, os.Stdout))
			}
			return server.New(settings).Start()
		},
	}
}

func newFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch the schedule once and write it to stdout or a file",
		RunE:  runFetch,
	}

	cmd.Flags().IntVar(&flagWeeks, "weeks", 1, "Number of weeks to fetch (1-6)")
	cmd.Flags().StringVar(&flagFormat, "format", FormatJSON, "Output format: json or ical")
	cmd.Flags().StringVar(&flagOutput, "output", "", "Write to file instead of stdout")

	return cmd
}

// runFetch is the one-shot scrape logic.
func runFetch(cmd *cobra.Command, args []string) error {
	if err := scraper.ValidateWeeks(flagWeeks); err != nil {
		return err
	}
	format := strings.ToLower(flagFormat)
	if format != FormatJSON && format != FormatICal {
		return fmt.Errorf("invalid format: %s (must be 'json' or 'ical')", flagFormat)
	}

	settings, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	sc := scraper.New(settings.ScraperBaseURL, settings.AgendaPath, settings.GymTitle)

	// Only the calendar output carries a location, matching the API.
	location := ""
	if format == FormatICal {
		location = settings.Location
		if location == "" {
			location = sc.FetchLocation(cmd.Context())
		}
	}

	mondays := scraper.WeekMondays(scraper.CurrentMonday(), flagWeeks)
	classes, err := sc.FetchWeeks(cmd.Context(), mondays, location)
	if err != nil {
		return fmt.Errorf("fetching timetable: %w", err)
	}

	var out []byte
	if format == FormatJSON {
		out, err = json.MarshalIndent(classes, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding classes: %w", err)
		}
		out = append(out, '\n')
	} else {
		exporter := calendar.Exporter{Gym: calendar.Gym{
			Title:     settings.GymTitle,
			Location:  settings.GymLocation,
			Latitude:  settings.GymLatitude,
			Longitude: settings.GymLongitude,
		}}
		out = exporter.Export(classes)
	}

	if flagOutput == "" {
		_, err = cmd.OutOrStdout().Write(out)
		return err
	}
	if err := os.WriteFile(flagOutput, out, 0o644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
