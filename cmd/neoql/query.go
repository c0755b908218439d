package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rpattn/neoql/internal/domain"
	"github.com/rpattn/neoql/internal/export"
	"github.com/rpattn/neoql/internal/query"
	"github.com/rpattn/neoql/pkg/validator"
)

const dateLayout = "2006-01-02"

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query close approaches matching a set of criteria",
	Long: `Query the close approach collection with any combination of date,
distance, velocity, diameter, and hazardousness criteria. Results print
to stdout, or write to a CSV, JSON, or XLSX file with --outfile.`,
	RunE: runQuery,
}

var (
	queryDate        string
	queryStartDate   string
	queryEndDate     string
	queryDistanceMin float64
	queryDistanceMax float64
	queryVelocityMin float64
	queryVelocityMax float64
	queryDiameterMin float64
	queryDiameterMax float64
	queryHazardous   bool
	queryLimit       int
	querySortField   string
	querySortOrder   string
	queryOutfile     string
)

func init() {
	flags := queryCmd.Flags()
	flags.StringVar(&queryDate, "date", "", "only approaches on this date (YYYY-MM-DD)")
	flags.StringVar(&queryStartDate, "start-date", "", "only approaches on or after this date")
	flags.StringVar(&queryEndDate, "end-date", "", "only approaches on or before this date")
	flags.Float64Var(&queryDistanceMin, "distance-min", 0, "minimum approach distance in au")
	flags.Float64Var(&queryDistanceMax, "distance-max", 0, "maximum approach distance in au")
	flags.Float64Var(&queryVelocityMin, "velocity-min", 0, "minimum relative velocity in km/s")
	flags.Float64Var(&queryVelocityMax, "velocity-max", 0, "maximum relative velocity in km/s")
	flags.Float64Var(&queryDiameterMin, "diameter-min", 0, "minimum NEO diameter in km")
	flags.Float64Var(&queryDiameterMax, "diameter-max", 0, "maximum NEO diameter in km")
	flags.BoolVar(&queryHazardous, "hazardous", false, "true for only hazardous NEOs, false for only non-hazardous")
	flags.IntVar(&queryLimit, "limit", 0, "maximum number of results, 0 for no limit")
	flags.StringVar(&querySortField, "sort", "", "order results by date, distance, velocity, or diameter")
	flags.StringVar(&querySortOrder, "order", "asc", "sort direction, asc or desc")
	flags.StringVar(&queryOutfile, "outfile", "", "write results to this .csv, .json, or .xlsx file")
}

func runQuery(cmd *cobra.Command, _ []string) error {
	criteria, err := criteriaFromFlags(cmd)
	if err != nil {
		return err
	}
	sort, err := sortFromFlags()
	if err != nil {
		return err
	}

	if result := validator.NewCriteriaValidator().ValidateCriteria(criteria); !result.IsValid {
		messages := make([]string, 0, len(result.Errors))
		for _, verr := range result.Errors {
			messages = append(messages, verr.Error())
		}
		return fmt.Errorf("invalid criteria: %s", strings.Join(messages, "; "))
	}

	db, cfg, err := loadDatabase(cmd.Context())
	if err != nil {
		return err
	}
	stream := db.Query(cmd.Context(), criteria, sort, queryLimit)

	if queryOutfile != "" {
		exporter := export.NewService(export.WithMaxRows(cfg.Export.MaxRows))
		rows, err := exporter.WriteFile(queryOutfile, stream)
		if err != nil {
			return err
		}
		fmt.Printf("Wrote %d approaches to %s\n", rows, queryOutfile)
		return nil
	}

	// Without an outfile, cap the printed preview unless a limit was given.
	if !cmd.Flags().Changed("limit") {
		stream = query.Limited(stream, 10)
	}
	printed := 0
	for stream.Next() {
		fmt.Println(stream.Value())
		printed++
	}
	if err := stream.Err(); err != nil {
		return err
	}
	if printed == 0 {
		fmt.Println("No matching approaches.")
	}
	return nil
}

func criteriaFromFlags(cmd *cobra.Command) (domain.Criteria, error) {
	var criteria domain.Criteria
	var err error

	if criteria.Date, err = dateFlag(cmd, "date", queryDate); err != nil {
		return criteria, err
	}
	if criteria.StartDate, err = dateFlag(cmd, "start-date", queryStartDate); err != nil {
		return criteria, err
	}
	if criteria.EndDate, err = dateFlag(cmd, "end-date", queryEndDate); err != nil {
		return criteria, err
	}

	criteria.DistanceMin = floatFlag(cmd, "distance-min", queryDistanceMin)
	criteria.DistanceMax = floatFlag(cmd, "distance-max", queryDistanceMax)
	criteria.VelocityMin = floatFlag(cmd, "velocity-min", queryVelocityMin)
	criteria.VelocityMax = floatFlag(cmd, "velocity-max", queryVelocityMax)
	criteria.DiameterMin = floatFlag(cmd, "diameter-min", queryDiameterMin)
	criteria.DiameterMax = floatFlag(cmd, "diameter-max", queryDiameterMax)

	// Tri-state: an untouched flag applies no hazardousness filter at all.
	if cmd.Flags().Changed("hazardous") {
		hazardous := queryHazardous
		criteria.Hazardous = &hazardous
	}
	return criteria, nil
}

func dateFlag(cmd *cobra.Command, name, value string) (*time.Time, error) {
	if !cmd.Flags().Changed(name) {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, strings.TrimSpace(value))
	if err != nil {
		return nil, fmt.Errorf("--%s must be a date in %s form", name, dateLayout)
	}
	return &t, nil
}

func floatFlag(cmd *cobra.Command, name string, value float64) *float64 {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &value
}

func sortFromFlags() (domain.Sort, error) {
	field := strings.ToLower(strings.TrimSpace(querySortField))
	if field == "" {
		return domain.Sort{}, nil
	}
	switch domain.SortField(field) {
	case domain.SortFieldDate, domain.SortFieldDistance, domain.SortFieldVelocity, domain.SortFieldDiameter:
	default:
		return domain.Sort{}, fmt.Errorf("--sort must be one of date, distance, velocity, diameter")
	}

	direction := domain.SortDirectionAsc
	switch strings.ToLower(strings.TrimSpace(querySortOrder)) {
	case "", "asc":
	case "desc":
		direction = domain.SortDirectionDesc
	default:
		return domain.Sort{}, fmt.Errorf("--order must be asc or desc")
	}
	return domain.Sort{Field: domain.SortField(field), Direction: direction}, nil
}
