package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rpattn/neoql/internal/domain"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print one near-Earth object",
	Long: `Look up a single near-Earth object by primary designation or by IAU
name and print it. With --verbose, its close approaches are listed too.`,
	RunE: runInspect,
}

var (
	inspectPdes    string
	inspectName    string
	inspectVerbose bool
)

func init() {
	inspectCmd.Flags().StringVar(&inspectPdes, "pdes", "", "primary designation, e.g. 433")
	inspectCmd.Flags().StringVar(&inspectName, "name", "", "IAU name, e.g. Eros")
	inspectCmd.Flags().BoolVarP(&inspectVerbose, "verbose", "v", false, "also list the object's close approaches")
	inspectCmd.MarkFlagsMutuallyExclusive("pdes", "name")
	inspectCmd.MarkFlagsOneRequired("pdes", "name")
}

func runInspect(cmd *cobra.Command, _ []string) error {
	db, _, err := loadDatabase(cmd.Context())
	if err != nil {
		return err
	}

	var neo *domain.NearEarthObject
	if inspectPdes != "" {
		neo, err = db.NeoByDesignation(cmd.Context(), inspectPdes)
	} else {
		neo, err = db.NeoByName(cmd.Context(), inspectName)
	}
	if err != nil {
		return errors.New("no matching NEOs exist in the database")
	}

	fmt.Println(neo)
	if inspectVerbose {
		for _, approach := range neo.Approaches {
			fmt.Printf("- %s\n", approach)
		}
	}
	return nil
}
