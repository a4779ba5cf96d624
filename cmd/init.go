package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/elidoras/datacore/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize datacore configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure sources, embedding backend and search behavior, and writes a .datacore.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.RunWizard(cfgFile)
		if err != nil {
			return err
		}
		fmt.Printf("Wrote %s (project %q). Next: put documents under %s and run `datacore ingest`.\n",
			cfgFile, cfg.Project, cfg.DataRoot)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
