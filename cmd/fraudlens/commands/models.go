package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var modelsDir string

var modelsCmd = &cobra.Command{
	Use:   "models [provider]",
	Short: "List available models",
	Long: `List the models of every configured provider.

Examples:
  fraudlens models           # List all models
  fraudlens models openai    # List only openai models`,
	Args: cobra.MaximumNArgs(1),
	RunE: runModels,
}

func init() {
	modelsCmd.Flags().StringVar(&modelsDir, "directory", "", "Working directory")
}

func runModels(cmd *cobra.Command, args []string) error {
	workDir, err := GetWorkDir(modelsDir)
	if err != nil {
		return err
	}

	cfg, err := setupRuntime(workDir)
	if err != nil {
		return err
	}

	registry, err := buildRegistry(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	var providerFilter string
	if len(args) > 0 {
		providerFilter = args[0]
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PROVIDER\tMODEL\tNAME\t")

	for _, model := range registry.AllModels() {
		if providerFilter != "" && model.ProviderID != providerFilter {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t\n", model.ProviderID, model.ID, model.Name)
	}

	return w.Flush()
}
