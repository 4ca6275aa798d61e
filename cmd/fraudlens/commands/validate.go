package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fraudlens-ai/fraudlens/internal/provider"
)

var validateDir string

var validateCmd = &cobra.Command{
	Use:   "validate [provider]",
	Short: "Check provider connectivity and credentials",
	Long: `Run a connectivity check against every configured provider, or a
single named one.

Examples:
  fraudlens validate           # Check all configured providers
  fraudlens validate openai    # Check only the openai provider

Exits non-zero when any checked provider fails.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateDir, "directory", "", "Working directory")
}

func runValidate(cmd *cobra.Command, args []string) error {
	workDir, err := GetWorkDir(validateDir)
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

	providers := registry.List()
	if len(args) > 0 {
		p, err := registry.Get(args[0])
		if err != nil {
			return err
		}
		providers = []provider.Provider{p}
	}
	if len(providers) == 0 {
		return fmt.Errorf("no providers configured")
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PROVIDER\tSTATUS\tELAPSED\tDETAIL")

	failed := 0
	for _, p := range providers {
		result := p.Validate(cmd.Context())
		status := "ok"
		if !result.OK {
			status = "failed"
			failed++
		}
		fmt.Fprintf(w, "%s\t%s\t%dms\t%s\t\n", result.Provider, status, result.ElapsedMS, result.Detail)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d providers failed validation", failed, len(providers))
	}
	return nil
}
