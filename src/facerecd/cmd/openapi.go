package cmd

import (
	"fmt"
	"os"

	"github.com/q-controller/facerecd/src/facerecd/cmd/utils"
	"github.com/spf13/cobra"
)

var openapiCmd = &cobra.Command{
	Use:   "openapi",
	Short: "Prints the OpenAPI document served at /openapi.yaml",
	RunE: func(cmd *cobra.Command, args []string) error {
		specs, specsErr := utils.GenerateOpenAPISpecs()
		if specsErr != nil {
			return fmt.Errorf("failed to generate OpenAPI specs: %w", specsErr)
		}

		output, outputErr := cmd.Flags().GetString("output")
		if outputErr != nil {
			return fmt.Errorf("failed to get output: %w", outputErr)
		}
		if output != "" {
			return os.WriteFile(output, []byte(specs), 0644)
		}

		_, err := fmt.Fprint(cmd.OutOrStdout(), specs)
		return err
	},
}

func init() {
	rootCmd.AddCommand(openapiCmd)

	openapiCmd.Flags().StringP("output", "o", "", "Write the document to a file instead of stdout")
}
