package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/eventdeck"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the image-analysis service",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		engine, err := eventdeck.New(
			eventdeck.WithConfig(app.cfg),
			eventdeck.WithLogger(app.logger),
			eventdeck.WithLifecycleHooks(app.hooks()),
		)
		if err != nil {
			return err
		}
		h, err := engine.Analyzer().Health(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if asJSON {
			if err := json.NewEncoder(out).Encode(h); err != nil {
				return err
			}
		} else {
			fmt.Fprintf(out, "status=%s mongodb=%s openai=%s\n", h.Status, h.MongoDB, h.OpenAI)
		}
		if !h.Ready() {
			return errors.New("analysis service is not ready")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
	healthCmd.Flags().Bool("json", false, "Print the health report as JSON")
}
