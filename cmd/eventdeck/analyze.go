package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/aretw0/eventdeck"
	"github.com/aretw0/eventdeck/internal/presentation/tui"
	"github.com/aretw0/eventdeck/pkg/analyzer"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file|url>",
	Short: "Extract event details from a flyer image or a social post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		asJSON, _ := cmd.Flags().GetBool("json")

		engine, err := eventdeck.New(
			eventdeck.WithConfig(app.cfg),
			eventdeck.WithLogger(app.logger),
			eventdeck.WithLifecycleHooks(app.hooks()),
		)
		if err != nil {
			return err
		}

		res, err := analyze(cmd, engine.Analyzer(), args[0], title)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}
		md := tui.AnalysisMarkdown(res, title)
		if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			if rendered, err := tui.NewRenderer()(md); err == nil {
				md = rendered
			}
		}
		_, err = fmt.Fprint(out, md)
		return err
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().String("title", "", "Title hint sent with an image")
	analyzeCmd.Flags().Bool("json", false, "Print the raw result as JSON")
}

func analyze(cmd *cobra.Command, client *analyzer.Client, target, title string) (*analyzer.Result, error) {
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		return client.AnalyzeURL(cmd.Context(), target)
	}
	image, err := analyzer.EncodeImageFile(target)
	if err != nil {
		return nil, err
	}
	return client.AnalyzeImage(cmd.Context(), image, title)
}
