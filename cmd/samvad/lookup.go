package main

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ent0n29/samvad/internal/app"
	"github.com/ent0n29/samvad/internal/extract"
	"github.com/ent0n29/samvad/internal/taxonomy"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [location text]",
	Short: "Resolve an area or ward/zone mention to a location",
	Example: `  samvad resolve alkapuri
  samvad resolve "near gotri lake"
  samvad resolve "ward no 9"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tax, err := app.LoadTaxonomy(cfg)
		if err != nil {
			return err
		}
		d := app.NewResolver(cfg, tax).Resolve(strings.Join(args, " "))
		return printJSON(cmd, d)
	},
}

var detectCmd = &cobra.Command{
	Use:   "detect [utterance]",
	Short: "Detect language, complaint category and sub-category",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tax, err := app.LoadTaxonomy(cfg)
		if err != nil {
			return err
		}
		text := strings.Join(args, " ")
		d := extract.Detect(tax, text)
		return printJSON(cmd, struct {
			extract.Detection
			Language taxonomy.Language `json:"language"`
			Code     string            `json:"code"`
			Priority taxonomy.Priority `json:"priority"`
		}{
			Detection: d,
			Language:  extract.DetectLanguage(text),
			Code:      tax.Code(d.Category),
			Priority:  tax.Priority(d.Category, d.SubCategory),
		})
	},
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
