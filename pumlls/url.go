package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marcuscaisey/puml/puml/preview"
)

func (a *app) newURLCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "url [path]",
		Short: "Print the URL of the rendered image of a PlantUML document",
		Long: `Print the URL of the rendered image of a PlantUML document.

The document is read from stdin if path is omitted or is "-".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) > 0 {
				path = args[0]
			}
			_, text, err := readDocument(cmd.InOrStdin(), path)
			if err != nil {
				return err
			}
			url, err := preview.ImageURL(a.cfg.Server, text)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), url)
			return nil
		},
	}
}
