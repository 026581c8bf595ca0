package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/HendryAvila/apply-wizard/internal/form"
	"github.com/HendryAvila/apply-wizard/internal/pages/apply"
	"github.com/HendryAvila/apply-wizard/internal/pages/assess"
)

var forms = map[string]*form.Definition{
	apply.Name:  apply.Form,
	assess.Name: assess.Form,
}

func graphCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Print the section, task and page outline of a form",
		Long: `Print the section, task and page outline of a form, with each page's
declared links. Fails when a page links to a page its task does not have.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			def, ok := forms[name]
			if !ok {
				return fmt.Errorf("unknown form %q (want %s or %s)", name, apply.Name, assess.Name)
			}
			writeGraph(cmd.OutOrStdout(), def)
			if err := def.CheckLinks(); err != nil {
				return fmt.Errorf("%s form has dangling links:\n%w", def.Name, err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "form", apply.Name, "Form to print (apply or assess)")
	return cmd
}

func writeGraph(w io.Writer, def *form.Definition) {
	fmt.Fprintf(w, "%s\n", def.Name)
	for i, section := range def.Sections {
		fmt.Fprintf(w, "%d. %s\n", i+1, section.Title)
		for _, task := range section.Tasks {
			fmt.Fprintf(w, "   %s (%s)\n", task.Slug, task.Title)
			for _, page := range task.Pages {
				line := "     - " + page.Slug
				if page.Initialize != nil {
					line += " [fetches reference data]"
				}
				if page.InformationRequest != nil {
					line += " [can request information]"
				}
				if len(page.Links) > 0 {
					line += " -> " + strings.Join(page.Links, ", ")
				}
				fmt.Fprintln(w, line)
			}
		}
	}
}
