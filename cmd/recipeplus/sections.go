package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSectionsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sections",
		Aliases: []string{"section"},
		Short:   "Manage the sections recipes are filed under",
	}

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List sections",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := sectionNames(cmd, c)
			if err != nil {
				return err
			}
			if len(names) == 0 {
				fmt.Fprintln(c.app.out, "No sections yet.")
				return nil
			}
			t := c.app.render.Theme()
			for _, n := range names {
				fmt.Fprintln(c.app.out, t.Section.Render(n))
			}
			return nil
		},
	}

	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a section",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.app.catalog.AddSection(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(c.app.out, "Added section %q\n", s.Name)
			return nil
		},
	}

	rename := &cobra.Command{
		Use:   "rename <old> <new>",
		Short: "Rename a section and move its recipes along",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.catalog.RenameSection(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(c.app.out, "Renamed %q to %q\n", args[0], args[1])
			return nil
		},
	}

	del := &cobra.Command{
		Use:     "delete <name>",
		Aliases: []string{"rm"},
		Short:   "Delete a section; its recipes become uncategorized",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.catalog.DeleteSection(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(c.app.out, "Deleted section %q\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, add, rename, del)
	return cmd
}
