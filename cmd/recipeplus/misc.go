package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSeedCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Add a few sample recipes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := c.app.catalog.Seed(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(c.app.out, "Added %d sample recipe(s)\n", n)
			return nil
		},
	}
}

func newEraseCmd(c *cli) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "erase",
		Short: "Delete every recipe and section",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("erase deletes all recipes; pass --yes to confirm")
			}
			if err := c.app.catalog.EraseAll(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(c.app.out, "All recipes erased.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm")
	return cmd
}
