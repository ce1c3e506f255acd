package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/recipeplus/internal/settings"
)

func newSettingsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change appearance, colors, image quality and the idle hint",
		Long: `Show or change settings. Keys: ` + strings.Join(settings.Keys, ", ") + `.

Colors are gray, red, orange, yellow, green, blue or purple. The idle
threshold takes a duration ("15s") or a number of seconds; 0 turns the
hint off.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printSettings(c)
		},
	}

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show all settings",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printSettings(c)
		},
	}

	get := &cobra.Command{
		Use:       "get <key>",
		Short:     "Print one setting",
		Args:      cobra.ExactArgs(1),
		ValidArgs: settings.Keys,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := c.app.settings.Get(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(c.app.out, v)
			return nil
		},
	}

	set := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.settings.Set(args[0], args[1]); err != nil {
				return err
			}
			v, _ := c.app.settings.Get(args[0])
			fmt.Fprintf(c.app.out, "%s = %s\n", args[0], v)
			return nil
		},
	}

	reset := &cobra.Command{
		Use:   "reset",
		Short: "Restore the defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.settings.Reset(); err != nil {
				return err
			}
			return printSettings(c)
		},
	}

	path := &cobra.Command{
		Use:   "path",
		Short: "Print the settings file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(c.app.out, c.app.settings.Path())
			return nil
		},
	}

	watch := &cobra.Command{
		Use:   "watch",
		Short: "Print settings each time the file changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cancel := c.app.settings.Subscribe(func(settings.Settings) {
				fmt.Fprintln(c.app.out, "--")
				_ = printSettings(c)
			})
			defer cancel()
			_ = printSettings(c)
			return c.app.settings.Watch(cmd.Context())
		},
	}

	cmd.AddCommand(list, get, set, reset, path, watch)
	return cmd
}

func printSettings(c *cli) error {
	snap := c.app.settings.Snapshot()
	t := c.app.render.Theme()
	for _, k := range settings.Keys {
		v, err := snap.Get(k)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.app.out, "%s %s\n", t.Muted.Render(fmt.Sprintf("%-16s", k)), v)
	}
	return nil
}
