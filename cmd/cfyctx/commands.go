package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/cloudify-context/internal/app"
	"github.com/jsamuelsen/cloudify-context/internal/ports"
)

func newShowCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "show RECORD",
		Short: "Show a record of the current context as JSON",
		Long: `Show a record of the current context as JSON.

Records: blueprint, deployment, instance, node, all.
instance and node are only available in operation and relationship
contexts; a relationship context shows both the source and the target.`,
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: app.Records,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := c.service.Show(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			return printJSON(cmd.OutOrStdout(), v)
		},
	}
}

func newGetResourceCmd(c *cli) *cobra.Command {
	var fromManager bool

	cmd := &cobra.Command{
		Use:   "get-resource PATH",
		Short: "Write a resource to stdout",
		Long: `Write a resource to stdout.

The path is looked up in the deployment's resource folder first and in the
blueprint's folder when the deployment has no copy. With --manager the path
is relative to the file server root instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := c.service.GetResource(cmd.Context(), args[0], fromManager)
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().BoolVar(&fromManager, "manager", false, "resolve PATH against the file server root")

	return cmd
}

func newDownloadResourceCmd(c *cli) *cobra.Command {
	var fromManager bool

	cmd := &cobra.Command{
		Use:   "download-resource PATH [TARGET]",
		Short: "Save a resource to a file and print its path",
		Long: `Save a resource to TARGET, or to a new temporary file when TARGET is
omitted, and print the path written. Lookup follows get-resource.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var target string
			if len(args) == 2 {
				target = args[1]
			}

			path, err := c.service.DownloadResource(cmd.Context(), args[0], target, fromManager)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		},
	}

	cmd.Flags().BoolVar(&fromManager, "manager", false, "resolve PATH against the file server root")

	return cmd
}

func newCheckCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check that the manager is reachable with the context credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := c.service.Check(cmd.Context())
			if err != nil {
				return err
			}

			if err := printJSON(cmd.OutOrStdout(), result); err != nil {
				return err
			}

			if result.Status != ports.HealthStatusHealthy {
				return fmt.Errorf("%w: %s", errUnhealthy, strings.Join(result.Failed(), ", "))
			}

			return nil
		},
	}
}
