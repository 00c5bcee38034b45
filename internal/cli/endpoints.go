package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/samvad-hq/backtype-go/pkg/backtype"
	"github.com/spf13/cobra"
)

func newEndpointsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "endpoints",
		Short: "List the supported endpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ENDPOINT\tPATH\tIDENTIFIER")
			for _, e := range backtype.Endpoints() {
				ident := "path"
				if name := e.IdentifierParam(); name != "" {
					ident = "query " + name
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", e, e.PathTemplate(), ident)
			}
			return w.Flush()
		},
	}
}

func newImageURLCmd(opts *rootOptions) *cobra.Command {
	var size string

	cmd := &cobra.Command{
		Use:   "image-url <image-id>",
		Short: "Print the URL of a BackType avatar image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd, false)
			if err != nil {
				return err
			}
			defer closeApp(a)

			u, err := a.Client().ImageURL(args[0], backtype.ImageSize(size))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), u)
			return nil
		},
	}

	cmd.Flags().StringVar(&size, "size", string(backtype.DefaultImageSize), "Image size: m, t, p or o")
	return cmd
}
