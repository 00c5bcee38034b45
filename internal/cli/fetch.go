package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/samvad-hq/backtype-go/pkg/backtype"
	"github.com/spf13/cobra"
)

func newFetchCmd(opts *rootOptions) *cobra.Command {
	var (
		params  []string
		publish bool
		pretty  bool
	)

	cmd := &cobra.Command{
		Use:   "fetch <endpoint> <identifier>",
		Short: "Call an endpoint and write the raw response body to stdout",
		Long: "Call an endpoint and write the raw response body to stdout.\n\n" +
			"Endpoints: " + strings.Join(endpointNames(), ", "),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			endpoint, err := backtype.ParseEndpoint(args[0])
			if err != nil {
				return err
			}
			p, err := parseParams(params)
			if err != nil {
				return err
			}

			a, err := opts.open(cmd, true)
			if err != nil {
				return err
			}
			defer closeApp(a)

			payload, fetchErr := a.Fetch(cmd.Context(), endpoint, args[1], p, publish)
			if payload == nil {
				return fetchErr
			}
			if err := writePayload(cmd, payload, pretty); err != nil {
				return err
			}
			return fetchErr
		},
	}

	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "Optional parameter as name=value (repeatable, order preserved)")
	cmd.Flags().BoolVar(&publish, "publish", false, "Forward the payload to the publishers in PUBLISHERS_FILE")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent JSON responses")

	return cmd
}

func parseParams(raw []string) (*backtype.Params, error) {
	p := backtype.NewParams()
	for _, kv := range raw {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("%w: --param %q must be name=value", backtype.ErrInvalidParameter, kv)
		}
		p.Set(strings.TrimSpace(name), value)
	}
	return p, nil
}

func writePayload(cmd *cobra.Command, payload backtype.Payload, pretty bool) error {
	out := cmd.OutOrStdout()
	if pretty && json.Valid(payload) {
		var buf bytes.Buffer
		if err := json.Indent(&buf, payload, "", "  "); err != nil {
			return fmt.Errorf("indent payload: %w", err)
		}
		buf.WriteByte('\n')
		_, err := out.Write(buf.Bytes())
		return err
	}
	_, err := out.Write(payload)
	return err
}

func endpointNames() []string {
	eps := backtype.Endpoints()
	names := make([]string, 0, len(eps))
	for _, e := range eps {
		names = append(names, e.String())
	}
	return names
}
