// cmd/griprelay/main.go
package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tamzrod/grip-relay/internal/link"
)

const appName = "griprelay"

var (
	Version   = "0.1.0"
	BuildTime = "dev"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var o options

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Relay hand gestures to a serial peripheral",
		Long: `griprelay reads hand observations from a tracker process, encodes the
raised fingers as a 6-byte frame ($ followed by five 0/1 digits) and writes
each changed frame to a serial peripheral such as a robotic hand controller.

Without a reachable peripheral it keeps running in visuals-only mode.
Press q then Enter, or Ctrl-C, to stop.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, &o)
		},
	}
	bindRunFlags(cmd, &o)

	var runOpts options
	runCmd := &cobra.Command{
		Use:          "run",
		Short:        "Run the relay (default)",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, &runOpts)
		},
	}
	bindRunFlags(runCmd, &runOpts)

	cmd.AddCommand(runCmd, portsCmd(), &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}

func portsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ports",
		Short: "List serial ports on this host",
		RunE: func(cmd *cobra.Command, args []string) error {
			ports, err := link.Ports()
			if err != nil {
				return fmt.Errorf("list ports: %w", err)
			}
			if len(ports) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no serial ports found")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "PORT\tUSB\tVID:PID\tSERIAL\tPRODUCT")
			for _, p := range ports {
				usb, ids := "no", "-"
				if p.IsUSB {
					usb, ids = "yes", p.VID+":"+p.PID
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.Name, usb, ids, dash(p.SerialNumber), dash(p.Product))
			}
			return tw.Flush()
		},
	}
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
