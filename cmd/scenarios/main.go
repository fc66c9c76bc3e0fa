package main

import (
	"os"

	"github.com/spf13/cobra"
)

type globalFlags struct {
	configPath string
	debug      bool
}

func main() {
	var g globalFlags

	rootCmd := &cobra.Command{
		Use:          "scenarios",
		Short:        "Prosumer scenario generator for multi-aggregator market studies",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "YAML configuration file (defaults apply when empty)")
	rootCmd.PersistentFlags().BoolVar(&g.debug, "debug", false, "verbose development logging")

	rootCmd.AddCommand(generateCmd(&g))
	rootCmd.AddCommand(serveCmd(&g))
	rootCmd.AddCommand(pricesCmd(&g))
	rootCmd.AddCommand(nodesCmd(&g))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func generateCmd(g *globalFlags) *cobra.Command {
	var seed uint64
	var quiet bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Build every configured scenario and write the aggregator statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var s *uint64
			if cmd.Flags().Changed("seed") {
				s = &seed
			}
			return runGenerate(cmd.Context(), *g, s, !quiet)
		},
	}

	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed for prosumer sampling")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "hide the progress bar")
	return cmd
}

func serveCmd(g *globalFlags) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve scenario sets over WebSocket with Prometheus metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), *g, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}

func pricesCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "prices",
		Short: "Print the competitive offer and bid price curves of the network",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runPrices(*g)
		},
	}
}

func nodesCmd(g *globalFlags) *cobra.Command {
	var aggregator int

	cmd := &cobra.Command{
		Use:   "nodes",
		Short: "List the demand aggregators and the nodes they control",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var id *int
			if cmd.Flags().Changed("aggregator") {
				id = &aggregator
			}
			return runNodes(*g, id)
		},
	}

	cmd.Flags().IntVarP(&aggregator, "aggregator", "a", 0, "only list the nodes of this aggregator")
	return cmd
}
