/*
 * SPDX-FileCopyrightText: © Chirp Authors
 * SPDX-License-Identifier: Apache-2.0
 */

// Package cmd is the chirp CLI.
package cmd

import (
	goflag "flag"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/chirp-social/chirp/chirp/cmd/serve"
	"github.com/chirp-social/chirp/graphql/schema"
	"github.com/chirp-social/chirp/x"
)

// RootCmd is the root of the chirp command tree.
var RootCmd = &cobra.Command{
	Use:   "chirp",
	Short: "Chirp is a small social media GraphQL backend",
	Long: "Chirp serves a GraphQL API for users, tweets, likes, comments and " +
		"follows, backed by badger and gated by a permission rule table.",
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	initCmds()

	RootCmd.SilenceUsage = true
	x.Check(RootCmd.Execute())
}

var version = "dev"

func initCmds() {
	// glog flags (-v, -logtostderr, ...) hang off the standard flag set.
	RootCmd.PersistentFlags().AddGoFlagSet(goflag.CommandLine)

	RootCmd.AddCommand(&cobra.Command{
		Use:   "schema",
		Short: "Print the GraphQL SDL served by chirp",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(strings.TrimSpace(schema.ChirpSchema))
		},
	})
	RootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the chirp version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("chirp %s\n", version)
		},
	})

	subcommands := []*x.SubCommand{&serve.Serve}
	for _, sc := range subcommands {
		RootCmd.AddCommand(sc.Cmd)
		sc.Conf = viper.New()
		x.Check(sc.Conf.BindPFlags(sc.Cmd.Flags()))
		sc.Conf.SetEnvPrefix(sc.EnvPrefix)
		sc.Conf.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
		sc.Conf.AutomaticEnv()
	}
}
