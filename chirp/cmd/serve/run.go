/*
 * SPDX-FileCopyrightText: © Chirp Authors
 * SPDX-License-Identifier: Apache-2.0
 */

// Package serve runs the chirp GraphQL server.
package serve

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/chirp-social/chirp/graphql/authorization"
	"github.com/chirp-social/chirp/graphql/resolve"
	"github.com/chirp-social/chirp/graphql/rules"
	"github.com/chirp-social/chirp/graphql/schema"
	"github.com/chirp-social/chirp/graphql/web"
	"github.com/chirp-social/chirp/store"
	"github.com/chirp-social/chirp/x"
)

// Serve is the sub command invoked for running the server.
var Serve x.SubCommand

func init() {
	Serve.Cmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the chirp GraphQL server",
		Run: func(cmd *cobra.Command, args []string) {
			run()
		},
	}
	Serve.EnvPrefix = "CHIRP"
	registerFlags(Serve.Cmd.Flags())
}

func registerFlags(flag *pflag.FlagSet) {
	flag.String("addr", ":8080", "Address for the server to listen on.")
	flag.String("data-dir", "chirp-data",
		"Directory to store the data in.")
	flag.Bool("in-memory", false,
		"Keep everything in memory. Nothing is persisted across restarts.")
	flag.String("jwt-secret", "",
		"Secret used to sign and verify auth tokens. Required.")
	flag.Int("jwt-expiry-hours", 168,
		"Hours a minted auth token stays valid. 0 means tokens don't expire.")
	flag.Int("reply-depth", 1,
		"Levels of comment replies a single request may expand.")
	flag.Int64("cache-mb", 64,
		"Memory in MB for the store read cache. 0 disables the cache.")
}

func run() {
	secret := Serve.Conf.GetString("jwt-secret")
	if secret == "" {
		x.Fatalf("A jwt secret is required. Set --jwt-secret or CHIRP_JWT_SECRET.")
	}

	s, err := store.Open(store.Options{
		Dir:      Serve.Conf.GetString("data-dir"),
		InMemory: Serve.Conf.GetBool("in-memory"),
		CacheMB:  Serve.Conf.GetInt64("cache-mb"),
	})
	x.Checkf(err, "while opening store")

	sch, err := schema.FromString(schema.ChirpSchema)
	x.Checkf(err, "while loading GraphQL schema")

	auth := &authorization.AuthMeta{
		Secret: []byte(secret),
		Expiry: time.Duration(Serve.Conf.GetInt("jwt-expiry-hours")) * time.Hour,
	}
	fns := &resolve.ResolverFns{
		Store:         s,
		Auth:          auth,
		Rules:         rules.Default(),
		MaxReplyDepth: Serve.Conf.GetInt("reply-depth"),
	}
	resolver := resolve.New(sch, resolve.StdResolverFactory(sch, fns))
	server := web.NewServer(resolver, auth)

	mux := http.NewServeMux()
	mux.Handle("/graphql", server.HTTPHandler())

	addr := Serve.Conf.GetString("addr")
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-shutdown
		glog.Info("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			glog.Errorf("while shutting down server: %v", err)
		}
	}()

	glog.Infof("Serving GraphQL at %s/graphql", addr)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		glog.Errorf("server: %v", err)
	}
	x.Check(s.Close())
}
