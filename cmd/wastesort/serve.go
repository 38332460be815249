package main

import (
	"github.com/pbaille/wastesort/internal/api"
	"github.com/pbaille/wastesort/internal/centers"
	"github.com/pbaille/wastesort/internal/pipeline"
	"github.com/pbaille/wastesort/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)

			p, err := newPipeline(pipeline.NewMetrics(reg))
			if err != nil {
				return err
			}

			s, err := store.New()
			if err != nil {
				return err
			}
			defer s.Close()

			server := api.New(p, s, centers.Default(), api.Options{
				Addr:     cfg.Server.Addr,
				MaxBytes: cfg.Upload.MaxBytes,
				Logger:   logger,
				Gatherer: reg,
			})
			return server.Run(cmd.Context())
		},
	}

	cmd.Flags().StringP("addr", "a", ":8080", "server address")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	return cmd
}
