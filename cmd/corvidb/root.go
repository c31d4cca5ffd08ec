package main

import (
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/corvidb/corvidb/db"
	"github.com/corvidb/corvidb/logging"
)

type rootOptions struct {
	dataDir     string
	blockSize   int
	poolSize    int
	maxPinWait  time.Duration
	lockWait    time.Duration
	prettyLog   bool
	metricsAddr string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "corvidb",
		Short:         "corvidb is a small relational database engine used for teaching",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.PersistentFlags().StringVar(&opts.dataDir, "dir", "./corvidb-data", "database directory")
	root.PersistentFlags().IntVar(&opts.blockSize, "block-size", 400, "page size in bytes")
	root.PersistentFlags().IntVar(&opts.poolSize, "pool-size", 8, "buffer pool size in pages")
	root.PersistentFlags().DurationVar(&opts.maxPinWait, "max-pin-wait", 10*time.Second, "max wait for a free buffer")
	root.PersistentFlags().DurationVar(&opts.lockWait, "lock-wait", 10*time.Second, "max wait for a lock")
	root.PersistentFlags().BoolVar(&opts.prettyLog, "pretty-log", false, "use a human-readable console log instead of JSON")
	root.PersistentFlags().StringVar(&opts.metricsAddr, "metrics-addr", "", "address to serve Prometheus metrics on, empty disables it")

	root.AddCommand(newServeCommand(opts))
	root.AddCommand(newExecCommand(opts))

	return root
}

func (o *rootOptions) openDB() (*db.DB, zerolog.Logger, error) {
	log := logging.New("corvidb", os.Stderr, o.prettyLog)
	reg := o.metricsRegisterer()

	d, err := db.NewDB(o.dataDir, db.Config{
		BlockSize:      o.blockSize,
		BufferPoolSize: o.poolSize,
		MaxPinWait:     o.maxPinWait,
		LockWait:       o.lockWait,
		Registerer:     reg,
		Logger:         log,
	})
	return d, log, err
}

// metricsRegisterer starts an HTTP server exposing /metrics when
// metricsAddr is set, returning the registry it serves from.
func (o *rootOptions) metricsRegisterer() prometheus.Registerer {
	if o.metricsAddr == "" {
		return nil
	}
	reg := prometheus.NewRegistry()
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	go func() {
		_ = http.ListenAndServe(o.metricsAddr, mux)
	}()
	return reg
}
