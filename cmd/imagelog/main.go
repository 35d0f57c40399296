// Command imagelog writes the stored image path and variant count of every
// product to a JSON report, on disk or in an S3 bucket.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	catalogapp "github.com/grocery/admin/internal/application/catalog"
	"github.com/grocery/admin/internal/infrastructure/config"
	"github.com/grocery/admin/internal/infrastructure/logger"
	"github.com/grocery/admin/internal/infrastructure/storage"
	"github.com/grocery/admin/internal/infrastructure/upstream"
)

const (
	configFlag   = "config"
	outFlag      = "out"
	upstreamFlag = "upstream"
	backendFlag  = "backend"
	dirFlag      = "dir"
)

type options struct {
	configPath string
	out        string
	upstream   string
	backend    string
	dir        string
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := pflag.NewFlagSet("imagelog", pflag.ContinueOnError)
	fs.StringVarP(&opts.configPath, configFlag, "c", "", "config file (default: ./config.toml when present)")
	fs.StringVarP(&opts.out, outFlag, "o", catalogapp.ImageAuditFile, "report name")
	fs.StringVarP(&opts.upstream, upstreamFlag, "u", "", "override upstream.base_url")
	fs.StringVarP(&opts.backend, backendFlag, "b", "", "override storage.backend (file, s3)")
	fs.StringVarP(&opts.dir, dirFlag, "d", "", "override storage.dir")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() > 0 {
		return options{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return opts, nil
}

// apply lays the command line overrides over the loaded configuration
func (o options) apply(cfg *config.Config) {
	if o.upstream != "" {
		cfg.Upstream.BaseURL = o.upstream
	}
	if o.backend != "" {
		cfg.Storage.Backend = o.backend
	}
	if o.dir != "" {
		cfg.Storage.Dir = o.dir
	}
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg, err := config.LoadFile(opts.configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(2)
	}
	opts.apply(cfg)

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logger:", err)
		os.Exit(2)
	}
	defer func() {
		_ = log.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, opts.out, log); err != nil {
		log.Error("Image audit failed", zap.Error(err))
		stop()
		_ = log.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, out string, log *zap.Logger) error {
	client, err := upstream.NewClient(cfg.Upstream, upstream.WithLogger(log))
	if err != nil {
		return err
	}
	sink, err := storage.NewSink(ctx, cfg.Storage, log)
	if err != nil {
		return err
	}

	auditor := catalogapp.NewImageAuditor(upstream.NewProductRepository(client), sink, log)
	location, n, err := auditor.Run(ctx, out)
	if err != nil {
		return err
	}
	fmt.Printf("Saved %d products to %s\n", n, location)
	return nil
}
