package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/vvka-141/dbpool/internal/db/manager"
	"github.com/vvka-141/dbpool/internal/setup"
	"github.com/vvka-141/dbpool/internal/tui"
)

func newPingCmd(flags *globalFlags) *cobra.Command {
	var (
		timeout     time.Duration
		showMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Resolve the URL, open the pool and verify the server responds",
		Long: `Resolves the connection URL, opens a pool of 5 connections exactly as the
library does, pings the server and reports its version.

--metrics prints the resolution and initialization metrics recorded during the run.`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}

			reader := sdkmetric.NewManualReader()
			mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
			defer mp.Shutdown(context.Background()) //nolint:errcheck

			c, err := setup.Build(cfg, setup.Deps{Logger: flags.logger(cmd), MeterProvider: mp})
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			p := tui.NewPrinter(tui.IsColorEnabled())
			out := cmd.OutOrStdout()

			pool, err := c.Cache.GetOrEstablish(ctx, setup.Selector(cfg))
			if showMetrics {
				defer printMetrics(cmd.ErrOrStderr(), p, reader)
			}
			if err != nil {
				fmt.Fprintln(out, p.Failure("pool not established"))
				return err
			}
			defer c.Cache.Close()

			if err := pool.Ping(ctx); err != nil {
				fmt.Fprintln(out, p.Failure("ping failed"))
				return fmt.Errorf("ping %s pool: %w", pool.Driver(), err)
			}

			info, err := manager.New().Describe(ctx, pool)
			if err != nil {
				return err
			}

			fmt.Fprintln(out, p.Success("connected"))
			fmt.Fprintln(out, p.Field("driver", info.Driver))
			fmt.Fprintln(out, p.Field("server", info.Version))
			fmt.Fprintln(out, p.Field("database", info.Database))
			fmt.Fprintln(out, p.Field("user", info.User))
			fmt.Fprintln(out, p.Field("pool", fmt.Sprintf("%d open / %d max", info.Stats.Open, info.Stats.MaxConns)))
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Overall deadline for resolving and connecting")
	cmd.Flags().BoolVar(&showMetrics, "metrics", false, "Print recorded metrics")
	return cmd
}

// printMetrics writes every counter and histogram collected by reader, one
// data point per line.
func printMetrics(w io.Writer, p *tui.Printer, reader *sdkmetric.ManualReader) {
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		fmt.Fprintln(w, p.Warning(fmt.Sprintf("metrics unavailable: %v", err)))
		return
	}

	var lines []string
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					lines = append(lines, fmt.Sprintf("%s{%s} %d", m.Name, attrString(dp.Attributes.ToSlice()), dp.Value))
				}
			case metricdata.Histogram[float64]:
				for _, dp := range data.DataPoints {
					lines = append(lines, fmt.Sprintf("%s{%s} count=%d sum=%.3f%s",
						m.Name, attrString(dp.Attributes.ToSlice()), dp.Count, dp.Sum, m.Unit))
				}
			case metricdata.Gauge[int64]:
				for _, dp := range data.DataPoints {
					lines = append(lines, fmt.Sprintf("%s{%s} %d", m.Name, attrString(dp.Attributes.ToSlice()), dp.Value))
				}
			}
		}
	}
	sort.Strings(lines)

	fmt.Fprintln(w, p.Title("metrics"))
	for _, line := range lines {
		fmt.Fprintln(w, "  "+line)
	}
}

func attrString(kvs []attribute.KeyValue) string {
	parts := make([]string, 0, len(kvs))
	for _, kv := range kvs {
		parts = append(parts, fmt.Sprintf("%s=%s", kv.Key, kv.Value.Emit()))
	}
	return strings.Join(parts, ",")
}
