package main

import (
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/gogpu/glfx"
	"github.com/gogpu/glfx/backend"
	"github.com/gogpu/glfx/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
)

func newCapsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "caps",
		Short: "Report the capabilities of a context version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withContext(a.version(), func(b backend.Backend, c *glfx.Context) error {
				return writeReport(cmd.OutOrStdout(), a.cfg.Output, capsReport(b.Name(), c))
			})
		},
	}
}

func capsReport(name string, c *glfx.Context) CapsReport {
	caps := c.Capabilities()
	r := CapsReport{
		Backend:  name,
		Version:  c.Version().String(),
		Features: splitFeatures(c.Features()),
	}
	for _, key := range caps.Keys() {
		since, _ := caps.Introduced(key)
		r.Capabilities = append(r.Capabilities, CapabilityEntry{
			Name:  key,
			Value: caps.Value(key),
			Since: since.String(),
		})
	}
	return r
}

func splitFeatures(f glfx.Feature) []string {
	if f == 0 {
		return nil
	}
	return strings.Split(f.String(), "|")
}

func newVersionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "versions",
		Short: "Check which context versions a backend can host",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := a.checkVersions()
			if err != nil {
				return err
			}
			return writeReport(cmd.OutOrStdout(), a.cfg.Output, r)
		},
	}
}

// checkVersions builds a context for every version in chain order. A
// version the backend rejects is reported with the error.
func (a *app) checkVersions() (VersionsReport, error) {
	var r VersionsReport
	for _, v := range glfx.Versions() {
		entry := VersionEntry{Version: v.String()}
		err := a.withContext(v, func(b backend.Backend, c *glfx.Context) error {
			r.Backend = b.Name()
			entry.Supported = true
			entry.Capabilities = c.Capabilities().Len()
			entry.Features = splitFeatures(c.Features())
			return nil
		})
		var gerr *glfx.GraphicsError
		switch {
		case err == nil:
		case errors.As(err, &gerr):
			entry.Error = gerr.Error()
		default:
			return r, err
		}
		r.Versions = append(r.Versions, entry)
	}
	return r, nil
}

func newSmokeCmd(a *app) *cobra.Command {
	var (
		withMetrics     bool
		objects, frames int
	)
	cmd := &cobra.Command{
		Use:   "smoke",
		Short: "Allocate buffers, leak half of them and reclaim the orphans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			if flags.Changed("objects") {
				a.cfg.Smoke.Objects = objects
			}
			if flags.Changed("frames") {
				a.cfg.Smoke.Frames = frames
			}
			if err := a.cfg.validate(); err != nil {
				return err
			}
			var r SmokeReport
			err := a.withContext(a.version(), func(b backend.Backend, c *glfx.Context) error {
				var err error
				r, err = runSmoke(c, a.cfg.Smoke)
				r.Backend = b.Name()
				if err != nil {
					return err
				}
				if !withMetrics {
					return writeReport(cmd.OutOrStdout(), a.cfg.Output, r)
				}
				return writeMetrics(cmd.OutOrStdout(), c, b.Name())
			})
			return err
		},
	}
	cmd.Flags().IntVar(&objects, "objects", 0, "number of buffers to allocate")
	cmd.Flags().IntVar(&frames, "frames", 0, "frames to run while waiting for orphans")
	cmd.Flags().BoolVar(&withMetrics, "metrics", false, "print the context statistics as Prometheus metrics")
	return cmd
}

// runSmoke allocates cfg.Objects buffers, releases the even ones and
// drops the odd ones, then ends frames until the dropped ids have been
// reclaimed or cfg.Frames frames have passed.
func runSmoke(c *glfx.Context, cfg SmokeConfig) (SmokeReport, error) {
	r := SmokeReport{Version: c.Version().String(), Objects: cfg.Objects}
	payload := make([]byte, 64)
	for i := range cfg.Objects {
		buf := c.NewBuffer()
		if err := buf.SetData(payload, glfx.StaticDraw); err != nil {
			return r, err
		}
		if i%2 == 0 {
			buf.Release()
			r.Released++
			continue
		}
		r.Dropped++
	}

	for r.Frames < cfg.Frames && r.Reclaimed < r.Dropped {
		runtime.GC()
		r.Reclaimed += c.EndFrame()
		r.Frames++
	}
	r.Stats = statsEntry(c.Stats())
	return r, nil
}

// writeMetrics gathers the context statistics through the metrics
// collector and writes them in the Prometheus text format.
func writeMetrics(w io.Writer, c *glfx.Context, backendName string) error {
	reg := prometheus.NewPedanticRegistry()
	collector := metrics.NewCollector(c, metrics.WithConstLabels(prometheus.Labels{"backend": backendName}))
	if err := reg.Register(collector); err != nil {
		return fmt.Errorf("register collector: %w", err)
	}
	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
