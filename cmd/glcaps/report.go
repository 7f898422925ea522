package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/gogpu/glfx"
	"gopkg.in/yaml.v3"
)

// CapabilityEntry is one row of a caps report.
type CapabilityEntry struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
	Since string `yaml:"since"`
}

// CapsReport is the output of the caps command.
type CapsReport struct {
	Backend      string            `yaml:"backend"`
	Version      string            `yaml:"version"`
	Features     []string          `yaml:"features"`
	Capabilities []CapabilityEntry `yaml:"capabilities"`
}

// VersionEntry is one checked version.
type VersionEntry struct {
	Version      string   `yaml:"version"`
	Supported    bool     `yaml:"supported"`
	Capabilities int      `yaml:"capabilities,omitempty"`
	Features     []string `yaml:"features,omitempty"`
	Error        string   `yaml:"error,omitempty"`
}

// VersionsReport is the output of the versions command.
type VersionsReport struct {
	Backend  string         `yaml:"backend"`
	Versions []VersionEntry `yaml:"versions"`
}

// KindEntry holds the counters of one object kind.
type KindEntry struct {
	Kind            string `yaml:"kind"`
	Allocations     uint64 `yaml:"allocations"`
	Releases        uint64 `yaml:"releases"`
	OrphansCaptured uint64 `yaml:"orphans_captured"`
	OrphansReleased uint64 `yaml:"orphans_released"`
	OrphansPending  int    `yaml:"orphans_pending"`
	Live            int64  `yaml:"live"`
}

// SmokeReport is the output of the smoke command.
type SmokeReport struct {
	Backend   string      `yaml:"backend"`
	Version   string      `yaml:"version"`
	Objects   int         `yaml:"objects"`
	Released  int         `yaml:"released"`
	Dropped   int         `yaml:"dropped"`
	Reclaimed int         `yaml:"reclaimed"`
	Frames    int         `yaml:"frames"`
	Stats     []KindEntry `yaml:"stats"`
}

// statsEntry lists the kinds that saw any allocation.
func statsEntry(s glfx.Stats) []KindEntry {
	var out []KindEntry
	for k, ks := range s.Kinds {
		if ks.Allocations == 0 {
			continue
		}
		out = append(out, KindEntry{
			Kind:            glfx.ObjectKind(k).String(),
			Allocations:     ks.Allocations,
			Releases:        ks.Releases,
			OrphansCaptured: ks.OrphansCaptured,
			OrphansReleased: ks.OrphansReleased,
			OrphansPending:  ks.OrphansPending,
			Live:            ks.Live(),
		})
	}
	return out
}

// textReport is implemented by reports with a tabular text form.
type textReport interface {
	writeText(tw *tabwriter.Writer)
}

// writeReport writes r as YAML or as aligned text.
func writeReport(w io.Writer, format string, r textReport) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		return enc.Close()
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	r.writeText(tw)
	return tw.Flush()
}

func (r CapsReport) writeText(tw *tabwriter.Writer) {
	fmt.Fprintf(tw, "backend:\t%s\n", r.Backend)
	fmt.Fprintf(tw, "version:\t%s\n", r.Version)
	fmt.Fprintf(tw, "features:\t%s\n\n", joinOrNone(r.Features))
	fmt.Fprintln(tw, "CAPABILITY\tVALUE\tSINCE")
	for _, c := range r.Capabilities {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Name, c.Value, c.Since)
	}
}

func (r VersionsReport) writeText(tw *tabwriter.Writer) {
	fmt.Fprintf(tw, "backend:\t%s\n\n", r.Backend)
	fmt.Fprintln(tw, "VERSION\tSUPPORTED\tCAPABILITIES\tFEATURES")
	for _, v := range r.Versions {
		if !v.Supported {
			fmt.Fprintf(tw, "%s\tno\t-\t%s\n", v.Version, v.Error)
			continue
		}
		fmt.Fprintf(tw, "%s\tyes\t%d\t%s\n", v.Version, v.Capabilities, joinOrNone(v.Features))
	}
}

func (r SmokeReport) writeText(tw *tabwriter.Writer) {
	fmt.Fprintf(tw, "backend:\t%s\n", r.Backend)
	fmt.Fprintf(tw, "version:\t%s\n", r.Version)
	fmt.Fprintf(tw, "objects:\t%d (released %d, dropped %d)\n", r.Objects, r.Released, r.Dropped)
	fmt.Fprintf(tw, "reclaimed:\t%d in %d frames\n\n", r.Reclaimed, r.Frames)
	fmt.Fprintln(tw, "KIND\tALLOC\tRELEASE\tCAPTURED\tRECLAIMED\tPENDING\tLIVE")
	for _, k := range r.Stats {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t%d\n",
			k.Kind, k.Allocations, k.Releases, k.OrphansCaptured, k.OrphansReleased, k.OrphansPending, k.Live)
	}
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
