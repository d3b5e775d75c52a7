package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/wippyai/propstore"
	"github.com/wippyai/propstore/internal/scene"
	"github.com/wippyai/propstore/notify"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "demo",
		Short: "Write scene properties and publish them to the cached region",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd.OutOrStdout())
		},
	})
}

// probe reads one property of one instance from both regions.
type probe struct {
	instance string
	property *propstore.Descriptor
	live     func() (any, error)
	cached   func() (any, error)
}

func fixedProbe[V any](instance string, h propstore.Holder, p propstore.Fixed[V]) probe {
	return probe{
		instance: instance,
		property: p.Descriptor(),
		live: func() (any, error) {
			v, err := p.Get(h)
			return v, err
		},
		cached: func() (any, error) {
			v, err := p.Cached(h)
			return v, err
		},
	}
}

func referenceProbe[V any](instance string, h propstore.Holder, p propstore.Reference[V]) probe {
	return probe{
		instance: instance,
		property: p.Descriptor(),
		live: func() (any, error) {
			v, err := p.Get(h)
			return v, err
		},
		cached: func() (any, error) {
			v, err := p.Cached(h)
			return v, err
		},
	}
}

func renderProbes(probes []probe) (string, error) {
	rows := make([][]string, 0, len(probes))
	for _, p := range probes {
		live, err := p.live()
		if err != nil {
			return "", err
		}
		cached, err := p.cached()
		if err != nil {
			return "", err
		}
		mark := ""
		if fmt.Sprint(live) != fmt.Sprint(cached) {
			mark = "*"
		}
		rows = append(rows, []string{p.instance, p.property.String(), fmt.Sprint(live), fmt.Sprint(cached), mark})
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers("instance", "property", "live", "cached", "").
		Rows(rows...)
	return t.String() + "\n", nil
}

func runDemo(w io.Writer) error {
	c := notify.NewCollector()
	restore := c.Install()
	defer restore()

	crate, err := scene.NewMesh("crate", 24, &scene.Material{Name: "wood", Albedo: scene.Color{0.6, 0.4, 0.2, 1}})
	if err != nil {
		return err
	}
	sun, err := scene.NewLight("sun", 3.5)
	if err != nil {
		return err
	}
	if err := scene.NodeParent.Set(crate, &sun.Node); err != nil {
		return err
	}

	probes := []probe{
		referenceProbe("crate", crate, scene.NodeName),
		fixedProbe("crate", crate, scene.NodeVisible),
		fixedProbe("crate", crate, scene.NodePosition),
		fixedProbe("crate", crate, scene.MeshVertexCount),
		referenceProbe("sun", sun, scene.NodeName),
		fixedProbe("sun", sun, scene.LightIntensity),
	}

	step := func(title string) error {
		out, err := renderProbes(probes)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s (%d pending)\n%s", titleStyle.Render(title), c.Len(), out)
		return nil
	}

	if err := step("after construction"); err != nil {
		return err
	}

	n, err := c.Publish()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "published %d updates\n\n", n)

	if err := scene.NodePosition.Set(crate, scene.Vec3{1, 2, 3}); err != nil {
		return err
	}
	if err := scene.LightIntensity.Set(sun, 5); err != nil {
		return err
	}
	if err := step("after moving the crate and brightening the sun"); err != nil {
		return err
	}

	n, err = c.Publish()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "published %d updates\n\n", n)
	return step("after second publish")
}
