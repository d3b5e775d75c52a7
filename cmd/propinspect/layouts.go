package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/wippyai/propstore"
	"github.com/wippyai/propstore/internal/scene"
	"github.com/wippyai/propstore/layout"
)

var (
	interactive  bool
	layoutFormat string
)

func init() {
	cmd := newLayoutsCmd()
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Browse layouts in a TUI")
	cmd.Flags().StringVarP(&layoutFormat, "format", "f", "table", "Output format: table or toml")
	rootCmd.AddCommand(cmd)
}

func newLayoutsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "layouts",
		Short: "Show the packed layout of every scene type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			layouts, err := sceneLayouts()
			if err != nil {
				return err
			}
			if interactive {
				if !term.IsTerminal(int(os.Stdout.Fd())) {
					return fmt.Errorf("interactive mode needs a terminal")
				}
				return runInteractive(layouts)
			}
			switch layoutFormat {
			case "table":
				fmt.Fprint(cmd.OutOrStdout(), renderLayouts(layouts))
				return nil
			case "toml":
				return encodeLayouts(cmd.OutOrStdout(), layouts)
			default:
				return fmt.Errorf("unknown format %q", layoutFormat)
			}
		},
	}
}

func sceneLayouts() ([]*layout.TypeLayout, error) {
	types := scene.Types()
	out := make([]*layout.TypeLayout, 0, len(types))
	for _, t := range types {
		l, err := propstore.Registry().GetOrCreate(t, true)
		if err != nil {
			return nil, fmt.Errorf("layout %s: %w", t, err)
		}
		out = append(out, l)
	}
	return out, nil
}

var descriptorHeaders = []string{"#", "name", "owner", "kind", "type", "offset", "size"}

// descriptorRows lists every descriptor visible on l, ancestors first.
// Offsets of reference properties are slot indices.
func descriptorRows(l *layout.TypeLayout) [][]string {
	descs := l.AllDescriptors()
	rows := make([][]string, 0, len(descs))
	for _, d := range descs {
		kind, size := "ref", "-"
		if d.IsFixedSize() {
			kind, size = "fixed", strconv.Itoa(d.Size())
		}
		offset := "-"
		if off, ok := d.Offset(); ok {
			offset = strconv.Itoa(off)
		}
		rows = append(rows, []string{
			strconv.Itoa(d.HierarchicalIndex()),
			d.Name(),
			d.Owner().Name(),
			kind,
			d.ValueType().String(),
			offset,
			size,
		})
	}
	return rows
}

func layoutSummary(l *layout.TypeLayout) string {
	parent := "-"
	if p := l.Parent(); p != nil {
		parent = p.Owner().Name()
	}
	return fmt.Sprintf("parent %s • depth %d • %d fixed bytes • %d slots",
		parent, l.Depth(), l.FixedBytes(), l.SlotCount())
}

func renderLayouts(layouts []*layout.TypeLayout) string {
	var b strings.Builder
	for i, l := range layouts {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(titleStyle.Render(l.Owner().Name()))
		b.WriteString(" ")
		b.WriteString(helpStyle.Render(layoutSummary(l)))
		b.WriteString("\n")

		t := table.New().
			Border(lipgloss.NormalBorder()).
			BorderStyle(borderStyle).
			Headers(descriptorHeaders...).
			Rows(descriptorRows(l)...)
		b.WriteString(t.String())
		b.WriteString("\n")
	}
	return b.String()
}

type layoutDoc struct {
	Layouts []layoutEntry `toml:"layout"`
}

type layoutEntry struct {
	Type       string          `toml:"type"`
	Parent     string          `toml:"parent,omitempty"`
	Depth      int             `toml:"depth"`
	FixedBytes int             `toml:"fixed_bytes"`
	SlotCount  int             `toml:"slot_count"`
	Properties []propertyEntry `toml:"property"`
}

type propertyEntry struct {
	Name              string `toml:"name"`
	Owner             string `toml:"owner"`
	Fixed             bool   `toml:"fixed"`
	ValueType         string `toml:"value_type"`
	Offset            int    `toml:"offset"`
	Size              int    `toml:"size,omitempty"`
	GlobalIndex       uint64 `toml:"global_index"`
	HierarchicalIndex int    `toml:"hierarchical_index"`
	LocalIndex        int    `toml:"local_index"`
}

func layoutDocOf(layouts []*layout.TypeLayout) layoutDoc {
	doc := layoutDoc{Layouts: make([]layoutEntry, 0, len(layouts))}
	for _, l := range layouts {
		e := layoutEntry{
			Type:       l.String(),
			Depth:      l.Depth(),
			FixedBytes: l.FixedBytes(),
			SlotCount:  l.SlotCount(),
		}
		if p := l.Parent(); p != nil {
			e.Parent = p.String()
		}
		for _, d := range l.AllDescriptors() {
			off, _ := d.Offset()
			e.Properties = append(e.Properties, propertyEntry{
				Name:              d.Name(),
				Owner:             d.Owner().String(),
				Fixed:             d.IsFixedSize(),
				ValueType:         d.ValueType().String(),
				Offset:            off,
				Size:              d.Size(),
				GlobalIndex:       d.GlobalIndex(),
				HierarchicalIndex: d.HierarchicalIndex(),
				LocalIndex:        d.LocalIndex(),
			})
		}
		doc.Layouts = append(doc.Layouts, e)
	}
	return doc
}

func encodeLayouts(w io.Writer, layouts []*layout.TypeLayout) error {
	if err := toml.NewEncoder(w).Encode(layoutDocOf(layouts)); err != nil {
		return fmt.Errorf("encode layouts: %w", err)
	}
	return nil
}
