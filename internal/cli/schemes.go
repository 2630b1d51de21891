package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sunburst/pkg/render/sunburst/styles"
)

// schemesCommand creates the schemes command, which lists the color schemes
// a snapshot can select through its arcColors style.
func (c *CLI) schemesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schemes [name...]",
		Short: "List the arc color schemes",
		Long: `List the color schemes the arcColors style can select, with a swatch of
each color. Names may be given with or without the "scheme" prefix.`,
		Example: `  sunburst schemes
  sunburst schemes tableau10 set2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			names := styles.SchemeNames()
			if len(args) > 0 {
				names = names[:0]
				for _, arg := range args {
					name := strings.TrimPrefix(strings.ToLower(arg), "scheme")
					if _, ok := styles.Schemes[name]; !ok {
						return fmt.Errorf("unknown scheme: %q", arg)
					}
					names = append(names, name)
				}
			}
			for _, name := range names {
				fmt.Println(schemeLine(name))
			}
			return nil
		},
	}
}

// schemeLine renders name followed by one swatch per color.
func schemeLine(name string) string {
	var b strings.Builder
	label := name
	if name == styles.DefaultColorScheme {
		label += " (default)"
	}
	b.WriteString(StyleValue.Render(fmt.Sprintf("%-22s", label)))
	for _, hex := range styles.Schemes[name] {
		b.WriteString(lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("  "))
	}
	return b.String()
}
