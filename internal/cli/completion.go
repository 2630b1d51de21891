package cli

import (
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sunburst/pkg/pipeline"
	"github.com/matzehuels/sunburst/pkg/render/sunburst/styles"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for sunburst.

Snapshot arguments complete to .json files, --format completes the formats
each command can write, and "sunburst schemes" completes color scheme names.

  $ source <(sunburst completion bash)
  $ sunburst completion zsh > "${fpath[1]}/_sunburst"
  $ sunburst completion fish | source
  PS> sunburst completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}

	return cmd
}

// registerCompletions attaches argument and flag completion to the
// subcommands of root.
func registerCompletions(root *cobra.Command) {
	chartFormats := sortedKeys(pipeline.ValidFormats)
	diagramFormats := sortedKeys(treeFormats)

	for _, cmd := range root.Commands() {
		switch cmd.Name() {
		case "render", "watch", "explore", "tree":
			cmd.ValidArgsFunction = completeSnapshot
		case "schemes":
			cmd.ValidArgsFunction = completeSchemes
		}
		if cmd.Flags().Lookup("format") == nil {
			continue
		}
		formats := chartFormats
		if cmd.Name() == "tree" {
			formats = diagramFormats
		}
		cmd.RegisterFlagCompletionFunc("format", completeFormatList(formats))
	}
}

// completeSnapshot completes the single snapshot argument to JSON files.
func completeSnapshot(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return []string{"json"}, cobra.ShellCompDirectiveFilterFileExt
}

// completeSchemes completes color scheme names not given yet.
func completeSchemes(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	var out []string
	for _, name := range styles.SchemeNames() {
		if !slices.Contains(args, name) {
			out = append(out, name)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

// completeFormatList completes the last entry of a comma-separated format
// list, skipping formats already listed.
func completeFormatList(formats []string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		done, _ := splitLast(toComplete)
		listed := strings.Split(strings.ToLower(done), ",")
		var out []string
		for _, f := range formats {
			if !slices.Contains(listed, f) {
				out = append(out, done+f)
			}
		}
		return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
	}
}

// splitLast splits "svg,js" into "svg," and "js".
func splitLast(list string) (head, last string) {
	i := strings.LastIndex(list, ",")
	return list[:i+1], list[i+1:]
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
