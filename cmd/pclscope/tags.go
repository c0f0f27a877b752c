package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tturner/pclscope/internal/pstream/tags"
	"github.com/tturner/pclscope/internal/report"
)

func newTagsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Browse the built-in language dictionaries",
		Long: `List or search the descriptors the classifier recognises. Catalogs given
with --catalog or listed in the config file are overlaid first, so their
entries show up here exactly as the classifier sees them.`,
	}

	cmd.AddCommand(newTagsListCmd())
	cmd.AddCommand(newTagsSearchCmd())

	return cmd
}

// --- tags list ---

type tagsListFlags struct {
	dialect  string
	kind     string
	catalogs []string
	format   string
}

func newTagsListCmd() *cobra.Command {
	flags := &tagsListFlags{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List dictionary entries",
		Example: `  pclscope tags list --dialect pjl
  pclscope tags list --dialect pclxl --kind xl_attribute
  pclscope tags list --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTagsList(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.dialect, "dialect", "d", "", "Only this language")
	cmd.Flags().StringVar(&flags.kind, "kind", "", "Only this kind (control_code, complex_seq, xl_operator, ...)")
	cmd.Flags().StringSliceVar(&flags.catalogs, "catalog", nil, "YAML catalog to overlay (repeatable)")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "text", "Output format: text or json")

	return cmd
}

func runTagsList(cmd *cobra.Command, flags *tagsListFlags) error {
	dialect, err := tags.ParseDialect(flags.dialect)
	if err != nil {
		return err
	}
	kind := tags.KindUnknown
	if flags.kind != "" {
		if kind, err = tags.ParseKind(flags.kind); err != nil {
			return err
		}
	}
	dict, err := loadDictionary(cmd, flags.catalogs)
	if err != nil {
		return err
	}
	return writeDescriptors(cmd.OutOrStdout(), dict.List(dialect, kind), flags.format)
}

// --- tags search ---

type tagsSearchFlags struct {
	catalogs []string
	format   string
}

func newTagsSearchCmd() *cobra.Command {
	flags := &tagsSearchFlags{}

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search mnemonics, descriptions and sequences",
		Example: `  pclscope tags search orientation
  pclscope tags search "<Esc>&l"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if handleHelpArg(cmd, args) {
				return nil
			}
			if len(args) == 0 {
				return missingFlagError(cmd, "<query>")
			}
			dict, err := loadDictionary(cmd, flags.catalogs)
			if err != nil {
				return err
			}
			return writeDescriptors(cmd.OutOrStdout(), dict.Search(strings.Join(args, " ")), flags.format)
		},
	}

	cmd.Flags().StringSliceVar(&flags.catalogs, "catalog", nil, "YAML catalog to overlay (repeatable)")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "text", "Output format: text or json")

	return cmd
}

func loadDictionary(cmd *cobra.Command, catalogs []string) (*tags.Dictionary, error) {
	env, err := setupEnv(cmd)
	if err != nil {
		return nil, err
	}
	defer env.Close()
	return env.Dictionary(catalogs...)
}

type descriptorJSON struct {
	Dialect     string            `json:"dialect"`
	Kind        string            `json:"kind"`
	Key         string            `json:"key"`
	Mnemonic    string            `json:"mnemonic,omitempty"`
	Description string            `json:"description"`
	Flags       []string          `json:"flags,omitempty"`
	Action      string            `json:"action,omitempty"`
	Values      map[string]string `json:"values,omitempty"`
}

func writeDescriptors(w io.Writer, descs []*tags.Descriptor, format string) error {
	if format == "json" {
		out := make([]descriptorJSON, len(descs))
		for i, d := range descs {
			out[i] = descriptorJSON{
				Dialect:     d.Key.Dialect.String(),
				Kind:        d.Key.Kind.String(),
				Key:         d.Key.String(),
				Mnemonic:    d.Mnemonic,
				Description: d.Description,
				Flags:       d.Flags.Names(),
			}
			if d.Action != tags.ActionNone {
				out[i].Action = d.Action.String()
			}
			if len(d.Values) > 0 {
				out[i].Values = make(map[string]string, len(d.Values))
				for v, name := range d.Values {
					out[i].Values[fmt.Sprint(v)] = name
				}
			}
		}
		return report.WriteJSON(w, out)
	}

	if len(descs) == 0 {
		fmt.Fprintln(w, "No entries found")
		return nil
	}
	fmt.Fprintf(w, "%-10s %-18s %-16s %-10s %s\n", "DIALECT", "KIND", "KEY", "MNEMONIC", "DESCRIPTION")
	fmt.Fprintln(w, strings.Repeat("-", 90))
	for _, d := range descs {
		fmt.Fprintf(w, "%-10s %-18s %-16s %-10s %s\n",
			d.Key.Dialect, d.Key.Kind, d.Key.String(), d.Mnemonic, d.Description)
		if len(d.Values) > 0 {
			vals := make([]int64, 0, len(d.Values))
			for v := range d.Values {
				vals = append(vals, v)
			}
			sort.Slice(vals, func(i, j int) bool { return vals[i] < vals[j] })
			for _, v := range vals {
				fmt.Fprintf(w, "%58s %d = %s\n", "", v, d.Values[v])
			}
		}
	}
	fmt.Fprintf(w, "\n%d entries\n", len(descs))
	return nil
}
