package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tturner/pclscope/internal/pstream/catalog"
	"github.com/tturner/pclscope/internal/pstream/tags"
)

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Work with YAML dictionary catalogs",
		Long: `Catalogs add or replace dictionary entries, for vendor extensions or
sequences the built-in tables lack. They are overlaid with --catalog or the
analysis.catalogs list in the config file.`,
	}

	cmd.AddCommand(newCatalogValidateCmd())
	cmd.AddCommand(newCatalogShowCmd())
	cmd.AddCommand(newCatalogInitCmd())

	return cmd
}

// resolveCatalog accepts a path or a bare name found under catalogs/.
func resolveCatalog(name string) (string, error) {
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return catalog.Find(wd, name)
}

// --- catalog validate ---

func newCatalogValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "validate <file>...",
		Short:   "Check catalogs for errors and collisions with built-in entries",
		Example: "  pclscope catalog validate catalogs/vendor.yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			if handleHelpArg(cmd, args) {
				return nil
			}
			if len(args) == 0 {
				return missingFlagError(cmd, "<file>")
			}
			return runCatalogValidate(cmd, args)
		},
	}
}

func runCatalogValidate(cmd *cobra.Command, files []string) error {
	out := cmd.OutOrStdout()
	failed := 0
	for _, name := range files {
		path, err := resolveCatalog(name)
		if err != nil {
			return err
		}
		file, err := catalog.LoadAndValidate(path)
		if err != nil {
			fmt.Fprintf(out, "FAIL %s: %v\n", path, err)
			failed++
			continue
		}
		result := catalog.Check(file, tags.Default())
		for _, w := range result.Warnings {
			fmt.Fprintf(out, "  warning: %s\n", w)
		}
		for _, e := range result.Errors {
			fmt.Fprintf(out, "  error: %s\n", e)
		}
		if !result.IsValid() {
			fmt.Fprintf(out, "FAIL %s: %d errors\n", path, len(result.Errors))
			failed++
			continue
		}
		fmt.Fprintf(out, "OK   %s: %d entries, %d warnings\n", path, len(file.Entries), len(result.Warnings))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d catalogs invalid", failed, len(files))
	}
	return nil
}

// --- catalog show ---

type catalogShowFlags struct {
	format string
}

func newCatalogShowCmd() *cobra.Command {
	flags := &catalogShowFlags{}

	cmd := &cobra.Command{
		Use:   "show <file>",
		Short: "List the entries of a catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			if handleHelpArg(cmd, args) {
				return nil
			}
			if len(args) == 0 {
				return missingFlagError(cmd, "<file>")
			}
			path, err := resolveCatalog(args[0])
			if err != nil {
				return err
			}
			file, err := catalog.LoadAndValidate(path)
			if err != nil {
				return err
			}
			descs := file.Descriptors()
			ptrs := make([]*tags.Descriptor, len(descs))
			for i := range descs {
				ptrs[i] = &descs[i]
			}
			if flags.format != "json" {
				fmt.Fprintf(cmd.OutOrStdout(), "Catalog %q (version %d)\n\n", file.Name, file.Version)
			}
			return writeDescriptors(cmd.OutOrStdout(), ptrs, flags.format)
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", "text", "Output format: text or json")
	return cmd
}

// --- catalog init ---

func newCatalogInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "init <file>",
		Short:   "Write a starter catalog",
		Example: "  pclscope catalog init catalogs/site.yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			if handleHelpArg(cmd, args) {
				return nil
			}
			if len(args) == 0 {
				return missingFlagError(cmd, "<file>")
			}
			path := args[0]
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			if err := catalog.Save(path, starterCatalog()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
}

func starterCatalog() *catalog.File {
	return &catalog.File{
		Version: 1,
		Name:    "site",
		Entries: []*catalog.Entry{
			{
				Dialect:     tags.DialectPCL,
				Kind:        tags.KindComplexSeq,
				Param:       '&',
				Group:       'y',
				Terminator:  'W',
				Mnemonic:    "SiteData",
				Description: "Site-specific binary block",
				Flags:       tags.FlagBinaryData | tags.FlagNonStandard,
			},
			{
				Dialect:     tags.DialectPJL,
				Kind:        tags.KindPJLCommand,
				Name:        "SITEINFO",
				Mnemonic:    "@PJL SITEINFO",
				Description: "Site job accounting",
				Flags:       tags.FlagNonStandard,
			},
		},
	}
}
