package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/termsite/internal/manifest"
	"github.com/oakwood-commons/termsite/pkg/logger"
	"github.com/oakwood-commons/termsite/pkg/settings"
)

var (
	buildExecutables string
	buildOut         string
	buildCheck       bool
)

var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Work with site manifests",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

var manifestBuildCmd = &cobra.Command{
	Use:   "build <pages-dir>",
	Short: "Generate manifest.json from a pages directory",
	Long: `Scan a pages directory and write the manifest that describes it.

  *.txt files become pages; directories become entries with children.
  .order lists names in display order; unlisted names follow alphabetically.
  .mobile-hidden lists top-level names hidden from touch clients.

Executables come from --executables (default: an "executables" directory
next to the pages directory). Every non-.txt file <name>.<ext> is an
executable whose module is <name>; a sibling <name>.txt is its help.
References are written relative to the manifest's directory, so the
pages and executables must live under it.

With --check nothing is written; the command fails when the manifest on disk
differs from what would be generated.`,
	Example: "  termsite manifest build site/pages --out site/manifest.json\n  termsite manifest build site/pages --out site/manifest.json --check\n",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := buildManifest(args[0], buildExecutables, buildOut)
		if err != nil {
			return err
		}
		name := filepath.Base(buildOut)
		hint := fmt.Sprintf("Run: %s manifest build", settings.CliBinaryName)
		if buildCheck {
			existing, err := os.ReadFile(buildOut)
			if err != nil {
				return fmt.Errorf("%s not found. %s", name, hint)
			}
			if !bytes.Equal(existing, data) {
				return fmt.Errorf("%s is out of date. %s", name, hint)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s is up to date.\n", name)
			return err
		}
		if err := os.WriteFile(buildOut, data, 0o644); err != nil { //nolint:gosec // the manifest is served publicly
			return fmt.Errorf("write manifest: %w", err)
		}
		logger.FromContext(rootCtx).V(1).Info("manifest written", logger.ManifestKey, buildOut, "bytes", len(data))
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Generated %s\n", name)
		return err
	},
}

// buildManifest scans pagesDir (and execDir, or the sibling "executables"
// directory when execDir is empty) and encodes the manifest written to out.
func buildManifest(pagesDir, execDir, out string) ([]byte, error) {
	st, err := os.Stat(pagesDir)
	if err != nil {
		return nil, fmt.Errorf("pages directory: %w", err)
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("pages directory: %s is not a directory", pagesDir)
	}
	outDir := filepath.Dir(out)
	pagesPrefix, err := relSlash(outDir, pagesDir)
	if err != nil {
		return nil, err
	}
	opts := manifest.BuildOptions{Pages: os.DirFS(pagesDir), PagesPrefix: pagesPrefix}

	explicit := execDir != ""
	if !explicit {
		execDir = filepath.Join(filepath.Dir(filepath.Clean(pagesDir)), "executables")
	}
	execSt, err := os.Stat(execDir)
	switch {
	case err == nil && execSt.IsDir():
		prefix, err := relSlash(outDir, execDir)
		if err != nil {
			return nil, err
		}
		opts.Executables = os.DirFS(execDir)
		opts.ExecutablesPrefix = prefix
	case !explicit:
		// No sibling executables directory; the site has none.
	case err == nil:
		return nil, fmt.Errorf("executables directory: %s is not a directory", execDir)
	default:
		return nil, fmt.Errorf("executables directory: %w", err)
	}

	doc, err := manifest.BuildDocument(opts)
	if err != nil {
		return nil, err
	}
	return manifest.Encode(doc)
}

func relSlash(base, target string) (string, error) {
	absBase, err := filepath.Abs(base)
	if err != nil {
		return "", err
	}
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(absBase, absTarget)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s must live under the manifest directory %s", target, base)
	}
	return filepath.ToSlash(rel), nil
}

func init() { //nolint:gochecknoinits
	manifestBuildCmd.Flags().StringVar(&buildExecutables, "executables", "", "executables directory (default: <pages-dir>/../executables when present)")
	manifestBuildCmd.Flags().StringVar(&buildOut, "out", "manifest.json", "manifest file to write or check")
	manifestBuildCmd.Flags().BoolVar(&buildCheck, "check", false, "fail when the manifest on disk is stale instead of writing it")
	manifestCmd.AddCommand(manifestBuildCmd)
}
