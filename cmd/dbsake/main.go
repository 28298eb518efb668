// Package main contains dbsake's cli frontend. It uses the cobra
// package for cli tool implementation.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"dbsake/internal/compression"
	"dbsake/internal/frm"
	"dbsake/internal/fsutil"
	"dbsake/internal/mycnf"
	"dbsake/internal/sandbox"
	"dbsake/internal/sieve"
	"dbsake/internal/unpack"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "dbsake",
		Short: "Tools for managing MySQL server files",
	}
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress informational output")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "enable debug output")

	rootCmd.AddCommand(
		frmdumpCmd(),
		decodeTableNameCmd(),
		encodeTableNameCmd(),
		sieveCmd(),
		unpackCmd(),
		upgradeMycnfCmd(),
		fincoreCmd(),
		uncacheCmd(),
		sandboxCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// --- frmdump ---

type frmdumpFlags struct {
	typeCodes bool
}

func frmdumpCmd() *cobra.Command {
	flags := &frmdumpFlags{}
	cmd := &cobra.Command{
		Use:   "frmdump <path>...",
		Short: "Decode a MySQL .frm file into the equivalent CREATE TABLE/VIEW statement",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runFrmdump(args, flags)
		},
	}
	cmd.Flags().BoolVarP(&flags.typeCodes, "type-codes", "t", false, "annotate columns with their raw MySQL type code")
	return cmd
}

func runFrmdump(paths []string, flags *frmdumpFlags) error {
	var failures int
	for _, path := range paths {
		decoded, err := frm.Decode(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "frmdump: %s: %v\n", path, err)
			failures++
			continue
		}
		fmt.Println(decoded.SQL())
		if flags.typeCodes && decoded.Table != nil {
			for _, col := range decoded.Table.Columns {
				fmt.Printf("-- %s: type=%s\n", col.Name, col.TypeCode())
			}
		}
	}
	if failures > 0 {
		return fmt.Errorf("%d of %d files failed to decode", failures, len(paths))
	}
	return nil
}

// --- decode-tablename / encode-tablename ---

func decodeTableNameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode-tablename <name>...",
		Short: "Decode a MySQL filesystem-safe table/database name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			for _, name := range args {
				fmt.Println(frm.DecodeTableName(name))
			}
			return nil
		},
	}
}

func encodeTableNameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encode-tablename <name>...",
		Short: "Encode a table/database name into its filesystem-safe form",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			for _, name := range args {
				fmt.Println(frm.EncodeTableName(name))
			}
			return nil
		},
	}
}

// --- sieve ---

type sieveFlags struct {
	sections        []string
	excludeSections []string
	tables          []string
	excludeTables   []string
	noCreateInfo    bool
	noData          bool
	deferIndexes    bool
	skipBinlog      bool
	outDir          string
	compress        string
}

func sieveCmd() *cobra.Command {
	flags := &sieveFlags{}
	cmd := &cobra.Command{
		Use:   "sieve [path|-]",
		Short: "Filter and transform a mysqldump SQL stream",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			return runSieve(path, flags)
		},
	}
	cmd.Flags().StringSliceVar(&flags.sections, "section", nil, "only emit these section kinds")
	cmd.Flags().StringSliceVar(&flags.excludeSections, "exclude-section", nil, "never emit these section kinds")
	cmd.Flags().StringSliceVarP(&flags.tables, "table", "t", nil, "only include tables matching this glob (db.table)")
	cmd.Flags().StringSliceVarP(&flags.excludeTables, "exclude-table", "T", nil, "exclude tables matching this glob (db.table)")
	cmd.Flags().BoolVar(&flags.deferIndexes, "defer-indexes", false, "defer secondary index creation until after table data loads")
	cmd.Flags().BoolVar(&flags.skipBinlog, "skip-binlog", false, "wrap output in SET SQL_LOG_BIN=0/1")
	cmd.Flags().StringVarP(&flags.outDir, "directory", "C", "", "split output into a directory tree instead of a single stream")
	cmd.Flags().StringVar(&flags.compress, "compress", "", "compression command for directory output files, e.g. 'gzip -6'")
	return cmd
}

func runSieve(path string, flags *sieveFlags) error {
	r, closeFn, err := openInput(path)
	if err != nil {
		return err
	}
	defer closeFn()

	var writer sieve.Writer
	if flags.outDir != "" {
		dirWriter, err := sieve.NewDirectoryWriter(flags.outDir, flags.compress)
		if err != nil {
			return err
		}
		writer = dirWriter
	} else {
		writer = sieve.NewStreamWriter(os.Stdout)
	}
	defer writer.Close()

	opts := sieve.Options{
		Filter: sieve.FilterOptions{
			Sections:        flags.sections,
			ExcludeSections: flags.excludeSections,
			Table:           flags.tables,
			ExcludeTable:    flags.excludeTables,
		},
		Transform: sieve.TransformOptions{
			WriteBinlog:  !flags.skipBinlog,
			DeferIndexes: flags.deferIndexes,
		},
		Writer: writer,
	}
	return sieve.Run(r, opts)
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "-" || path == "" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return f, func() { _ = f.Close() }, nil
}

// --- unpack ---

type unpackFlags struct {
	directory     string
	tables        []string
	excludeTables []string
	listContents  bool
	progress      bool
}

func unpackCmd() *cobra.Command {
	flags := &unpackFlags{}
	cmd := &cobra.Command{
		Use:   "unpack <path|->",
		Short: "Unpack a MySQL backup archive (tar or xbstream)",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runUnpack(args[0], flags)
		},
	}
	cmd.Flags().StringVarP(&flags.directory, "directory", "C", ".", "destination directory")
	cmd.Flags().StringSliceVarP(&flags.tables, "table", "t", nil, "only include tables matching this glob (db.table)")
	cmd.Flags().StringSliceVarP(&flags.excludeTables, "exclude-table", "T", nil, "exclude tables matching this glob (db.table)")
	cmd.Flags().BoolVarP(&flags.listContents, "list-contents", "l", false, "list archive contents instead of extracting")
	cmd.Flags().BoolVar(&flags.progress, "progress", false, "report extraction progress to stderr")
	return cmd
}

func runUnpack(path string, flags *unpackFlags) error {
	r, closeFn, err := openInput(path)
	if err != nil {
		return err
	}
	defer closeFn()

	stream, err := maybeDecompress(path, r)
	if err != nil {
		return err
	}
	if closer, ok := stream.(io.Closer); ok {
		defer closer.Close()
	}

	var totalSize int64
	if path != "-" && path != "" {
		if fi, err := os.Stat(path); err == nil {
			totalSize = fi.Size()
		}
	}

	opts := unpack.Options{
		Destination:   flags.directory,
		IncludeTables: flags.tables,
		ExcludeTables: flags.excludeTables,
		ListOnly:      flags.listContents,
		OnPath:        func(p string) { fmt.Println(p) },
		TotalSize:     totalSize,
	}
	if flags.progress {
		opts.Progress = func(sofar, total int64) {
			if total > 0 {
				fmt.Fprintf(os.Stderr, "\r%d/%d bytes", sofar, total)
			} else {
				fmt.Fprintf(os.Stderr, "\r%d bytes", sofar)
			}
		}
	}
	if err := unpack.Run(stream, opts); err != nil {
		return err
	}
	if flags.progress {
		fmt.Fprintln(os.Stderr)
	}
	return nil
}

func maybeDecompress(path string, r io.Reader) (io.Reader, error) {
	if path == "-" || path == "" {
		return r, nil
	}
	f, ok := r.(*os.File)
	if !ok {
		return r, nil
	}
	ext, err := compression.DetectExtension(f)
	if err != nil {
		_, _ = f.Seek(0, io.SeekStart)
		return f, nil
	}
	command, err := compression.ResolveCommand(ext)
	if err != nil {
		return nil, err
	}
	_, _ = f.Seek(0, io.SeekStart)
	return compression.OpenDecompressedReader(command+" -dc", f)
}

// --- upgrade-mycnf ---

type upgradeMycnfFlags struct {
	config string
	target string
	patch  bool
}

func upgradeMycnfCmd() *cobra.Command {
	flags := &upgradeMycnfFlags{}
	cmd := &cobra.Command{
		Use:   "upgrade-mycnf",
		Short: "Upgrade a MySQL option file to a newer version's conventions",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runUpgradeMycnf(flags)
		},
	}
	cmd.Flags().StringVarP(&flags.config, "config", "c", "/etc/my.cnf", "my.cnf file to parse")
	cmd.Flags().StringVarP(&flags.target, "target", "t", "5.5", "MySQL version to target (5.1, 5.5, 5.6, 5.7)")
	cmd.Flags().BoolVarP(&flags.patch, "patch", "p", false, "output unified diff rather than full config")
	return cmd
}

func runUpgradeMycnf(flags *upgradeMycnfFlags) error {
	if _, err := os.Stat(flags.config); err != nil {
		return fmt.Errorf("unreadable config %q: %w", flags.config, err)
	}

	rewriter, ok := mycnf.RewriterFor(flags.target)
	if !ok {
		return fmt.Errorf("invalid target version %q", flags.target)
	}

	results, err := mycnf.UpgradeConfig(flags.config, rewriter)
	if err != nil {
		return err
	}

	for _, result := range results {
		for _, warning := range result.Warnings {
			fmt.Fprintln(os.Stderr, warning)
		}
		if flags.patch {
			fmt.Print(unifiedDiff(result.Path, result.Original, result.Modified))
		} else {
			for _, line := range result.Modified {
				fmt.Println(line)
			}
		}
	}
	return nil
}

func unifiedDiff(path string, original, modified []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "--- a%s\n+++ b%s\n", path, path)
	for i := 0; i < len(original) || i < len(modified); i++ {
		switch {
		case i < len(original) && i < len(modified) && original[i] == modified[i]:
			fmt.Fprintf(&b, " %s\n", original[i])
		case i < len(original):
			fmt.Fprintf(&b, "-%s\n", original[i])
			if i < len(modified) {
				fmt.Fprintf(&b, "+%s\n", modified[i])
			}
		case i < len(modified):
			fmt.Fprintf(&b, "+%s\n", modified[i])
		}
	}
	return b.String()
}

// --- fincore / uncache ---

func fincoreCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "fincore <path>...",
		Short: "Report cached pages for a file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			var failures int
			for _, path := range args {
				stats, err := fsutil.Fincore(path, verbose)
				if err != nil {
					fmt.Printf("fincore %s failed: %v\n", path, err)
					failures++
					continue
				}
				fmt.Printf("%s: total_pages=%d cached=%d percent=%.2f\n",
					path, stats.Total, stats.Cached, stats.Percent())
				for _, page := range stats.Pages {
					fmt.Printf("  cached page %d\n", page)
				}
			}
			if failures > 0 {
				return fmt.Errorf("%d of %d files failed", failures, len(args))
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enumerate individual cached page offsets")
	return cmd
}

func uncacheCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "uncache <path>...",
		Short: "Uncache file(s) from the OS page cache",
		Long: `Uncache calls posix_fadvise(2) to indicate that cached pages for a given
file are no longer needed. This is useful when using O_DIRECT where cached
pages for a given file can lead to a performance degradation for many
filesystems under Linux.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			var failures int
			for _, path := range args {
				if err := fsutil.Uncache(path); err != nil {
					fmt.Fprintf(os.Stderr, "failed to uncache %s: %v\n", path, err)
					failures++
					continue
				}
				fmt.Printf("Uncached %s\n", path)
			}
			if failures > 0 {
				return fmt.Errorf("%d of %d files failed", failures, len(args))
			}
			return nil
		},
	}
}

// --- sandbox ---

func sandboxCmd() *cobra.Command {
	var provisioner sandbox.Provisioner = sandbox.NoopProvisioner{}
	return &cobra.Command{
		Use:    "sandbox",
		Short:  "Provision a local, disposable MySQL instance",
		Hidden: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			_, err := provisioner.Provision(sandbox.Spec{})
			return err
		},
	}
}
