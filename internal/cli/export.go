package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/containerpak/cpakstore/pkg/snapshot"
)

// exportCommand creates the command that snapshots the whole store.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		output string
		format string
		mongo  bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a snapshot of the resolved store",
		Long: `Export a snapshot of the resolved store.

The snapshot holds the category overview and the packages of every
non-empty category. It is written as JSON, YAML or TOML, to stdout or to
--output. The format follows the output file extension unless --format is
given.

With --mongo the snapshot is also stored in MongoDB (see the mongo_uri,
mongo_database and mongo_collection settings).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd, output, format, mongo)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: json, yaml, toml")
	cmd.Flags().BoolVar(&mongo, "mongo", false, "store the snapshot in MongoDB")
	cmd.Flags().String("mongo-uri", "", "MongoDB connection string")
	c.bindFlags(cmd, map[string]string{keyMongoURI: "mongo-uri"})

	return cmd
}

func (c *CLI) runExport(cmd *cobra.Command, output, format string, mongo bool) error {
	f := snapshot.FormatJSON
	if output != "" {
		f = snapshot.FormatFromPath(output)
	}
	if format != "" {
		var err error
		if f, err = snapshot.ParseFormat(format); err != nil {
			return err
		}
	}

	ctx := cmd.Context()
	s, err := c.newSession(ctx)
	if err != nil {
		return fmt.Errorf("initialize session: %w", err)
	}
	defer s.Close()

	prog := newProgress(loggerFromContext(ctx))
	spinner := startSpinner(ctx, "Resolving store...")

	snap, err := snapshot.Build(ctx, s.resolver)
	if err != nil {
		spinner.Fail("Snapshot failed")
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Resolved %d packages", snap.PackageCount()))

	if mongo {
		if err := c.saveSnapshot(ctx, snap); err != nil {
			return err
		}
	}

	if output == "" {
		if mongo {
			return nil
		}
		return encodeTo(cmd.OutOrStdout(), snap, f)
	}

	if err := writeSnapshotFile(output, snap, f); err != nil {
		return err
	}
	printSuccess("Snapshot written")
	printFile(output)
	printStats(stat{len(snap.Categories), "category"}, stat{snap.PackageCount(), "package"})
	return nil
}

func (c *CLI) saveSnapshot(ctx context.Context, snap *snapshot.Snapshot) error {
	cfg := c.config()
	sink, err := snapshot.NewMongoSink(ctx, snapshot.MongoConfig{
		URI:        cfg.MongoURI,
		Database:   cfg.MongoDatabase,
		Collection: cfg.MongoCollection,
	})
	if err != nil {
		return fmt.Errorf("connect to MongoDB: %w", err)
	}
	defer sink.Close(context.WithoutCancel(ctx))

	if err := sink.Save(ctx, snap); err != nil {
		return fmt.Errorf("store snapshot: %w", err)
	}
	printSuccess("Snapshot %s stored in %s.%s", StyleHighlight.Render(snap.ID), cfg.MongoDatabase, cfg.MongoCollection)
	return nil
}

func writeSnapshotFile(path string, snap *snapshot.Snapshot, f snapshot.Format) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	return encodeTo(file, snap, f)
}

func encodeTo(w io.Writer, snap *snapshot.Snapshot, f snapshot.Format) error {
	if err := snapshot.Encode(w, snap, f); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}
