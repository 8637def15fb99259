package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"morphviewer/internal/logger"
	"morphviewer/internal/models"
	"morphviewer/pkg/config"
	"morphviewer/pkg/export"
	"morphviewer/pkg/orientation"
	"morphviewer/pkg/phantom"
	"morphviewer/pkg/session"
	"morphviewer/pkg/visualization"
	"morphviewer/pkg/volume"
)

// runFlags holds the flags of the run command.
type runFlags struct {
	ops          []string
	shape        []int
	radius       float64
	speckles     int
	seed         uint64
	dtype        string
	outDir       string
	basename     string
	snapshotDir  string
	connectivity int
	minSize      int
	logLevel     string
}

var (
	flags runFlags

	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run a scripted editing session over a synthetic phantom.",
		Long: `Builds a phantom volume (a sphere plus isolated speckle voxels) and applies the
given operations in order. Supported operations:

  erode, dilate, cluster, cycle, rotate, reset, export, slice=<index>

rotate and reset are reserved and report "not implemented". Cluster parameters
come from the configuration file unless overridden by flags.`,
		Example: `  morphviewer run --ops cluster,erode,dilate,cycle,export --out-dir ./out`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			applyOverrides(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}

			lvl, _ := logger.ParseLogLevel(cfg.Logging.Level)
			logger.SetLevel(lvl)
			logger.SetLogger(logger.NewFromOptions(nil, cfg.LogFileOptions()))

			return runSession(ctx, cfg)
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	def := phantom.DefaultParams()
	f := runCmd.Flags()
	f.StringSliceVar(&flags.ops, "ops", []string{"cluster", "export"}, "operations to apply in order")
	f.IntSliceVar(&flags.shape, "shape", def.Shape[:], "phantom shape as X,Y,Z")
	f.Float64Var(&flags.radius, "radius", def.Radius, "phantom sphere radius in voxels")
	f.IntVar(&flags.speckles, "speckles", def.Speckles, "number of isolated speckle voxels")
	f.Uint64Var(&flags.seed, "seed", def.Seed, "random seed for speckle placement")
	f.StringVar(&flags.dtype, "dtype", "int8", "element type of the session volume")
	f.StringVarP(&flags.outDir, "out-dir", "o", "", "export directory (overrides config)")
	f.StringVarP(&flags.basename, "basename", "b", "", "export basename (overrides config)")
	f.StringVar(&flags.snapshotDir, "snapshot-dir", "", "render the current slice here after each operation (overrides config)")
	f.IntVar(&flags.connectivity, "connectivity", 0, "cluster connectivity 1, 2 or 3 (overrides config)")
	f.IntVar(&flags.minSize, "min-size", 0, "minimum cluster size in voxels (overrides config)")
	f.StringVar(&flags.logLevel, "log-level", "", "log level (overrides config)")
}

func applyOverrides(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("out-dir") {
		cfg.Export.Dir = flags.outDir
	}
	if changed("basename") {
		cfg.Export.Basename = flags.basename
	}
	if changed("snapshot-dir") {
		cfg.Viewer.SnapshotDir = flags.snapshotDir
	}
	if changed("connectivity") {
		cfg.Cluster.Connectivity = flags.connectivity
	}
	if changed("min-size") {
		cfg.Cluster.MinSize = flags.minSize
	}
	if changed("log-level") {
		cfg.Logging.Level = flags.logLevel
	}
}

func runSession(ctx context.Context, cfg *config.Config) error {
	if len(flags.shape) != 3 {
		return fmt.Errorf("shape needs 3 values, got %d", len(flags.shape))
	}
	dtype, err := volume.ParseDataType(flags.dtype)
	if err != nil {
		return err
	}

	params := phantom.Params{
		Shape:    models.Shape{flags.shape[0], flags.shape[1], flags.shape[2]},
		Radius:   flags.radius,
		Speckles: flags.speckles,
		Seed:     flags.seed,
	}
	meta, err := volume.NewMetadata(nil, nil)
	if err != nil {
		return err
	}
	st, err := volume.New(params.Shape, dtype, phantom.Generate(params), meta)
	if err != nil {
		return err
	}

	r := &runner{
		cfg: cfg,
		sess: session.New(st,
			session.WithExporter(export.New(cfg.Export.Extension, cfg.Export.CompressionLevel)),
		),
	}
	if err := r.snapshot("initial"); err != nil {
		return err
	}
	for _, op := range flags.ops {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.apply(ctx, op); err != nil {
			return err
		}
	}
	return nil
}

// runner applies scripted operations to a session.
type runner struct {
	cfg  *config.Config
	sess *session.Session
	seq  int
}

// apply runs one operation. Recoverable errors (bad slice index, reserved
// operations) are logged and the script continues.
func (r *runner) apply(ctx context.Context, op string) error {
	op = strings.ToLower(strings.TrimSpace(op))

	var err error
	switch {
	case op == "erode":
		_, err = r.sess.Erode()
	case op == "dilate":
		_, err = r.sess.Dilate()
	case op == "cluster":
		_, err = r.sess.ClusterThreshold(r.cfg.ClusterParams())
	case op == "cycle":
		err = r.sess.Cycle()
	case op == "rotate":
		err = r.sess.Rotate()
	case op == "reset":
		err = r.sess.Reset()
	case op == "export":
		dir := r.cfg.ExportDir()
		if mkErr := os.MkdirAll(dir, 0755); mkErr != nil {
			return fmt.Errorf("create export directory: %w", mkErr)
		}
		var path string
		path, err = r.sess.Export(ctx, dir, r.cfg.Export.Basename)
		if err == nil {
			logger.Infof(ctx, "successfully exported morph image as: %s", path)
		}
	case strings.HasPrefix(op, "slice="):
		index, convErr := strconv.Atoi(strings.TrimPrefix(op, "slice="))
		if convErr != nil {
			return fmt.Errorf("operation %q: %w", op, convErr)
		}
		err = r.sess.SetSliceIndex(index)
	default:
		return fmt.Errorf("unknown operation %q", op)
	}

	switch {
	case errors.Is(err, orientation.ErrNotImplemented), errors.Is(err, volume.ErrSliceOutOfRange):
		logger.Warnf(ctx, "%s: %v", op, err)
	case err != nil:
		return err
	}
	return r.snapshot(strings.SplitN(op, "=", 2)[0])
}

// snapshot renders the current slice when a snapshot directory is configured.
func (r *runner) snapshot(op string) error {
	dir := r.cfg.Viewer.SnapshotDir
	if dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create snapshot directory: %w", err)
	}

	s, err := r.sess.CurrentSlice()
	if err != nil {
		return err
	}
	name := visualization.SnapshotName(r.seq, op, s.Index, r.cfg.Viewer.Format)
	r.seq++
	return visualization.SaveSlice(s, filepath.Join(dir, name))
}
