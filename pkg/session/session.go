// Package session is the entry point a UI binds to. A Session owns one
// volume and exposes every editing, viewing and export operation as a
// method; callers invoke one at a time and re-render CurrentSlice afterwards.
package session

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"morphviewer/internal/logger"
	"morphviewer/internal/models"
	"morphviewer/pkg/cluster"
	"morphviewer/pkg/export"
	"morphviewer/pkg/morphology"
	"morphviewer/pkg/orientation"
	"morphviewer/pkg/volume"
)

// Session is not safe for concurrent use.
type Session struct {
	id       string
	state    *volume.State
	view     *orientation.Controller
	exporter *export.Exporter
	log      *zap.SugaredLogger
}

// Option customises a Session.
type Option func(*Session)

// WithExporter replaces the default exporter.
func WithExporter(e *export.Exporter) Option {
	return func(s *Session) {
		s.exporter = e
	}
}

// WithLogger replaces the global logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(s *Session) {
		s.log = l
	}
}

// New starts a session over st.
func New(st *volume.State, opts ...Option) *Session {
	s := &Session{
		id:       uuid.NewString(),
		state:    st,
		view:     orientation.NewController(st),
		exporter: export.New("", 0),
		log:      logger.Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("session", s.id)
	s.log.Infow("session started",
		"shape", st.Shape().String(),
		"dtype", st.DataType().String(),
		"slice", s.view.SliceIndex(),
	)
	return s
}

// ID identifies the session in log output.
func (s *Session) ID() string {
	return s.id
}

// State returns the edited volume. Callers must treat it as read-only.
func (s *Session) State() *volume.State {
	return s.state
}

// Shape returns the current axis extents.
func (s *Session) Shape() models.Shape {
	return s.state.Shape()
}

// CycleState returns how many rotations are applied to the axes.
func (s *Session) CycleState() orientation.Cycle {
	return s.view.State()
}

// SliceRange returns the valid slice indices.
func (s *Session) SliceRange() (lo, hi int) {
	return s.view.Range(s.state)
}

// SliceIndex returns the index currently viewed.
func (s *Session) SliceIndex() int {
	return s.view.SliceIndex()
}

// SetSliceIndex moves the view; out-of-range indices leave it unchanged.
func (s *Session) SetSliceIndex(index int) error {
	if err := s.view.SetSliceIndex(s.state, index); err != nil {
		s.log.Warnf("no image at index %d", index)
		return err
	}
	return nil
}

// Slice returns the cut at index without moving the view.
func (s *Session) Slice(index int) (models.Slice, error) {
	return s.state.Slice(index)
}

// CurrentSlice returns the cut at the viewed index.
func (s *Session) CurrentSlice() (models.Slice, error) {
	return s.state.Slice(s.view.SliceIndex())
}

// Erode applies one face-connected binary erosion.
func (s *Session) Erode() (morphology.Result, error) {
	res, err := morphology.Erode(s.state)
	if err != nil {
		return res, err
	}
	s.log.Info(res.String())
	return res, nil
}

// Dilate applies one face-connected binary dilation.
func (s *Session) Dilate() (morphology.Result, error) {
	res, err := morphology.Dilate(s.state)
	if err != nil {
		return res, err
	}
	s.log.Info(res.String())
	return res, nil
}

// ClusterThreshold removes clusters smaller than p.MinSize and binarises the rest.
func (s *Session) ClusterThreshold(p cluster.Params) (cluster.Report, error) {
	s.log.Infof("applying connected clusters threshold (%d voxels, %s connectivity)", p.MinSize, p.Connectivity)
	report, err := cluster.Threshold(s.state, p)
	if err != nil {
		return report, err
	}
	s.log.Infow("cluster thresholding done",
		"clusters", report.Components,
		"removed_clusters", report.RemovedComponents,
		"removed_voxels", report.RemovedVoxels,
		"kept_voxels", report.KeptVoxels,
		"mean_size", report.MeanSize,
	)
	return report, nil
}

// Cycle rotates the axes once; the slice index is clamped into the new range.
func (s *Session) Cycle() error {
	if err := s.view.Cycle(s.state); err != nil {
		return err
	}
	s.log.Infow("cycled view",
		"cycle", int(s.view.State()),
		"shape", s.state.Shape().String(),
		"slice", s.view.SliceIndex(),
	)
	return nil
}

// Rotate is not implemented.
func (s *Session) Rotate() error {
	err := s.view.Rotate()
	s.log.Warn(err.Error())
	return err
}

// Reset is not implemented.
func (s *Session) Reset() error {
	err := s.view.Reset()
	s.log.Warn(err.Error())
	return err
}

// Export writes the volume in acquisition order to dir and returns the path.
// The session itself is not modified.
func (s *Session) Export(ctx context.Context, dir, basename string) (string, error) {
	ctx = logger.ToContext(ctx, s.log)
	path, err := s.exporter.Export(ctx, s.state, s.view.State(), dir, basename)
	if err != nil {
		logger.ErrorKV(ctx, "export failed", "error", err)
		return "", fmt.Errorf("export: %w", err)
	}
	return path, nil
}
