package provision

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/github4bhavin/snowplow-optimization/internal/model"
	"github.com/github4bhavin/snowplow-optimization/internal/render"
)

// DryRunClusterID is the handle id reported when nothing was launched
const DryRunClusterID = "dry-run"

// DryRun writes the launch spec instead of starting a cluster
type DryRun struct {
	Out    io.Writer
	Format render.Format
}

// NewDryRun creates a dry-run provisioner writing to out
func NewDryRun(out io.Writer, format render.Format) *DryRun {
	return &DryRun{Out: out, Format: format}
}

// Launch renders the spec to Out
func (d *DryRun) Launch(ctx context.Context, spec *model.ClusterLaunchSpec) (*model.ClusterHandle, error) {
	if err := ctx.Err(); err != nil {
		return nil, &Error{Op: "dry run", Err: err}
	}

	data, err := render.NewRenderer().Render(spec, d.Format)
	if err != nil {
		return nil, &Error{Op: "dry run", Err: err}
	}
	if _, err := d.Out.Write(data); err != nil {
		return nil, &Error{Op: "dry run", Err: fmt.Errorf("failed to write launch spec: %w", err)}
	}

	logrus.Warnf("dry run: cluster %q was not launched", spec.Name)
	return &model.ClusterHandle{ClusterID: DryRunClusterID}, nil
}
