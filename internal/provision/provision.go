package provision

import (
	"context"
	"fmt"

	"github.com/github4bhavin/snowplow-optimization/internal/model"
)

// Provisioner starts a cluster for a launch spec. One call, one cluster: no
// polling and no retry.
type Provisioner interface {
	Launch(ctx context.Context, spec *model.ClusterLaunchSpec) (*model.ClusterHandle, error)
}

// Error reports a failed provisioning call
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("provision %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
