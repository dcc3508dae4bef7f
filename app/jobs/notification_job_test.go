package jobs_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chhotalabhavik/cleanout/app/jobs"
	"github.com/chhotalabhavik/cleanout/pkg/queue"
)

// The dispatched value and the registry-built pointer must both satisfy
// queue.Job, or dispatch and delivery split apart.
var (
	_ queue.Job = jobs.NotificationJob{}
	_ queue.Job = (*jobs.NotificationJob)(nil)
)

func TestDispatchEnqueues(t *testing.T) {
	jobs.Register()

	err := queue.Dispatch(jobs.NotificationJob{
		UserIDs: []uint{1},
		Purpose: jobs.PurposePlacedOrder,
		Message: "Placed order of 250.00",
	})
	require.NoError(t, err)
}
