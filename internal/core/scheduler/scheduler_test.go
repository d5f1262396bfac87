package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate("0 18 * * *"))
	assert.NoError(t, Validate("30 0 18 * * *"))
	assert.NoError(t, Validate("@daily"))
	assert.Error(t, Validate("every evening"))
	assert.Error(t, Validate(""))
}

func TestAddJobReplacesByName(t *testing.T) {
	s := NewScheduler()

	require.NoError(t, s.AddJob("export", "@daily", func() {}))
	require.NoError(t, s.AddJob("backup", "0 3 * * *", func() {}))
	// re-adding replaces
	require.NoError(t, s.AddJob("export", "@hourly", func() {}))
	assert.Equal(t, []string{"backup", "export"}, s.Jobs())
	assert.Len(t, s.cron.Entries(), 2)

	assert.Error(t, s.AddJob("bad", "nope", func() {}))
	assert.Equal(t, []string{"backup", "export"}, s.Jobs())
}

func TestJobRuns(t *testing.T) {
	s := NewScheduler()
	ran := make(chan struct{}, 1)
	require.NoError(t, s.AddJob("tick", "@every 10ms", func() {
		select {
		case ran <- struct{}{}:
		default:
		}
	}))

	s.Start()
	defer s.Stop()

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run")
	}
}
