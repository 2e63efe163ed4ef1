package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/ecovoyage"
	"github.com/aretw0/ecovoyage/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInteractive(t *testing.T, script string) (*Interactive, *bytes.Buffer) {
	t.Helper()
	planner, err := ecovoyage.New()
	require.NoError(t, err)
	var out bytes.Buffer
	return &Interactive{
		Planner:   planner,
		In:        strings.NewReader(script),
		Out:       &out,
		SessionID: "cli-test",
	}, &out
}

func TestInteractive_FullCycle(t *testing.T) {
	script := strings.Join([]string{
		"1", "0,1", "", "", "", "", "2", "3", // planner: Paris
		"Asha", "", "asha@example.com", // login with blank phone
		"Asha", "555-0100", "asha@example.com",
		"n",
	}, "\n") + "\n"
	s, out := newInteractive(t, script)

	require.NoError(t, s.Run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "# Plan Your Trip")
	assert.Contains(t, text, "# Trip Summary (Preview)")
	assert.Contains(t, text, "! Please enter name, phone and email to continue.")
	assert.Contains(t, text, "# Trip Confirmed")

	trip, err := s.Planner.Current(context.Background(), "cli-test")
	require.NoError(t, err)
	assert.Equal(t, domain.ScreenConfirmation, trip.Screen)
	assert.Equal(t, "Paris", trip.Selections.City)
	assert.Equal(t, []int{0, 1}, trip.Selections.Attractions)
	assert.Equal(t, 2, trip.Selections.Travelers)
	assert.Equal(t, 3, trip.Selections.Days)
	assert.Equal(t, "555-0100", trip.Contact.Phone)
}

func TestInteractive_MissingCityAlert(t *testing.T) {
	s, out := newInteractive(t, "\n\n\n\n\n\n\n\n")

	require.NoError(t, s.Run(context.Background()))

	assert.Contains(t, out.String(), "! Please select a city.")
	trip, err := s.Planner.Current(context.Background(), "cli-test")
	require.NoError(t, err)
	assert.Equal(t, domain.ScreenPlanner, trip.Screen)
}

func TestInteractive_RestartAfterConfirmation(t *testing.T) {
	script := strings.Join([]string{
		"Kerala", "", "", "", "", "", "", "",
		"Asha", "555-0100", "asha@example.com",
		"y",
	}, "\n") + "\n"
	s, _ := newInteractive(t, script)

	require.NoError(t, s.Run(context.Background()))

	trip, err := s.Planner.Current(context.Background(), "cli-test")
	require.NoError(t, err)
	assert.Equal(t, domain.ScreenPlanner, trip.Screen)
	assert.Nil(t, trip.Breakdown)
}

func TestInteractive_Cancelled(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	s, _ := newInteractive(t, "")
	s.In = pr

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}
