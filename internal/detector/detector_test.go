// internal/detector/detector_test.go
package detector

import (
	"context"
	"errors"
	"io"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/grip-relay/internal/frame"
)

func TestDecode(t *testing.T) {
	obs, err := Decode([]byte(`{"hands":[{"type":"Right","fingers":[1,1,0,0,0]},{"type":"Left","fingers":[1,1,1,1,1]}]}`))
	require.NoError(t, err)
	assert.True(t, obs.Present)
	assert.Equal(t, "Right", obs.Hand)
	assert.Equal(t, "$11000", frame.Encode(obs.Fingers).String(), "only the first hand counts")

	for _, none := range []string{`{"hands":[]}`, `{}`, `{"hands":null}`} {
		obs, err := Decode([]byte(none))
		require.NoError(t, err)
		assert.False(t, obs.Present)
		assert.Equal(t, frame.NoHand, obs.Fingers)
	}

	for _, bad := range []string{`not json`, `{"hands":[{"fingers":[1,0]}]}`, `{"hands":[{"fingers":[1,0,0,0,7]}]}`} {
		_, err := Decode([]byte(bad))
		assert.Error(t, err, "input %s", bad)
	}
}

func TestStream_ReadsLinesThenEnds(t *testing.T) {
	s := NewStream(strings.NewReader(`{"hands":[{"fingers":[0,1,1,0,0]}]}

{"hands":[]}
`))
	defer s.Close()

	ctx := context.Background()

	obs, err := s.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "$01100", frame.Encode(obs.Fingers).String())

	obs, err = s.Next(ctx)
	require.NoError(t, err)
	assert.False(t, obs.Present)

	_, err = s.Next(ctx)
	assert.ErrorIs(t, err, ErrEnded)

	// terminal error is sticky
	_, err = s.Next(ctx)
	assert.ErrorIs(t, err, ErrEnded)
}

func TestStream_MalformedLineIsError(t *testing.T) {
	s := NewStream(strings.NewReader("garbage\n"))
	defer s.Close()

	_, err := s.Next(context.Background())
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrEnded))
}

func TestStream_NextHonorsContext(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	s := NewStream(pr)
	defer s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := s.Next(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestStream_ClosedStreamEnds(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	s := NewStream(pr)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, err := s.Next(context.Background())
	assert.ErrorIs(t, err, ErrEnded)
}

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestProcess_StreamsTrackerOutput(t *testing.T) {
	requireShell(t)

	p, err := StartProcess(context.Background(), ProcessConfig{
		Command: "sh",
		Args: []string{"-c", `echo '[INFO] camera ready' 1>&2
echo '{"hands":[{"type":"Left","fingers":[1,1,1,1,1]}]}'
echo '{"hands":[]}'`},
	}, zerolog.Nop())
	require.NoError(t, err)
	defer p.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	obs, err := p.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Left", obs.Hand)
	assert.Equal(t, "$11111", frame.Encode(obs.Fingers).String())

	obs, err = p.Next(ctx)
	require.NoError(t, err)
	assert.False(t, obs.Present)

	_, err = p.Next(ctx)
	assert.ErrorIs(t, err, ErrEnded)
}

func TestProcess_FailedTrackerIsFault(t *testing.T) {
	requireShell(t)

	p, err := StartProcess(context.Background(), ProcessConfig{
		Command: "sh",
		Args:    []string{"-c", "exit 3"},
	}, zerolog.Nop())
	require.NoError(t, err)
	defer p.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err = p.Next(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tracker exited")
}

func TestProcess_CloseStopsLongRunningTracker(t *testing.T) {
	requireShell(t)

	p, err := StartProcess(context.Background(), ProcessConfig{
		Command:     "sleep",
		Args:        []string{"30"},
		StopTimeout: 500 * time.Millisecond,
	}, zerolog.Nop())
	require.NoError(t, err)

	start := time.Now()
	require.NoError(t, p.Close())
	assert.Less(t, time.Since(start), 3*time.Second)

	// second close is a no-op
	require.NoError(t, p.Close())

	_, err = p.Next(context.Background())
	assert.ErrorIs(t, err, ErrEnded)
}

func TestStartProcess_Errors(t *testing.T) {
	_, err := StartProcess(context.Background(), ProcessConfig{}, zerolog.Nop())
	assert.Error(t, err)

	_, err = StartProcess(context.Background(), ProcessConfig{Command: "/nonexistent/tracker"}, zerolog.Nop())
	assert.Error(t, err)
}

func TestStderrLog_SplitsLines(t *testing.T) {
	w := &stderrLog{log: zerolog.Nop()}
	n, err := w.Write([]byte("[WARN] low light\n[ERR"))
	require.NoError(t, err)
	assert.Equal(t, 21, n)
	assert.Equal(t, "[ERR", string(w.buf))

	_, _ = w.Write([]byte("OR] lost camera\n"))
	assert.Empty(t, w.buf)
}
