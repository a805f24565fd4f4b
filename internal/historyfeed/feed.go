// Package historyfeed publishes every recorded history entry of a session to
// a socket.io server, so a dashboard can follow a long batch run live.
package historyfeed

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/specialistvlad/fabricshell/internal/ctxlog"
	"github.com/specialistvlad/fabricshell/internal/history"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// Event is the socket.io event name every entry is emitted under.
const Event = "history"

const connectTimeout = 15 * time.Second

// Options configures the connection to the feed server.
type Options struct {
	URL                string
	Namespace          string
	InsecureSkipVerify bool
}

// connectError turns the arguments of a connect_error event into an error.
func connectError(args ...any) error {
	if len(args) == 0 || args[0] == nil {
		return errors.New("connect_error without details")
	}
	if err, ok := args[0].(error); ok {
		return err
	}
	return fmt.Errorf("%v", args[0])
}

// Publisher implements history.Observer by emitting each entry.
type Publisher struct {
	session string
	logger  *slog.Logger
	emit    func(event string, payload map[string]any)
	close   func()
}

var _ history.Observer = (*Publisher)(nil)

// Connect dials the feed server and waits for the connection to be
// established.
func Connect(ctx context.Context, opts Options, session string) (*Publisher, error) {
	logger := ctxlog.FromContext(ctx).With("feed", opts.URL, "session", session)
	logger.Info("Connecting history feed...")

	parsedURL, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse history feed URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("history feed URL %q must include a scheme and host", opts.URL)
	}

	sockOpts := socket.DefaultOptions()
	sockOpts.SetPath(parsedURL.Path)
	if opts.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		sockOpts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	sockOpts.SetTransports(types.NewSet(transports.WebSocket))

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, sockOpts)
	io := manager.Socket(opts.Namespace, sockOpts)

	connectChan := make(chan error, 1)
	io.Once(types.EventName("connect"), func(...any) {
		logger.Debug("History feed connected.", "sid", io.Id())
		connectChan <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		connectChan <- connectError(errs...)
	})
	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("history feed connection failed: %w", err)
		}
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while connecting history feed")
	case <-time.After(connectTimeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s connecting history feed", connectTimeout)
	}

	return newPublisher(session, logger,
		func(event string, payload map[string]any) { io.Emit(event, payload) },
		func() { io.Disconnect() },
	), nil
}

func newPublisher(session string, logger *slog.Logger, emit func(string, map[string]any), closeFn func()) *Publisher {
	return &Publisher{session: session, logger: logger, emit: emit, close: closeFn}
}

// Record emits one entry.
func (p *Publisher) Record(e history.Entry) {
	p.logger.Debug("Publishing history entry.", "seq", e.Seq, "command", e.Command)
	p.emit(Event, Payload(p.session, e))
}

// Close disconnects from the feed server.
func (p *Publisher) Close() {
	p.logger.Info("Disconnecting history feed.")
	p.close()
}

// Payload renders an entry as the JSON-friendly map sent over the wire.
func Payload(session string, e history.Entry) map[string]any {
	payload := map[string]any{
		"session":     session,
		"seq":         e.Seq,
		"command":     e.Command,
		"outcome":     e.Outcome.String(),
		"started":     e.Started.UTC().Format(time.RFC3339Nano),
		"duration_ms": e.Duration.Milliseconds(),
	}
	if e.Error != "" {
		payload["error"] = e.Error
	}
	return payload
}
