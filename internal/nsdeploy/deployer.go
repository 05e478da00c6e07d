package nsdeploy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/charmbracelet/log"

	"github.com/vexxhost/osm-deploy/internal/config"
	"github.com/vexxhost/osm-deploy/internal/osm"
)

// DefaultPollInterval is the fixed wait before every status poll.
const DefaultPollInterval = time.Second

// ErrDuplicateName is returned when an NS instance with the requested name
// already exists. Nothing is created in that case.
var ErrDuplicateName = errors.New("network service name already in use")

var errInitializing = errors.New("network service is still initializing")

// Orchestrator is the part of the OSM client the deployer uses.
type Orchestrator interface {
	ListNS(ctx context.Context, opts osm.ListNSOpts) ([]osm.NSInstance, error)
	GetNS(ctx context.Context, nameOrID string) (*osm.NSInstance, error)
	CreateNS(ctx context.Context, opts osm.CreateNSOpts) (string, error)
}

type timer struct{}

func (timer) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}

// Deployer submits a Network Service and polls it until it leaves init.
type Deployer struct {
	client   Orchestrator
	out      io.Writer
	interval time.Duration
	timer    retry.Timer
	readFile func(string) ([]byte, error)
}

// Option configures a Deployer.
type Option func(*Deployer)

// WithPollInterval sets the delay between status polls.
func WithPollInterval(interval time.Duration) Option {
	return func(d *Deployer) {
		d.interval = interval
	}
}

// WithTimer replaces the timer used to wait between polls.
func WithTimer(t retry.Timer) Option {
	return func(d *Deployer) {
		d.timer = t
	}
}

// WithReadFile replaces the function that reads the NS config file.
func WithReadFile(fn func(string) ([]byte, error)) Option {
	return func(d *Deployer) {
		d.readFile = fn
	}
}

// New returns a Deployer that prints status lines to out.
func New(client Orchestrator, out io.Writer, opts ...Option) *Deployer {
	d := &Deployer{
		client:   client,
		out:      out,
		interval: DefaultPollInterval,
		timer:    timer{},
		readFile: os.ReadFile,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Deploy creates the NS instance described by opts and blocks until neither
// its operational nor its config status is "init". The final state is
// returned whether it is a success or a failure.
func (d *Deployer) Deploy(ctx context.Context, opts config.OSM) (*osm.NSInstance, error) {
	existing, err := d.client.ListNS(ctx, osm.ListNSOpts{Name: opts.NSName})
	if err != nil {
		return nil, err
	}

	if len(existing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateName, opts.NSName)
	}

	nsConfig := ""
	if opts.NSConfigFile != "" {
		data, err := d.readFile(opts.NSConfigFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read ns config file: %w", err)
		}
		nsConfig = string(data)
	}

	id, err := d.client.CreateNS(ctx, osm.CreateNSOpts{
		NSDName:    opts.NSDName,
		NSName:     opts.NSName,
		VIMAccount: opts.VIMAccount,
		Config:     nsConfig,
	})
	if err != nil {
		return nil, err
	}

	log.Info("Network service instantiation requested", "name", opts.NSName, "id", id)

	return d.Wait(ctx, opts.NSName)
}

// Wait polls the NS instance every interval, printing its status, until it
// leaves the "init" state. There is no timeout; only ctx stops it.
func (d *Deployer) Wait(ctx context.Context, name string) (*osm.NSInstance, error) {
	select {
	case <-d.timer.After(d.interval):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	var (
		ns    *osm.NSInstance
		fatal error
	)

	err := retry.Do(
		func() error {
			current, err := d.client.GetNS(ctx, name)
			if err != nil {
				fatal = err
				return retry.Unrecoverable(err)
			}

			ns = current
			fmt.Fprintf(d.out, "%s: Operational State: %s\n", ns.DetailedStatus, ns.OperationalStatus)

			if ns.Initializing() {
				return errInitializing
			}

			return nil
		},
		retry.Context(ctx),
		retry.Attempts(0),
		retry.Delay(d.interval),
		retry.DelayType(retry.FixedDelay),
		retry.WithTimer(d.timer),
		retry.LastErrorOnly(true),
	)
	if fatal != nil {
		return nil, fatal
	}
	if err != nil {
		return nil, err
	}

	return ns, nil
}
