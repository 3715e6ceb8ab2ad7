package runner

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/logrusorgru/aurora"
	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/netifaces/pkg/ifaces"
	"github.com/projectdiscovery/netifaces/pkg/version"
	sliceutil "github.com/projectdiscovery/utils/slice"
	"github.com/rs/xid"
	"github.com/shirou/gopsutil/v3/host"
)

// Runner contains the internal logic of the program
type Runner struct {
	options *Options
	au      aurora.Aurora
}

// NewRunner instance
func NewRunner(options *Options) (*Runner, error) {
	return &Runner{
		options: options,
		au:      aurora.NewAurora(!options.NoColor),
	}, nil
}

// Run the instance
func (r *Runner) Run() error {
	if r.options.Version {
		gologger.Info().Msgf("Current version: %s", version.GetVersion())
		return nil
	}

	if r.options.Verbose {
		if info, err := host.Info(); err == nil {
			gologger.Verbose().Msgf("Host: %s (%s %s, up %s)",
				info.Hostname, info.Platform, info.PlatformVersion,
				time.Duration(info.Uptime)*time.Second)
		}
	}

	snapshotID := xid.New().String()

	list, err := r.snapshot()
	if err != nil {
		return fmt.Errorf("could not snapshot interfaces: %w", err)
	}
	list = r.filter(list)

	gologger.Verbose().Msgf("Snapshot %s: %d entries", snapshotID, len(list))

	if r.options.JSON {
		return r.writeJSON(snapshotID, list)
	}
	return r.writeTable(list)
}

func (r *Runner) snapshot() ([]ifaces.Interface, error) {
	if r.options.Up {
		return ifaces.Up()
	}
	return ifaces.All()
}

func (r *Runner) filter(list []ifaces.Interface) []ifaces.Interface {
	filtered := make([]ifaces.Interface, 0, len(list))
	for _, ifc := range list {
		if len(r.options.Interfaces) > 0 && !sliceutil.Contains(r.options.Interfaces, ifc.Name()) {
			continue
		}
		if r.options.IPv4Only && !ifc.Addr().Is4() {
			continue
		}
		if r.options.IPv6Only && ifc.Addr().Is4() {
			continue
		}
		filtered = append(filtered, ifc)
	}
	return filtered
}

// jsonRecord is one JSON line of output.
type jsonRecord struct {
	SnapshotID string           `json:"snapshot_id"`
	Timestamp  string           `json:"timestamp"`
	Interface  ifaces.Interface `json:"interface"`
}

func (r *Runner) writeJSON(snapshotID string, list []ifaces.Interface) error {
	enc := json.NewEncoder(os.Stdout)
	ts := time.Now().UTC().Format(time.RFC3339)
	for _, ifc := range list {
		record := jsonRecord{SnapshotID: snapshotID, Timestamp: ts, Interface: ifc}
		if err := enc.Encode(record); err != nil {
			return fmt.Errorf("could not encode interface %s: %w", ifc.Name(), err)
		}
	}
	return nil
}

func (r *Runner) writeTable(list []ifaces.Interface) error {
	for _, ifc := range list {
		state := r.au.Red("down")
		if ifc.IsUp() {
			state = r.au.Green("up")
		}

		var attrs []string
		if ifc.IsLoopback() {
			attrs = append(attrs, "loopback")
		}
		if ifc.IsPointToPoint() {
			attrs = append(attrs, "ptp")
		}
		if ifc.IsMaster() {
			attrs = append(attrs, "master")
		}
		if ifc.IsSlave() {
			attrs = append(attrs, "slave")
		}
		if ifc.IsPromiscuous() {
			attrs = append(attrs, "promisc")
		}

		gologger.Silent().Msgf("%-16s %-5s %-44s %-18s %s",
			ifc.Name(), state, ifc.CIDR(), ifc.HardwareAddr(), strings.Join(attrs, ","))
	}
	return nil
}
