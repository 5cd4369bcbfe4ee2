package launcher

import "github.com/HasibAlTahsin/norun/internal/sandbox"

// ToolStatus reports whether one external tool is on the search path.
type ToolStatus struct {
	Name      string
	Available bool
}

// doctorTools are the external binaries norun drives, in display order.
var doctorTools = []string{"wine", "winetricks", "umu-run", "zenity", "bwrap"}

// Doctor probes the availability of every external tool norun depends on.
func Doctor(host sandbox.Host) []ToolStatus {
	statuses := make([]ToolStatus, 0, len(doctorTools))
	for _, tool := range doctorTools {
		_, err := host.LookPath(tool)
		statuses = append(statuses, ToolStatus{Name: tool, Available: err == nil})
	}
	return statuses
}
