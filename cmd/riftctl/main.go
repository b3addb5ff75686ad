// Command riftctl is the CLI client: queries and commands go over the
// unix socket riftd serves, daemon lifecycle goes through
// internal/lifecycle.Supervisor. Structure (rootCmd, global persistent
// flags, colored stderr errors, printJSON/printError helpers) is
// grounded on the grid-cli example's cmd/grid/main.go.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/riftwm/riftwm/internal/ipc"
	"github.com/riftwm/riftwm/internal/lifecycle"
	"github.com/riftwm/riftwm/internal/model"
	"github.com/riftwm/riftwm/internal/paths"
)

var (
	socketPath   string
	configPath   string
	snapshotPath string
	timeout      time.Duration
	jsonOutput   bool
	noColor      bool

	errorColor = color.New(color.FgRed, color.Bold)
	infoColor  = color.New(color.FgCyan)
)

var rootCmd = &cobra.Command{
	Use:     "riftctl",
	Short:   "riftwm reactor CLI",
	Long:    "riftctl is the command-line client for riftd, the riftwm reactor daemon: query workspace/window/display state and issue layout commands over its unix socket.",
	Version: "0.1.0",
}

func init() {
	defaultPaths, err := paths.Default()
	if err != nil {
		fmt.Fprintln(os.Stderr, "riftctl:", err)
		os.Exit(1)
	}

	rootCmd.PersistentFlags().StringVar(&socketPath, "socket", defaultPaths.SocketPath, "riftd unix socket path")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultPaths.ConfigPath, "riftwm config file path")
	rootCmd.PersistentFlags().StringVar(&snapshotPath, "snapshot", defaultPaths.SnapshotPath, "layout snapshot path")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", ipc.ReplyTimeout, "request timeout")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output raw JSON instead of a formatted summary")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(
		daemonCmd,
		workspacesCmd,
		displaysCmd,
		windowsCmd,
		applicationsCmd,
		layoutStateCmd,
		configCmd,
		metricsCmd,
		execCmd,
	)
	daemonCmd.AddCommand(daemonStartCmd, daemonStopCmd, daemonRestartCmd, daemonStatusCmd)
	windowsCmd.AddCommand(windowInfoCmd)

	layoutStateCmd.Flags().Uint64("space", 1, "space id to show layout state for")
	execCmd.Flags().Uint64("space", 1, "space id the command targets")
	windowInfoCmd.Flags().Int32("pid", 0, "owning app pid")
	windowInfoCmd.Flags().Uint32("index", 0, "per-app window index")

	cobra.OnInitialize(func() {
		if noColor {
			color.NoColor = true
		}
	})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// --- query commands: one per ipc.RequestKind spec §6 names ---

var workspacesCmd = &cobra.Command{
	Use:   "workspaces",
	Short: "List virtual workspaces per space",
	RunE:  runQuery(ipc.ReqGetWorkspaces),
}

var displaysCmd = &cobra.Command{
	Use:   "displays",
	Short: "List known displays/screens",
	RunE:  runQuery(ipc.ReqGetDisplays),
}

var windowsCmd = &cobra.Command{
	Use:   "windows",
	Short: "List tracked windows",
	RunE:  runQuery(ipc.ReqGetWindows),
}

var applicationsCmd = &cobra.Command{
	Use:   "applications",
	Short: "List running applications",
	RunE:  runQuery(ipc.ReqGetApplications),
}

var layoutStateCmd = &cobra.Command{
	Use:   "layout-state",
	Short: "Show the current layout state for a space",
	RunE: func(cmd *cobra.Command, args []string) error {
		space, _ := cmd.Flags().GetUint64("space")
		sid := model.SpaceID(space)
		return sendAndPrint(ipc.Request{Kind: ipc.ReqGetLayoutState, SpaceID: &sid})
	},
}

var windowInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show one window's full state",
	RunE: func(cmd *cobra.Command, args []string) error {
		pid, _ := cmd.Flags().GetInt32("pid")
		index, _ := cmd.Flags().GetUint32("index")
		wid := model.WindowID{Pid: model.AppPid(pid), Index: index}
		return sendAndPrint(ipc.Request{Kind: ipc.ReqGetWindowInfo, WindowID: &wid})
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show riftd's active settings",
	RunE:  runQuery(ipc.ReqGetConfig),
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Show window-event and transaction-latency metrics",
	RunE:  runQuery(ipc.ReqGetMetrics),
}

var execCmd = &cobra.Command{
	Use:   "exec <verb> [args...]",
	Short: "Execute a layout command (move-focus, swap-windows, workspace-next, ...)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		space, _ := cmd.Flags().GetUint64("space")
		sid := model.SpaceID(space)
		return sendAndPrint(ipc.Request{
			Kind:    ipc.ReqExecuteCommand,
			Command: args[0],
			Args:    args[1:],
			SpaceID: &sid,
		})
	},
}

func runQuery(kind ipc.RequestKind) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return sendAndPrint(ipc.Request{Kind: kind})
	}
}

func sendAndPrint(req ipc.Request) error {
	c, err := dial(socketPath, timeout)
	if err != nil {
		printError(err.Error())
		return err
	}
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	resp, err := c.Send(ctx, req)
	if err != nil {
		printError(err.Error())
		return err
	}
	if !resp.Success {
		printError(resp.Error)
		return fmt.Errorf("%s", resp.Error)
	}
	if !jsonOutput {
		fmt.Printf("%+v\n", resp.Data)
		return nil
	}
	return printJSON(resp.Data)
}

// --- daemon lifecycle commands ---

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Manage the riftd daemon process",
}

var daemonStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start riftd if it isn't already running",
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := ensureRunning(cmd.Context(), false)
		if err != nil {
			printError(err.Error())
			return err
		}
		infoColor.Printf("riftd %s (PID %d)\n", result.CurrentState, result.PID)
		return nil
	},
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running riftd daemon",
	RunE: func(cmd *cobra.Command, args []string) error {
		sup, err := newSupervisor()
		if err != nil {
			printError(err.Error())
			return err
		}
		if err := sup.Stop(cmd.Context()); err != nil {
			printError(err.Error())
			return err
		}
		infoColor.Println("riftd stopped")
		return nil
	},
}

var daemonRestartCmd = &cobra.Command{
	Use:   "restart",
	Short: "Restart riftd",
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := ensureRunning(cmd.Context(), true)
		if err != nil {
			printError(err.Error())
			return err
		}
		infoColor.Printf("riftd %s (PID %d)\n", result.CurrentState, result.PID)
		return nil
	},
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report riftd's current state",
	RunE: func(cmd *cobra.Command, args []string) error {
		sup, err := newSupervisor()
		if err != nil {
			printError(err.Error())
			return err
		}
		state, err := sup.GetState(cmd.Context())
		if err != nil {
			printError(err.Error())
			return err
		}
		infoColor.Println(state.String())
		return nil
	},
}

func newSupervisor() (*lifecycle.Supervisor, error) {
	p, err := paths.Default()
	if err != nil {
		return nil, err
	}
	pidFile := lifecycle.NewPIDFile(p.PIDPath)
	health := lifecycle.NewSocketHealthChecker(2 * time.Second)
	daemon := newSidecarDaemonManager(pidFile, socketPath, health)
	return lifecycle.NewSupervisor(daemon, health, pidFile, lifecycle.DefaultSupervisorConfig()), nil
}

func ensureRunning(ctx context.Context, forceRestart bool) (*lifecycle.StartResult, error) {
	p, err := paths.Default()
	if err != nil {
		return nil, err
	}
	sup, err := newSupervisor()
	if err != nil {
		return nil, err
	}
	opts := lifecycle.ServerOptions{
		SocketPath:   socketPath,
		SnapshotPath: snapshotPath,
		ConfigPath:   configPath,
		LogFilePath:  p.LogPath,
	}
	if forceRestart {
		if err := sup.Stop(ctx); err != nil {
			return nil, err
		}
	}
	return sup.EnsureRunning(ctx, opts)
}

// --- output helpers, grounded on grid-cli's printJSON/printError ---

func printJSON(data any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func printError(msg string) {
	if noColor {
		fmt.Fprintln(os.Stderr, "Error:", msg)
		return
	}
	errorColor.Fprint(os.Stderr, "✗ Error: ")
	fmt.Fprintln(os.Stderr, msg)
}
