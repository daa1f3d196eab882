package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/servosim/internal/config"
	"github.com/san-kum/servosim/internal/integrators"
	"github.com/san-kum/servosim/internal/joint"
	"github.com/san-kum/servosim/internal/metrics"
	"github.com/san-kum/servosim/internal/servo"
	"github.com/san-kum/servosim/internal/sim"
	"github.com/san-kum/servosim/internal/storage"
	"github.com/san-kum/servosim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string

	mode       string
	direction  string
	maxVel     float64
	maxTorque  float64
	maxPos     float64
	minPos     float64
	zeroOffset float64
	kp         float64
	ki         float64
	kd         float64
	iMax       float64
	iMin       float64
	cmdMax     float64
	cmdMin     float64

	jointBackend string
	mass         float64
	length       float64
	damping      float64
	gravity      float64
	inertia      float64
	theta        float64
	omega        float64

	command   string
	target    float64
	stepTime  float64
	stepTo    float64
	amplitude float64
	frequency float64
	offset    float64

	dt        float64
	duration  float64
	seed      int64
	frameRate int
)

var (
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "servosim",
		Short: "servo actuator control simulation lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".servosim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a servo control simulation",
		RunE:  runSimulation,
	}
	addRigFlags(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run with live visualization",
		RunE:  runLive,
	}
	addRigFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range config.ListPresets() {
				fmt.Println(p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, liveCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRigFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	cmd.Flags().StringVar(&mode, "mode", "position", "control mode (position|velocity|force)")
	cmd.Flags().StringVar(&direction, "direction", "ccw", "spin direction (cw|ccw)")
	cmd.Flags().Float64Var(&maxVel, "max-velocity", config.DefaultMaxVelocity, "velocity clamp (rad/s)")
	cmd.Flags().Float64Var(&maxTorque, "max-torque", config.DefaultMaxTorque, "torque clamp (N·m)")
	cmd.Flags().Float64Var(&maxPos, "max-position", math.Pi, "position upper bound (rad)")
	cmd.Flags().Float64Var(&minPos, "min-position", -math.Pi, "position lower bound (rad)")
	cmd.Flags().Float64Var(&zeroOffset, "zero-offset", 0.0, "position zero offset (rad)")
	cmd.Flags().Float64Var(&kp, "kp", 10.0, "pid p gain")
	cmd.Flags().Float64Var(&ki, "ki", 0.1, "pid i gain")
	cmd.Flags().Float64Var(&kd, "kd", 1.0, "pid d gain")
	cmd.Flags().Float64Var(&iMax, "imax", 5.0, "integral term upper clamp")
	cmd.Flags().Float64Var(&iMin, "imin", -5.0, "integral term lower clamp")
	cmd.Flags().Float64Var(&cmdMax, "cmdmax", 20.0, "output upper clamp")
	cmd.Flags().Float64Var(&cmdMin, "cmdmin", -20.0, "output lower clamp")

	cmd.Flags().StringVar(&jointBackend, "joint", "pendulum", "joint backend (pendulum|free)")
	cmd.Flags().Float64Var(&mass, "mass", 1.0, "pendulum mass (kg)")
	cmd.Flags().Float64Var(&length, "length", 1.0, "pendulum length (m)")
	cmd.Flags().Float64Var(&damping, "damping", 0.1, "viscous damping")
	cmd.Flags().Float64Var(&gravity, "gravity", 9.81, "gravity (m/s²)")
	cmd.Flags().Float64Var(&inertia, "inertia", 1.0, "free joint inertia")
	cmd.Flags().Float64Var(&theta, "theta", 0.0, "initial angle (rad)")
	cmd.Flags().Float64Var(&omega, "omega", 0.0, "initial angular velocity (rad/s)")

	cmd.Flags().StringVar(&command, "command", "constant", "reference commander (constant|step|sine)")
	cmd.Flags().Float64Var(&target, "target", math.Pi/2, "reference value")
	cmd.Flags().Float64Var(&stepTime, "step-time", 2.0, "step commander switch time (s)")
	cmd.Flags().Float64Var(&stepTo, "step-to", 0.0, "step commander value after switch")
	cmd.Flags().Float64Var(&amplitude, "amplitude", 1.0, "sine commander amplitude")
	cmd.Flags().Float64Var(&frequency, "frequency", 0.25, "sine commander frequency (Hz)")
	cmd.Flags().Float64Var(&offset, "offset", 0.0, "sine commander offset")

	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep (s)")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration (s)")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
}

// resolveConfig layers preset, config file, and flags (flags win).
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("mode") {
		cfg.Servo.ControlMode = mode
	}
	if flags.Changed("direction") {
		cfg.Servo.SpinDirection = direction
	}
	if flags.Changed("max-velocity") {
		cfg.Servo.MaxRotVelocity = &maxVel
	}
	if flags.Changed("max-torque") {
		cfg.Servo.MaxTorque = &maxTorque
	}
	if flags.Changed("max-position") {
		cfg.Servo.MaxRotPosition = &maxPos
	}
	if flags.Changed("min-position") {
		cfg.Servo.MinRotPosition = &minPos
	}
	if flags.Changed("zero-offset") {
		cfg.Servo.ZeroOffset = &zeroOffset
	}
	if flags.Changed("kp") || flags.Changed("ki") || flags.Changed("kd") ||
		flags.Changed("imax") || flags.Changed("imin") ||
		flags.Changed("cmdmax") || flags.Changed("cmdmin") {
		if cfg.Servo.PID == nil {
			cfg.Servo.PID = &config.PIDConfig{}
		}
		pidCfg := cfg.Servo.PID
		if flags.Changed("kp") {
			pidCfg.P = kp
		}
		if flags.Changed("ki") {
			pidCfg.I = ki
		}
		if flags.Changed("kd") {
			pidCfg.D = kd
		}
		if flags.Changed("imax") {
			pidCfg.IMax = iMax
		}
		if flags.Changed("imin") {
			pidCfg.IMin = iMin
		}
		if flags.Changed("cmdmax") {
			pidCfg.CmdMax = cmdMax
		}
		if flags.Changed("cmdmin") {
			pidCfg.CmdMin = cmdMin
		}
	}

	if flags.Changed("joint") {
		cfg.Joint.Backend = jointBackend
	}
	if flags.Changed("mass") {
		cfg.Joint.Mass = mass
	}
	if flags.Changed("length") {
		cfg.Joint.Length = length
	}
	if flags.Changed("damping") {
		cfg.Joint.Damping = damping
	}
	if flags.Changed("gravity") {
		cfg.Joint.Gravity = gravity
	}
	if flags.Changed("inertia") {
		cfg.Joint.Inertia = inertia
	}
	if flags.Changed("theta") {
		cfg.Joint.Theta = theta
	}
	if flags.Changed("omega") {
		cfg.Joint.Omega = omega
	}

	if flags.Changed("command") {
		cfg.Command.Type = command
	}
	if flags.Changed("target") {
		cfg.Command.Value = target
	}
	if flags.Changed("step-time") {
		cfg.Command.StepTime = stepTime
	}
	if flags.Changed("step-to") {
		cfg.Command.StepTo = stepTo
	}
	if flags.Changed("amplitude") {
		cfg.Command.Amplitude = amplitude
	}
	if flags.Changed("frequency") {
		cfg.Command.Frequency = frequency
	}
	if flags.Changed("offset") {
		cfg.Command.Offset = offset
	}

	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}

	return cfg, nil
}

type rig struct {
	joint     joint.Steppable
	motor     *servo.Motor
	commander sim.Commander
	servoCfg  servo.Config
}

func buildRig(cfg *config.Config) (*rig, error) {
	servoCfg, diags := cfg.Servo.Resolve()
	printDiagnostics(diags)

	var jnt joint.Steppable
	switch cfg.Joint.Backend {
	case "pendulum", "":
		p := joint.NewPendulum(integrators.NewRK4())
		p.Mass = cfg.Joint.Mass
		p.Length = cfg.Joint.Length
		p.Damping = cfg.Joint.Damping
		p.Gravity = cfg.Joint.Gravity
		p.SetState(cfg.Joint.Theta, cfg.Joint.Omega)
		jnt = p
	case "free":
		f := joint.NewFree(integrators.NewRK4())
		f.Inertia = cfg.Joint.Inertia
		f.Damping = cfg.Joint.Damping
		f.SetState(cfg.Joint.Theta, cfg.Joint.Omega)
		jnt = f
	default:
		return nil, fmt.Errorf("unknown joint backend: %s", cfg.Joint.Backend)
	}

	var commander sim.Commander
	switch cfg.Command.Type {
	case "constant", "":
		commander = sim.Constant{Value: cfg.Command.Value}
	case "step":
		commander = sim.Step{Before: cfg.Command.Value, After: cfg.Command.StepTo, At: cfg.Command.StepTime}
	case "sine":
		commander = sim.Sine{Amplitude: cfg.Command.Amplitude, Frequency: cfg.Command.Frequency, Offset: cfg.Command.Offset}
	default:
		return nil, fmt.Errorf("unknown commander: %s", cfg.Command.Type)
	}

	return &rig{
		joint:     jnt,
		motor:     servo.New(servoCfg, jnt),
		commander: commander,
		servoCfg:  servoCfg,
	}, nil
}

func printDiagnostics(diags []config.Diagnostic) {
	for _, d := range diags {
		line := d.String()
		if d.Level == config.Error {
			line = errStyle.Render(line)
		} else {
			line = warnStyle.Render(line)
		}
		fmt.Fprintln(os.Stderr, line)
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	r, err := buildRig(cfg)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	simulator := sim.New(r.joint, r.motor, r.commander)
	simulator.AddMetric(metrics.NewControlEffort())
	simulator.AddMetric(metrics.NewPeakForce())
	switch r.servoCfg.Mode {
	case servo.Position:
		simulator.AddMetric(metrics.NewTrackingError())
	case servo.Velocity:
		simulator.AddMetric(metrics.NewVelocityError())
	}

	simCfg := sim.Config{Dt: cfg.Dt, Duration: cfg.Duration, Seed: cfg.Seed}

	fmt.Printf("running %s mode simulation...\n", r.servoCfg.Mode)
	start := time.Now()

	result, err := simulator.Run(context.Background(), simCfg)
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	for _, e := range result.Errors {
		fmt.Fprintln(os.Stderr, errStyle.Render(e.Error()))
	}

	runID, err := st.Save(r.servoCfg.Mode.String(), cfg.Joint.Backend, cfg.Command.Type, simCfg, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("ticks: %d\n", len(result.Ticks))
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	r, err := buildRig(cfg)
	if err != nil {
		return err
	}

	return viz.Run(r.joint, r.motor, r.commander, cfg.Dt, frameRate)
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODE\tTIME\tDURATION\tDT\tJOINT\tCOMMAND")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%s\t%s\n",
			run.ID,
			run.Mode,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Joint,
			run.Commander,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	ticks, err := st.LoadTicks(runID)
	if err != nil {
		return err
	}

	if len(ticks) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("mode: %s\n", meta.Mode)
	fmt.Printf("samples: %d\n\n", len(ticks))

	positions := make([]float64, len(ticks))
	references := make([]float64, len(ticks))
	forces := make([]float64, len(ticks))
	for i, tk := range ticks {
		positions[i] = tk.Position
		references[i] = tk.Reference
		forces[i] = tk.Applied
	}

	tracked := positions
	caption := "position (rad) / reference"
	if meta.Mode == "velocity" {
		tracked = make([]float64, len(ticks))
		for i, tk := range ticks {
			tracked[i] = tk.Velocity
		}
		caption = "velocity (rad/s) / reference"
	}

	fmt.Println(asciigraph.PlotMany(
		[][]float64{references, tracked},
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	))
	fmt.Println()

	fmt.Println(asciigraph.Plot(forces,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("applied force (N·m)"),
	))

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}
