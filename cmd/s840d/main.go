// Command s840d runs S840D G-code programs through the interpreter and
// prints the motion events it emits, the way the teacher's own main.go
// drove its engine over stdin or file arguments (leftmike-gcode's
// main.go), generalized into a cobra command tree per the pack's own
// CLI shape (msto63-mDW's cmd/mdw/cmd package).
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/leftmike/s840d/internal/config"
	"github.com/leftmike/s840d/internal/controller"
	"github.com/leftmike/s840d/internal/geom"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "s840d",
	Short: "S840D G-code interpreter",
	Long: `s840d parses and executes S840D-dialect G-code programs: it threads
modal G-group state, work-offset frames and axis position through each
block and prints the linear/circular/helical motion it programs.`,
}

var runCmd = &cobra.Command{
	Use:   "run [file...]",
	Short: "Run one or more programs (or stdin if none given)",
	RunE:  runRun,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: built-in settings)")
	rootCmd.AddCommand(runCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() config.Config {
	if cfgFile == "" {
		return config.Default()
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		log.Fatalf("s840d: loading %s: %v", cfgFile, err)
	}
	return cfg
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	if len(args) == 0 {
		return runProgram(cfg, "<stdin>", os.Stdin)
	}
	for _, path := range args {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		err = runProgram(cfg, path, f)
		f.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func runProgram(cfg config.Config, name string, r *os.File) error {
	fmt.Println(name)

	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return err
	}

	c := controller.New(printListener{})
	c.MaxJumps = cfg.MaxJumps
	c.Tolerance = cfg.ArcTolerance

	if err := c.Run(lines); err != nil {
		log.Print(err)
	}
	fmt.Println()
	return nil
}

// printListener prints each motion/program event to stdout, the teacher's
// own pattern of a Listener/machine implementation with no real hardware
// behind it.
type printListener struct{}

func (printListener) StartPoint(x, y, z float64) {
	fmt.Printf("start  (%g, %g, %g)\n", x, y, z)
}

func (printListener) BlockChange(blockIndex int) {}

func (printListener) LinearMotion(x, y, z, feed float64) {
	if feed == 0 {
		fmt.Printf("linear  (%g, %g, %g) rapid\n", x, y, z)
	} else {
		fmt.Printf("linear  (%g, %g, %g) feed=%g\n", x, y, z, feed)
	}
}

func (printListener) CircularMotion(arc *geom.DirectedArc2, x, y, z float64) {
	dir := "CCW"
	if arc.Clockwise {
		dir = "CW"
	}
	fmt.Printf("circular (%g, %g, %g) center=(%g, %g) radius=%g dir=%s\n",
		x, y, z, arc.Center.X, arc.Center.Y, arc.Radius, dir)
}

func (printListener) HelicalMotion(h *geom.Helix, x, y, z float64) {
	dir := "CCW"
	if h.Arc.Clockwise {
		dir = "CW"
	}
	fmt.Printf("helical  (%g, %g, %g) center=(%g, %g) radius=%g dir=%s turns=%d\n",
		x, y, z, h.Arc.Center.X, h.Arc.Center.Y, h.Arc.Radius, dir, h.Arc.Turns)
}

func (printListener) EndOfProgram() {
	fmt.Println("end of program")
}
