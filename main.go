//go:build !(js && wasm)

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/voxelsplace/meshvox/utils"
)

var rootCmd = &cobra.Command{
	Use:   "meshvox",
	Short: "Voxelize triangle meshes and rebuild surfaces from voxel sets",
	Long: `meshvox converts STL and OBJ meshes into sparse voxel sets (.vxs), fills
their interiors, packs sets into .vxpack bundles and rebuilds face-culled
surfaces as STL, OBJ or GLB.`,
	Version:       "1.0.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// configFlags binds the shared conversion flags of cmd to a Config.
func configFlags(cmd *cobra.Command) *utils.Config {
	cfg := utils.DefaultConfig()
	f := cmd.Flags()
	f.Float64VarP(&cfg.Step, "step", "s", cfg.Step, "voxel edge length")
	f.BoolVarP(&cfg.Fill, "fill", "f", cfg.Fill, "fill the interior of closed surfaces")
	f.BoolVarP(&cfg.Greedy, "greedy", "g", cfg.Greedy, "merge coplanar faces into larger quads")
	f.IntVarP(&cfg.Workers, "workers", "w", cfg.Workers, "worker goroutines (0 = one per CPU)")
	f.BoolVar(&cfg.EarlyExit, "early-exit", cfg.EarlyExit, "stop scanning a column once its hits end")
	f.StringVarP(&cfg.Compression, "compression", "c", cfg.Compression, "payload codec: none, zlib, zstd or auto")
	return &cfg
}

// signalContext is cancelled on interrupt or termination.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func done() {
	fmt.Println("Operation completed!")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
