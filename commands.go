//go:build !(js && wasm)

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/voxelsplace/meshvox/meshio"
	"github.com/voxelsplace/meshvox/shapes"
	"github.com/voxelsplace/meshvox/utils"
	"github.com/voxelsplace/meshvox/voxfile"
)

func init() {
	rootCmd.AddCommand(
		newVoxelizeCmd(),
		newConvertCmd(),
		newInfoCmd(),
		newShapeCmd(),
		newPackCmd(),
		newUnpackCmd(),
		newWatchCmd(),
		newBatchCmd(),
	)
}

func newVoxelizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "voxelize [in.stl|in.obj] [out]",
		Short: "Voxelize a mesh into a .vxs set (or straight to a mesh, .glb or .xyz)",
		Args:  cobra.ExactArgs(2),
	}
	cfg := configFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		switch meshio.Format(args[0]) {
		case "stl", "obj":
		default:
			return fmt.Errorf("%w: %s (want .stl or .obj)", meshio.ErrUnsupportedFormat, args[0])
		}
		if err := utils.Convert(args[0], args[1], *cfg); err != nil {
			return err
		}
		done()
		return nil
	}
	return cmd
}

func newConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert [in] [out]",
		Short: "Convert between meshes, .vxs sets and .vxpack bundles by file extension",
		Long: `Convert picks the conversion from the extensions:
  .stl/.obj -> .vxs, .stl, .obj, .glb, .xyz   (voxelize, then rebuild)
  .vxs      -> .stl, .obj, .glb, .xyz, .vxs   (rebuild or re-encode)
  .vxpack   -> .glb                           (one node per entry)`,
		Args: cobra.ExactArgs(2),
	}
	cfg := configFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if err := utils.Convert(args[0], args[1], *cfg); err != nil {
			return err
		}
		done()
		return nil
	}
	return cmd
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info [file]",
		Short: "Display information about a mesh, .vxs or .vxpack file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return utils.PrintInfo(os.Stdout, args[0])
		},
	}
}

func newShapeCmd() *cobra.Command {
	var (
		size   float64
		cells  int
		amount int
		parts  int
		seed   int64
	)
	cmd := &cobra.Command{
		Use:   "shape [kind] [out]",
		Short: "Generate a closed test mesh from a signed distance function",
		Long: fmt.Sprintf(`Generate writes a tessellated solid to out (.stl, .obj, .glb, or .vxs to
voxelize it right away). Kinds: %s.

The kind "random" writes --amount unions of random spheres and boxes as
0.stl, 1.stl, ... into the directory out.`, strings.Join(shapes.Kinds(), ", ")),
		Args: cobra.ExactArgs(2),
	}
	cfg := configFlags(cmd)
	f := cmd.Flags()
	f.Float64Var(&size, "size", 10, "side of the cube the shape fits in")
	f.IntVar(&cells, "cells", shapes.DefaultCells, "marching cubes resolution")
	f.IntVar(&amount, "amount", 1, "number of random shapes")
	f.IntVar(&parts, "parts", 4, "primitives per random shape")
	f.Int64Var(&seed, "seed", 1, "random seed")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		var err error
		if args[0] == "random" {
			err = utils.RunGenerateRandomShapes(parts, amount, size, seed, args[1])
		} else {
			err = utils.RunGenerateShape(args[0], size, cells, args[1], *cfg)
		}
		if err != nil {
			return err
		}
		done()
		return nil
	}
	return cmd
}

func newPackCmd() *cobra.Command {
	var layout, compression string
	cmd := &cobra.Command{
		Use:   "pack [out.vxpack] [in.vxs...]",
		Short: "Bundle .vxs sets into a .vxpack",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			comp, err := voxfile.ParseCompression(compression)
			if err != nil {
				return err
			}
			if comp == voxfile.CompAuto {
				return fmt.Errorf("packs need an explicit compression")
			}
			var l voxfile.PackLayout
			switch layout {
			case "raw":
				l = voxfile.LayoutRaw
			case "cdc":
				l = voxfile.LayoutCDC
			default:
				return fmt.Errorf("unknown layout %q (want raw or cdc)", layout)
			}
			if err := utils.CreatePack(args[1:], args[0], l, comp); err != nil {
				return err
			}
			done()
			return nil
		},
	}
	cmd.Flags().StringVar(&layout, "layout", "cdc", "content layout: raw or cdc (deduplicated chunks)")
	cmd.Flags().StringVarP(&compression, "compression", "c", "zstd", "pack codec: none, zlib or zstd")
	return cmd
}

func newUnpackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unpack [in.vxpack] [dir]",
		Short: "Extract the .vxs sets of a .vxpack into a directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := utils.UnpackToDir(args[0], args[1]); err != nil {
				return err
			}
			done()
			return nil
		},
	}
}

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [in] [out]",
		Short: "Re-run a conversion every time the input file changes",
		Args:  cobra.ExactArgs(2),
	}
	cfg := configFlags(cmd)
	debounce := cmd.Flags().Duration("debounce", utils.DefaultDebounce, "quiet period before converting")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()
		return utils.RunWatch(ctx, args[0], args[1], *cfg, *debounce)
	}
	return cmd
}

func newBatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "batch [jobs.toml|jobs.yaml]",
		Short: "Run the conversions listed in a TOML or YAML job file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := utils.LoadBatch(args[0])
			if err != nil {
				return err
			}
			ctx, stop := signalContext()
			defer stop()
			if err := utils.RunBatch(ctx, b); err != nil {
				return err
			}
			done()
			return nil
		},
	}
}
