// Command loda is a small front end over the execution core: it parses
// a program file, loads it (and any seq dependencies) through the
// dependency manager, and either runs it for a single input or prints a
// run of terms. Wires gopkg.in/urfave/cli.v1, matching the outer repo's
// own cmd/gprobe command surface rather than a bare stdlib flag parser.
package main

import (
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strconv"

	"github.com/loda-lang/loda-go/internal/logx"
	"github.com/loda-lang/loda-go/lang/loader"
	"github.com/loda-lang/loda-go/lang/term"
	"github.com/loda-lang/loda-go/lang/vm"
	cli "gopkg.in/urfave/cli.v1"
)

func main() {
	app := cli.NewApp()
	app.Name = "loda"
	app.Usage = "evaluate LODA programs"
	app.Commands = []cli.Command{
		evalCommand(),
		termsCommand(),
	}
	if err := app.Run(os.Args); err != nil {
		logx.Error("loda: command failed", "err", err)
		os.Exit(1)
	}
}

func sharedFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{Name: "dir", Usage: "directory holding <id>.asm program files", Value: "."},
		cli.IntFlag{Name: "cache", Usage: "runner cache capacity", Value: 3000},
		cli.UintFlag{Name: "magnitude-bits", Usage: "arithmetic magnitude cap in bits (0 = unbounded)", Value: 32},
	}
}

func newManager(c *cli.Context) *loader.Manager {
	dir := c.String("dir")
	store := loader.SystemStore{Format: func(id uint64) string {
		return filepath.Join(dir, fmt.Sprintf("%d.asm", id))
	}}
	return loader.NewManager(store, nil)
}

func limitsFromContext(c *cli.Context) vm.Limits {
	limits := vm.DefaultLimits()
	limits.MagnitudeBits = c.Uint("magnitude-bits")
	return limits
}

func evalCommand() cli.Command {
	return cli.Command{
		Name:      "eval",
		Usage:     "evaluate <program-id> for a single input",
		ArgsUsage: "<program-id> <n>",
		Flags:     sharedFlags(),
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return cli.NewExitError("usage: loda eval <program-id> <n>", 1)
			}
			id, err := strconv.ParseUint(c.Args().Get(0), 10, 64)
			if err != nil {
				return cli.NewExitError(err, 1)
			}
			n, ok := new(big.Int).SetString(c.Args().Get(1), 10)
			if !ok {
				return cli.NewExitError("n must be an integer", 1)
			}

			mgr := newManager(c)
			runner, err := mgr.Load(id)
			if err != nil {
				return cli.NewExitError(err, 1)
			}
			cache, err := vm.NewCache(c.Int("cache"))
			if err != nil {
				return cli.NewExitError(err, 1)
			}
			out, _, err := runner.Run(n, limitsFromContext(c), cache, nil, false)
			if err != nil {
				return cli.NewExitError(err, 1)
			}
			fmt.Println(out.String())
			return nil
		},
	}
}

func termsCommand() cli.Command {
	return cli.Command{
		Name:      "terms",
		Usage:     "print the first <count> terms of <program-id>",
		ArgsUsage: "<program-id> <count>",
		Flags:     sharedFlags(),
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return cli.NewExitError("usage: loda terms <program-id> <count>", 1)
			}
			id, err := strconv.ParseUint(c.Args().Get(0), 10, 64)
			if err != nil {
				return cli.NewExitError(err, 1)
			}
			count, err := strconv.Atoi(c.Args().Get(1))
			if err != nil {
				return cli.NewExitError(err, 1)
			}

			mgr := newManager(c)
			runner, err := mgr.Load(id)
			if err != nil {
				return cli.NewExitError(err, 1)
			}
			cache, err := vm.NewCache(c.Int("cache"))
			if err != nil {
				return cli.NewExitError(err, 1)
			}

			terms, err := term.Compute(runner, count, limitsFromContext(c), cache, nil)
			for _, v := range terms {
				fmt.Println(v.String())
			}
			if err != nil {
				return cli.NewExitError(err, 1)
			}
			return nil
		},
	}
}
