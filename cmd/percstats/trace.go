package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"percolation/pkg/errorutil"
	"percolation/pkg/logutil"
	"percolation/pkg/percolation"
	"percolation/pkg/percstats"
)

// trace 子命令：逐个随机打开站点并打印，直到全部打开
func newTraceCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "trace <n>",
		Short: "逐个打开随机站点并打印坐标，第一次渗透时打印 percolated",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return usageError("需要一个参数 n，实际 %d 个", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parsePositive("n", args[0])
			if err != nil {
				return err
			}
			seed := time.Now().UnixNano()
			if opts.cfg.Seed != nil {
				seed = *opts.cfg.Seed
			}
			logutil.Info("trace: n=%d seed=%d", n, seed)

			p, err := percolation.New(n)
			if err != nil {
				return runErrorCode(err)
			}
			src := percstats.NewRandomSource(seed)
			out := cmd.OutOrStdout()
			reported := false
			for p.NumberOfOpenSites() < n*n {
				if err := cmd.Context().Err(); err != nil {
					return runErrorCode(err)
				}
				row, col, err := src.Next(p)
				if err != nil {
					return runErrorCode(err)
				}
				if err := p.Open(row, col); err != nil {
					return runErrorCode(err)
				}
				if _, err := fmt.Fprintf(out, "%d, %d\n", row, col); err != nil {
					return errorutil.NewExitError(errorutil.CodeIOError, err)
				}
				if p.Percolates() && !reported {
					reported = true
					if _, err := fmt.Fprintln(out, "percolated"); err != nil {
						return errorutil.NewExitError(errorutil.CodeIOError, err)
					}
				}
			}
			_, err = fmt.Fprintf(out, "numberOfOpenSites: %d\n", p.NumberOfOpenSites())
			if err != nil {
				return errorutil.NewExitError(errorutil.CodeIOError, err)
			}
			return nil
		},
	}
}
