package main

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/henderiw/idxqueue/pkg/config"
	"github.com/henderiw/idxqueue/pkg/queue"
	"github.com/henderiw/idxqueue/pkg/registry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"k8s.io/apimachinery/pkg/labels"
)

func newCreateCommand(o *options) *cobra.Command {
	var (
		anchor    int64
		labelsStr string
		from      string
	)
	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create an empty queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := labels.ConvertSelectorToLabelsMap(labelsStr)
			if err != nil {
				return fmt.Errorf("invalid labels %q: %w", labelsStr, err)
			}
			return o.run(true, func(cfg *config.Config, r *registry.Registry) error {
				a := cfg.Queue.Anchor
				if cmd.Flags().Changed("anchor") {
					a = anchor
				}
				if err := r.Create(args[0], a, l); err != nil {
					return err
				}
				if from != "" {
					rng, err := queue.ParseInterval[int64](from)
					if err != nil {
						return err
					}
					if err := r.EnqueueRange(args[0], rng.From(), rng.To()); err != nil {
						return err
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", args[0])
				return nil
			})
		},
	}
	cmd.Flags().Int64Var(&anchor, "anchor", 0, "anchor of the empty queue, overrides queue.anchor")
	cmd.Flags().StringVar(&labelsStr, "labels", "", "comma separated key=value labels")
	cmd.Flags().StringVar(&from, "range", "", "initial FROM-TO range of ids")
	return cmd
}

func newDeleteCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(true, func(_ *config.Config, r *registry.Registry) error {
				if err := r.Delete(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
				return nil
			})
		},
	}
}

func newEnqueueCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "enqueue NAME ID...",
		Short: "Add ids to a queue",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args[1:])
			if err != nil {
				return err
			}
			return o.run(true, func(_ *config.Config, r *registry.Registry) error {
				for _, id := range ids {
					if err := r.Enqueue(args[0], id); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func newEnqueueRangeCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "enqueue-range NAME FROM-TO",
		Short: "Add a range of ids to a queue",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rng, err := queue.ParseInterval[int64](args[1])
			if err != nil {
				return err
			}
			return o.run(true, func(_ *config.Config, r *registry.Registry) error {
				return r.EnqueueRange(args[0], rng.From(), rng.To())
			})
		},
	}
}

func newDequeueCommand(o *options) *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "dequeue NAME",
		Short: "Remove and print the lowest ids of a queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return fmt.Errorf("count must be at least 1, got %d", count)
			}
			return o.run(true, func(_ *config.Config, r *registry.Registry) error {
				for i := 0; i < count; i++ {
					v, ok, err := r.Dequeue(args[0])
					if err != nil {
						return err
					}
					if !ok {
						if i > 0 {
							// fewer ids than requested; keep what was handed out
							break
						}
						return fmt.Errorf("%s: %w", args[0], queue.ErrQueueIsEmpty)
					}
					fmt.Fprintln(cmd.OutOrStdout(), v)
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of ids to dequeue")
	return cmd
}

func newRemoveCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "remove NAME ID...",
		Short: "Remove ids from a queue",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args[1:])
			if err != nil {
				return err
			}
			return o.run(true, func(_ *config.Config, r *registry.Registry) error {
				for _, id := range ids {
					if err := r.Remove(args[0], id); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func newRemoveRangeCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "remove-range NAME FROM-TO",
		Short: "Remove a range of ids from a queue",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rng, err := queue.ParseInterval[int64](args[1])
			if err != nil {
				return err
			}
			return o.run(true, func(_ *config.Config, r *registry.Registry) error {
				return r.RemoveRange(args[0], rng.From(), rng.To())
			})
		},
	}
}

func newShowCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show NAME",
		Short: "Print the intervals of a queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(false, func(_ *config.Config, r *registry.Registry) error {
				info, err := r.Info(args[0])
				if err != nil {
					return err
				}
				printInfo(cmd.OutOrStdout(), info)
				for _, i := range info.Intervals {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", i)
				}
				return nil
			})
		},
	}
}

func newListCommand(o *options) *cobra.Command {
	var selector string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the queues",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sel, err := labels.Parse(selector)
			if err != nil {
				return fmt.Errorf("invalid selector %q: %w", selector, err)
			}
			return o.run(false, func(_ *config.Config, r *registry.Registry) error {
				for _, info := range r.GetByLabel(sel) {
					printInfo(cmd.OutOrStdout(), info)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&selector, "selector", "l", "", "label selector to filter on")
	return cmd
}

func newMetricsCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "Print the queue gauges in the prometheus text format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.run(false, func(_ *config.Config, r *registry.Registry) error {
				reg := prometheus.NewRegistry()
				if err := reg.Register(r); err != nil {
					return fmt.Errorf("register queue metrics: %w", err)
				}
				families, err := reg.Gather()
				if err != nil {
					return fmt.Errorf("gather queue metrics: %w", err)
				}
				for _, mf := range families {
					if _, err := expfmt.MetricFamilyToText(cmd.OutOrStdout(), mf); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func printInfo(w io.Writer, info registry.Info) {
	fmt.Fprintf(w, "%s\tids=%s\tintervals=%d", info.Name, formatCount(info.Count), len(info.Intervals))
	if len(info.Labels) > 0 {
		fmt.Fprintf(w, "\tlabels=%s", info.Labels.String())
	}
	fmt.Fprintln(w)
}

func formatCount(n uint64) string {
	if n > math.MaxInt64 {
		return strconv.FormatUint(n, 10)
	}
	return humanize.Comma(int64(n))
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", arg)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
