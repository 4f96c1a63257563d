package main

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/volt-go/volt/pkg/router"
)

func cacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Work with route cache artifacts",
	}
	cmd.AddCommand(cacheInspectCmd(), cacheVerifyCmd())
	return cmd
}

func cacheInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file>",
		Short: "Print the routes stored in a cache artifact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := router.New()
			if err := r.LoadCachedRoutesFile(args[0]); err != nil {
				return err
			}

			stats := r.Stats()
			fmt.Printf("Routes:  %d (%d static, %d dynamic)\n",
				stats.TotalRoutes, stats.StaticRoutes, stats.DynamicRoutes)

			methods := make([]string, 0, len(stats.PerMethod))
			for method := range stats.PerMethod {
				methods = append(methods, method)
			}
			sort.Strings(methods)
			for _, method := range methods {
				fmt.Printf("  %-7s %d\n", method, stats.PerMethod[method])
			}
			fmt.Println()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "METHOD\tPATH\tHANDLER\tMIDDLEWARE")
			for _, rt := range r.Routes() {
				ch, ok := rt.Handler.(router.ControllerHandler)
				if !ok {
					continue
				}
				fmt.Fprintf(w, "%s\t%s\t%s@%s\t%s\n",
					rt.Method, rt.Path, ch.Controller, ch.Action,
					middlewareNames(rt))
			}
			return w.Flush()
		},
	}
}

func cacheVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <file>",
		Short: "Check that a cache artifact loads cleanly",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := router.New()
			if err := r.LoadCachedRoutesFile(args[0]); err != nil {
				return err
			}
			fmt.Printf("ok: %d routes\n", r.Stats().TotalRoutes)
			return nil
		},
	}
}

func middlewareNames(rt *router.Route) string {
	names := rt.MiddlewareNames()
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ",")
}
