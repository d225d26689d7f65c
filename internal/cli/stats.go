package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/folio/internal/dashboard"
	"github.com/mesh-intelligence/folio/internal/format"
	"github.com/mesh-intelligence/folio/pkg/types"
)

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show dashboard figures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, _, closeFn, err := a.openDashboard()
			defer closeFn()
			if err != nil {
				return err
			}
			s, err := d.Stats(cmd.Context())
			if err != nil {
				return storeFailure(err)
			}
			return a.emit(cmd.OutOrStdout(), s, func(w io.Writer) error {
				return writeStats(w, s)
			})
		},
	}
}

func writeStats(w io.Writer, s types.DashboardStats) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Projects:\t%d\n", s.TotalProjects)
	fmt.Fprintf(tw, "Featured:\t%d\n", s.FeaturedProjects)
	fmt.Fprintf(tw, "Skills:\t%d\n", s.TotalSkills)
	fmt.Fprintf(tw, "Testimonials:\t%d\n", s.TotalTestimonials)
	fmt.Fprintf(tw, "Average rating:\t%.1f %s\n", s.AverageRating, format.StarRating(s.AverageRating))
	return tw.Flush()
}

func newOverviewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Show figures, recent projects, top technologies and skill categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, _, closeFn, err := a.openDashboard()
			defer closeFn()
			if err != nil {
				return err
			}
			ov, err := d.Overview(cmd.Context())
			if err != nil {
				return storeFailure(err)
			}
			return a.emit(cmd.OutOrStdout(), ov, func(w io.Writer) error {
				return writeOverview(w, ov)
			})
		},
	}
}

func writeOverview(w io.Writer, ov dashboard.Overview) error {
	if err := writeStats(w, ov.Stats); err != nil {
		return err
	}
	fmt.Fprintln(w, "\nRecent projects:")
	if len(ov.RecentProjects) == 0 {
		fmt.Fprintln(w, "  none")
	}
	for _, p := range ov.RecentProjects {
		star := " "
		if p.Bool(types.FieldFeatured) {
			star = "*"
		}
		fmt.Fprintf(w, "  %s %s\n", star, p.DisplayName())
	}
	writeCounts(w, "Top technologies:", ov.TechStack)
	writeCounts(w, "Skill categories:", ov.SkillGroups)
	return nil
}

func writeCounts(w io.Writer, title string, counts []types.Count) {
	fmt.Fprintf(w, "\n%s\n", title)
	if len(counts) == 0 {
		fmt.Fprintln(w, "  none")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, c := range counts {
		fmt.Fprintf(tw, "  %s\t%d\n", c.Name, c.Value)
	}
	tw.Flush()
}
